package ir

import "fmt"

// PeriodRef selects which fiscal year a reference reads, relative to the
// year being built.
type PeriodRef string

const (
	PeriodSame PeriodRef = "SAME"
	PeriodPrev PeriodRef = "PREV"
)

// Resolve maps the reference onto a concrete year.
func (p PeriodRef) Resolve(year int) int {
	if p == PeriodPrev {
		return year - 1
	}
	return year
}

// FiscalYear is a bare year tagged Actual or Forecast.
type FiscalYear struct {
	Year   int  `json:"year"`
	Actual bool `json:"actual"`
}

// Label renders the column header, e.g. "FY2024A" or "FY2025F".
func (fy FiscalYear) Label() string {
	suffix := "F"
	if fy.Actual {
		suffix = "A"
	}
	return fmt.Sprintf("FY%d%s", fy.Year, suffix)
}
