package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/fsproj/internal/ir"
)

// marshalYears converts fiscal years to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON so equal runs store byte-identical rows.
func marshalYears(years []ir.FiscalYear) (string, error) {
	list := make([]map[string]any, len(years))
	for i, fy := range years {
		list[i] = map[string]any{"year": fy.Year, "actual": fy.Actual}
	}
	data, err := ir.MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("marshal years: %w", err)
	}
	return string(data), nil
}

// unmarshalYears parses canonical JSON TEXT to fiscal years.
func unmarshalYears(data string) ([]ir.FiscalYear, error) {
	if data == "" || data == "[]" {
		return []ir.FiscalYear{}, nil
	}
	var years []ir.FiscalYear
	if err := json.Unmarshal([]byte(data), &years); err != nil {
		return nil, fmt.Errorf("unmarshal years: %w", err)
	}
	return years, nil
}
