package testutil

// FixedRunIDGenerator returns the same run id every time.
//
// Unlike engine.FixedGenerator, which returns ids in sequence, this
// generator never runs out. Useful when a scenario saves exactly one run.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator for id. An empty id becomes
// "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run id.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
