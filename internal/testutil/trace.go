package testutil

// FixedTraceGenerator returns the same trace id every time.
//
// CLI tests use it so JSON responses are byte-stable.
//
// Thread-safety: FixedTraceGenerator is stateless and safe for concurrent use.
type FixedTraceGenerator struct {
	id string
}

// NewFixedTraceGenerator creates a generator for id. An empty id becomes
// "test-trace-default".
func NewFixedTraceGenerator(id string) *FixedTraceGenerator {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedTraceGenerator) Generate() string {
	return g.id
}
