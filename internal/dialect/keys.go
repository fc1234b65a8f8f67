package dialect

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// KeyGenerator produces primary keys on the client side.
type KeyGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 keys.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined keys in order. It panics once
// exhausted so tests notice unexpected inserts.
type FixedGenerator struct {
	mu   sync.Mutex
	keys []string
	idx  int
}

// NewFixedGenerator creates a generator that returns keys in order.
func NewFixedGenerator(keys ...string) *FixedGenerator {
	return &FixedGenerator{keys: keys}
}

func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.keys) {
		panic("FixedGenerator: all keys exhausted")
	}
	key := g.keys[g.idx]
	g.idx++
	return key
}

// generatedKeys overrides id generation of an underlying adapter.
type generatedKeys struct {
	Adapter
	gen KeyGenerator
}

// WithGeneratedKeys wraps base so that keys come from gen before INSERT
// instead of from the database.
func WithGeneratedKeys(base Adapter, gen KeyGenerator) Adapter {
	return generatedKeys{Adapter: base, gen: gen}
}

func (generatedKeys) IsGetIDBeforeInsert() bool { return true }
func (generatedKeys) IsGetIDAfterInsert() bool  { return false }

func (a generatedKeys) GetID(context.Context, Querier, string) (any, error) {
	return a.gen.Generate(), nil
}
