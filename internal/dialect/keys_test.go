package dialect

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}
	a := gen.Generate()
	b := gen.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("k1", "k2")
	assert.Equal(t, "k1", gen.Generate())
	assert.Equal(t, "k2", gen.Generate())
	assert.PanicsWithValue(t, "FixedGenerator: all keys exhausted", func() { gen.Generate() })
}

func TestFixedGeneratorConcurrent(t *testing.T) {
	keys := make([]string, 100)
	for i := range keys {
		keys[i] = uuid.NewString()
	}
	gen := NewFixedGenerator(keys...)

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k := gen.Generate()
			mu.Lock()
			seen[k] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 100)
}

func TestWithGeneratedKeys(t *testing.T) {
	a := WithGeneratedKeys(SQLite{}, NewFixedGenerator("0190-key"))

	assert.Equal(t, "sqlite", a.Name())
	assert.True(t, a.IsGetIDBeforeInsert())
	assert.False(t, a.IsGetIDAfterInsert())
	assert.Equal(t, `"book"`, a.QuoteIdentifier("book"))

	id, err := a.GetID(context.Background(), nil, "ignored")
	require.NoError(t, err)
	assert.Equal(t, "0190-key", id)
}
