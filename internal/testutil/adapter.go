package testutil

import (
	"context"
	"sync"

	"github.com/roach88/criteria/internal/dialect"
)

// CountingAdapter wraps a dialect and replaces id generation with a
// Sequence, recording every call. Err, when set, is returned by GetID and
// LastInsertID instead of an id.
type CountingAdapter struct {
	dialect.Adapter

	Seq          *Sequence
	BeforeInsert bool
	AfterInsert  bool
	Err          error

	mu      sync.Mutex
	calls   []string
	lastIDs int
}

// NewCountingAdapter wraps base. Ids are generated before insert unless
// afterInsert is set.
func NewCountingAdapter(base dialect.Adapter, afterInsert bool) *CountingAdapter {
	return &CountingAdapter{
		Adapter:      base,
		Seq:          NewSequence(),
		BeforeInsert: !afterInsert,
		AfterInsert:  afterInsert,
	}
}

func (a *CountingAdapter) IsGetIDBeforeInsert() bool { return a.BeforeInsert }
func (a *CountingAdapter) IsGetIDAfterInsert() bool  { return a.AfterInsert }

// GetID records info and returns the next sequence value.
func (a *CountingAdapter) GetID(_ context.Context, _ dialect.Querier, info string) (any, error) {
	a.mu.Lock()
	a.calls = append(a.calls, info)
	a.mu.Unlock()

	if a.Err != nil {
		return nil, a.Err
	}
	return a.Seq.Next(), nil
}

// LastInsertID returns the current sequence value.
func (a *CountingAdapter) LastInsertID(context.Context, dialect.Querier) (any, error) {
	a.mu.Lock()
	a.lastIDs++
	a.mu.Unlock()

	if a.Err != nil {
		return nil, a.Err
	}
	return a.Seq.Current(), nil
}

// Calls returns the info argument of every GetID call.
func (a *CountingAdapter) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

// LastInsertIDCalls counts LastInsertID calls.
func (a *CountingAdapter) LastInsertIDCalls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastIDs
}
