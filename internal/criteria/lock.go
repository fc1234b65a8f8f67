package criteria

import "slices"

// LockType is the row lock strength.
type LockType int

const (
	LockShared LockType = iota
	LockExclusive
)

func (t LockType) String() string {
	if t == LockExclusive {
		return "EXCLUSIVE"
	}
	return "SHARED"
}

// Lock is a SELECT row lock.
type Lock struct {
	Type       LockType
	TableNames []string
	NoWait     bool
}

// IsExclusive reports whether the lock is FOR UPDATE.
func (l *Lock) IsExclusive() bool {
	return l.Type == LockExclusive
}

func (l *Lock) Equal(o *Lock) bool {
	if l == nil || o == nil {
		return l == nil && o == nil
	}
	return l.Type == o.Type && l.NoWait == o.NoWait && slices.Equal(l.TableNames, o.TableNames)
}

func (l *Lock) Clone() *Lock {
	if l == nil {
		return nil
	}
	return &Lock{Type: l.Type, TableNames: slices.Clone(l.TableNames), NoWait: l.NoWait}
}
