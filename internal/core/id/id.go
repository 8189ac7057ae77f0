// Package id provides integer id generation for all ledger entities.
// A single Sequence is shared process-wide, so ids are totally ordered
// across entity types and never reused after deletion.
package id

import (
	"sync/atomic"
)

// ID is the integer identifier type used across all entities.
type ID = int64

// Sequence is a lock-free monotonically increasing id source.
// The zero value is ready to use; the first id issued is 1.
type Sequence struct {
	n atomic.Int64
}

// NewSequence returns a fresh Sequence starting at 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next atomically increments and returns the counter.
// Two concurrent calls never return the same value.
func (s *Sequence) Next() ID {
	return s.n.Add(1)
}

// NextSuitable calls Next until the result satisfies ok.
// Registries use it to skip ids currently present in their own map;
// since the counter never rolls back, the predicate is expected to
// accept on the first attempt in practice.
func (s *Sequence) NextSuitable(ok func(ID) bool) ID {
	for {
		if id := s.Next(); ok(id) {
			return id
		}
	}
}
