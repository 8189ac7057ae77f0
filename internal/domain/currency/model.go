// Package currency provides the currency registry: the set of known
// monetary units and their exchange rates.
//
// Structural state (which currencies exist) lives in an immutable snapshot
// swapped by compare-and-swap, so readers never block. Each Currency owns a
// mutex guarding its mutable rate. Currencies are never deleted: accounts
// hold their name as a foreign key and no cascade policy exists.
package currency

import (
	"sync"

	"fxledger/internal/core/types"
)

// Currency is a live registry entity. Its rate may only be read or written
// while the currency is held via Registry.Acquire (or by registry internals).
type Currency struct {
	mu   sync.Mutex
	name string
	rate types.Rate
}

// Name returns the immutable currency name. Safe without the lock.
func (c *Currency) Name() string {
	return c.name
}

// snapshot copies the currency's state. Caller must hold c.mu.
func (c *Currency) snapshot() Snapshot {
	return Snapshot{Name: c.name, Rate: c.rate}
}

// Snapshot is an immutable value copy of a currency, safe to hand to
// callers outside any lock.
type Snapshot struct {
	Name string     `json:"name"`
	Rate types.Rate `json:"rate"`
}
