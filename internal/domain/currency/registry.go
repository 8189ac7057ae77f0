package currency

import (
	"context"
	"sort"
	"sync/atomic"

	"fxledger/internal/core/apperror"
	"fxledger/internal/core/types"
	"fxledger/pkg/logger"
)

// store is the immutable structural snapshot. A new map is built for every
// structural change and swapped in atomically; an installed map is never
// mutated again.
type store map[string]*Currency

// Registry owns all currency entities.
type Registry struct {
	snap atomic.Pointer[store]
	log  *logger.Logger
}

// NewRegistry creates an empty currency registry.
func NewRegistry(log *logger.Logger) *Registry {
	r := &Registry{log: log.WithComponent("currency_registry")}
	empty := store{}
	r.snap.Store(&empty)
	return r
}

// Has reports whether a currency exists. Lock-free; use where no consistent
// read of the rate is needed.
func (r *Registry) Has(name string) bool {
	_, ok := (*r.snap.Load())[name]
	return ok
}

// Get returns a consistent snapshot of one currency.
func (r *Registry) Get(ctx context.Context, name string) (Snapshot, error) {
	c, ok := (*r.snap.Load())[name]
	if !ok {
		return Snapshot{}, apperror.NewNotFound("currency", name)
	}
	c.mu.Lock()
	s := c.snapshot()
	c.mu.Unlock()
	return s, nil
}

// List returns consistent snapshots of every currency. All currency locks
// are taken in lexicographic name order so List cannot deadlock against any
// other multi-currency operation.
func (r *Registry) List(ctx context.Context) []Snapshot {
	cur := *r.snap.Load()

	names := make([]string, 0, len(cur))
	for name := range cur {
		names = append(names, name)
	}
	sort.Strings(names)

	held := make([]*Currency, 0, len(names))
	for _, name := range names {
		c := cur[name]
		c.mu.Lock()
		held = append(held, c)
	}

	out := make([]Snapshot, 0, len(held))
	for _, c := range held {
		out = append(out, c.snapshot())
	}
	for i := len(held) - 1; i >= 0; i-- {
		held[i].mu.Unlock()
	}
	return out
}

// Create inserts a new currency. Optimistic: reads the current snapshot,
// fails with AlreadyExists on a name collision, otherwise attempts to swap
// in a copy containing the new entry, retrying on concurrent-writer conflict.
func (r *Registry) Create(ctx context.Context, name string, rate types.Rate) (Snapshot, error) {
	if name == "" {
		return Snapshot{}, apperror.NewInvalidArgument("currency name must not be empty")
	}
	if !rate.IsPositive() {
		return Snapshot{}, apperror.NewInvalidArgument("exchange rate must be positive").
			WithDetail("rate", rate.String())
	}

	c := &Currency{name: name, rate: rate}
	for {
		old := r.snap.Load()
		if _, ok := (*old)[name]; ok {
			return Snapshot{}, apperror.NewAlreadyExists("currency", name)
		}
		next := make(store, len(*old)+1)
		for k, v := range *old {
			next[k] = v
		}
		next[name] = c
		if r.snap.CompareAndSwap(old, &next) {
			r.log.WithContext(ctx).Infow("currency created", "name", name, "rate", rate.String())
			return Snapshot{Name: name, Rate: rate}, nil
		}
	}
}

// UpdateRate replaces a currency's exchange rate.
func (r *Registry) UpdateRate(ctx context.Context, name string, rate types.Rate) (Snapshot, error) {
	if !rate.IsPositive() {
		return Snapshot{}, apperror.NewInvalidArgument("exchange rate must be positive").
			WithDetail("rate", rate.String())
	}
	c, ok := (*r.snap.Load())[name]
	if !ok {
		return Snapshot{}, apperror.NewNotFound("currency", name)
	}
	c.mu.Lock()
	c.rate = rate
	s := c.snapshot()
	c.mu.Unlock()
	r.log.WithContext(ctx).Infow("currency rate updated", "name", name, "rate", rate.String())
	return s, nil
}

// Acquire deduplicates the requested names, resolves them against the
// current snapshot, and locks them in lexicographic name order. That order
// is the currency half of the global lock-ordering protocol; every caller
// needing more than one currency lock must come through here.
//
// The caller must call Release on the returned set on every exit path.
func (r *Registry) Acquire(names ...string) (*LockSet, error) {
	cur := *r.snap.Load()

	uniq := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		uniq = append(uniq, name)
	}
	sort.Strings(uniq)

	resolved := make([]*Currency, 0, len(uniq))
	for _, name := range uniq {
		c, ok := cur[name]
		if !ok {
			return nil, apperror.NewNotFound("currency", name)
		}
		resolved = append(resolved, c)
	}

	for _, c := range resolved {
		c.mu.Lock()
	}
	return &LockSet{held: resolved}, nil
}

// LockSet is a scoped guard over a set of locked currencies.
type LockSet struct {
	held     []*Currency // sorted by name, all locked
	released bool
}

// Release unlocks every currency in reverse acquisition order.
// Safe to call once; typically deferred.
func (ls *LockSet) Release() {
	if ls.released {
		return
	}
	ls.released = true
	for i := len(ls.held) - 1; i >= 0; i-- {
		ls.held[i].mu.Unlock()
	}
}

// Convert converts amount from one held currency into another:
// amount * to.rate / from.rate. Both currencies must be part of this set,
// which is what guarantees the rates cannot change mid-computation.
func (ls *LockSet) Convert(amount types.Money, from, to string) (types.Money, error) {
	f, err := ls.get(from)
	if err != nil {
		return types.Zero(), err
	}
	t, err := ls.get(to)
	if err != nil {
		return types.Zero(), err
	}
	if f == t {
		return amount, nil
	}
	return amount.Mul(t.rate).Div(f.rate), nil
}

func (ls *LockSet) get(name string) (*Currency, error) {
	for _, c := range ls.held {
		if c.name == name {
			return c, nil
		}
	}
	// Conversion against a currency that was never acquired is a caller bug.
	return nil, apperror.NewInternal(nil).WithDetail("unheld_currency", name)
}
