package account

import (
	"context"
	"sort"
	"sync"

	"fxledger/internal/core/apperror"
	"fxledger/internal/core/id"
	"fxledger/internal/core/types"
	"fxledger/internal/domain/currency"
	"fxledger/pkg/logger"
)

// Registry owns all account entities.
type Registry struct {
	mu       sync.Mutex // structural lock: guards the accounts map
	accounts map[id.ID]*Account

	seq        *id.Sequence
	currencies *currency.Registry
	log        *logger.Logger
}

// NewRegistry creates an empty account registry.
func NewRegistry(seq *id.Sequence, currencies *currency.Registry, log *logger.Logger) *Registry {
	return &Registry{
		accounts:   make(map[id.ID]*Account),
		seq:        seq,
		currencies: currencies,
		log:        log.WithComponent("account_registry"),
	}
}

// Get returns a consistent snapshot of one account.
func (r *Registry) Get(ctx context.Context, accountID id.ID) (Snapshot, error) {
	a, err := r.lookup(accountID)
	if err != nil {
		return Snapshot{}, err
	}
	a.mu.Lock()
	s := a.snapshot()
	a.mu.Unlock()
	return s, nil
}

// Create creates an account with zero balance in the given currency.
func (r *Registry) Create(ctx context.Context, currencyName string) (Snapshot, error) {
	h, err := r.CreateHeld(ctx, currencyName)
	if err != nil {
		return Snapshot{}, err
	}
	s := h.Snapshot()
	h.Release()
	return s, nil
}

// CreateHeld creates an account and returns it still locked, so the caller
// can attach it to other state before any concurrent reader can observe it.
// The caller must call Release on every exit path.
func (r *Registry) CreateHeld(ctx context.Context, currencyName string) (*Held, error) {
	if !r.currencies.Has(currencyName) {
		return nil, apperror.NewNotFound("currency", currencyName)
	}

	r.mu.Lock()
	accountID := r.seq.NextSuitable(func(candidate id.ID) bool {
		_, taken := r.accounts[candidate]
		return !taken
	})
	a := &Account{id: accountID, balance: types.Zero(), currency: currencyName}
	a.mu.Lock() // not yet visible to anyone else, cannot block
	r.accounts[accountID] = a
	r.mu.Unlock()

	r.log.WithContext(ctx).Infow("account created", "account_id", accountID, "currency", currencyName)
	return &Held{acct: a}, nil
}

// Delete removes an account. Only a zero-balance account may be deleted.
func (r *Registry) Delete(ctx context.Context, accountID id.ID) error {
	a, err := r.lookup(accountID)
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.balance.IsZero() {
		return apperror.NewDeleteNotAllowed("account has non-zero balance").
			WithDetail("account_id", accountID).
			WithDetail("balance", a.balance.String())
	}

	r.mu.Lock()
	// A concurrent Delete may have won between lookup and lock.
	if r.accounts[accountID] != a {
		r.mu.Unlock()
		return apperror.NewNotFound("account", accountID)
	}
	delete(r.accounts, accountID)
	r.mu.Unlock()

	r.log.WithContext(ctx).Infow("account deleted", "account_id", accountID)
	return nil
}

// Deposit adds amount (stated in currencyName, converted into the account's
// currency) to the account's balance. Amount must be strictly positive.
func (r *Registry) Deposit(ctx context.Context, accountID id.ID, amount types.Money, currencyName string) (Snapshot, error) {
	if !amount.IsPositive() {
		return Snapshot{}, apperror.NewInvalidArgument("deposit amount must be positive").
			WithDetail("amount", amount.String())
	}
	return r.applyDelta(ctx, accountID, amount, currencyName)
}

// Withdraw subtracts amount (stated in currencyName, converted into the
// account's currency) from the account's balance. Amount must be strictly
// positive; a withdrawal that would drive the balance negative fails with
// InsufficientFunds and mutates nothing.
func (r *Registry) Withdraw(ctx context.Context, accountID id.ID, amount types.Money, currencyName string) (Snapshot, error) {
	if !amount.IsPositive() {
		return Snapshot{}, apperror.NewInvalidArgument("withdraw amount must be positive").
			WithDetail("amount", amount.String())
	}
	return r.applyDelta(ctx, accountID, amount.Neg(), currencyName)
}

// applyDelta is the balance-update algorithm shared by Deposit and Withdraw.
// Lock order: account first, then currencies (via the currency registry's
// ordered Acquire). Release order is the reverse, by defer LIFO.
func (r *Registry) applyDelta(ctx context.Context, accountID id.ID, delta types.Money, currencyName string) (Snapshot, error) {
	a, err := r.lookup(accountID)
	if err != nil {
		return Snapshot{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if !r.contains(accountID, a) {
		return Snapshot{}, apperror.NewNotFound("account", accountID)
	}

	locked, err := r.currencies.Acquire(a.currency, currencyName)
	if err != nil {
		return Snapshot{}, err
	}
	defer locked.Release()

	converted, err := locked.Convert(delta, currencyName, a.currency)
	if err != nil {
		return Snapshot{}, err
	}

	next := a.balance.Add(converted)
	if next.IsNegative() {
		return Snapshot{}, apperror.NewInsufficientFunds(accountID, converted.Neg().String(), a.balance.String())
	}
	a.balance = next

	r.log.WithContext(ctx).Debugw("balance updated",
		"account_id", accountID,
		"delta", converted.String(),
		"balance", next.String(),
	)
	return a.snapshot(), nil
}

// Acquire deduplicates the requested ids and locks the accounts in
// ascending id order. If any id is missing, nothing stays locked and
// NotFound is returned. This is the building block for multi-account
// atomicity; the ascending order is the account half of the global
// lock-ordering protocol.
//
// The caller must call Release on the returned set on every exit path.
func (r *Registry) Acquire(ids ...id.ID) (*LockSet, error) {
	uniq := make([]id.ID, 0, len(ids))
	seen := make(map[id.ID]struct{}, len(ids))
	for _, accountID := range ids {
		if _, ok := seen[accountID]; ok {
			continue
		}
		seen[accountID] = struct{}{}
		uniq = append(uniq, accountID)
	}
	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })

	resolved := make([]*Account, 0, len(uniq))
	r.mu.Lock()
	for _, accountID := range uniq {
		a, ok := r.accounts[accountID]
		if !ok {
			r.mu.Unlock()
			return nil, apperror.NewNotFound("account", accountID)
		}
		resolved = append(resolved, a)
	}
	r.mu.Unlock()

	for _, a := range resolved {
		a.mu.Lock()
	}

	// An account deleted between resolution and locking must not be mutated.
	for _, a := range resolved {
		if !r.contains(a.id, a) {
			for i := len(resolved) - 1; i >= 0; i-- {
				resolved[i].mu.Unlock()
			}
			return nil, apperror.NewNotFound("account", a.id)
		}
	}
	return &LockSet{held: resolved}, nil
}

// lookup resolves an id to its live account under the structural lock.
func (r *Registry) lookup(accountID id.ID) (*Account, error) {
	r.mu.Lock()
	a, ok := r.accounts[accountID]
	r.mu.Unlock()
	if !ok {
		return nil, apperror.NewNotFound("account", accountID)
	}
	return a, nil
}

// contains reports whether a is still the live mapping for accountID.
func (r *Registry) contains(accountID id.ID, a *Account) bool {
	r.mu.Lock()
	live := r.accounts[accountID] == a
	r.mu.Unlock()
	return live
}

// Held is a scoped guard over a newly created, still-locked account.
type Held struct {
	acct     *Account
	released bool
}

// Account returns the held account.
func (h *Held) Account() *Account {
	return h.acct
}

// Snapshot copies the held account's state.
func (h *Held) Snapshot() Snapshot {
	return h.acct.snapshot()
}

// Release unlocks the account. Safe to call once; typically deferred.
func (h *Held) Release() {
	if h.released {
		return
	}
	h.released = true
	h.acct.mu.Unlock()
}

// LockSet is a scoped guard over a set of locked accounts, sorted by id.
type LockSet struct {
	held     []*Account
	released bool
}

// Get returns the held account with the given id, or nil if it is not part
// of this set.
func (ls *LockSet) Get(accountID id.ID) *Account {
	for _, a := range ls.held {
		if a.id == accountID {
			return a
		}
	}
	return nil
}

// Release unlocks every account in reverse acquisition order.
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
