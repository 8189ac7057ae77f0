package transfer

import (
	"context"
	"sync/atomic"
	"time"

	"fxledger/internal/core/apperror"
	"fxledger/internal/core/id"
	"fxledger/internal/core/types"
	"fxledger/internal/domain/account"
	"fxledger/internal/domain/currency"
	"fxledger/pkg/logger"
)

// history is the immutable ledger snapshot: an id index plus the records in
// insertion order. A new history is built for every insert and swapped in
// atomically; an installed history is never mutated again, so readers never
// block and entries need no locks.
type history struct {
	byID  map[id.ID]*Transfer
	order []*Transfer
}

// Ledger orchestrates atomic multi-account transfers and owns the history.
// It takes no locks of its own: lock acquisition is delegated to the
// account and currency registries, which are the single source of truth for
// lock ordering.
type Ledger struct {
	snap atomic.Pointer[history]

	seq        *id.Sequence
	accounts   *account.Registry
	currencies *currency.Registry
	log        *logger.Logger
}

// NewLedger creates an empty transfer ledger.
func NewLedger(seq *id.Sequence, accounts *account.Registry, currencies *currency.Registry, log *logger.Logger) *Ledger {
	l := &Ledger{
		seq:        seq,
		accounts:   accounts,
		currencies: currencies,
		log:        log.WithComponent("transfer_ledger"),
	}
	l.snap.Store(&history{byID: map[id.ID]*Transfer{}})
	return l
}

// Get returns the transfer with the given id. Lock-free snapshot read.
func (l *Ledger) Get(ctx context.Context, transferID id.ID) (Transfer, error) {
	t, ok := l.snap.Load().byID[transferID]
	if !ok {
		return Transfer{}, apperror.NewNotFound("transfer", transferID)
	}
	return *t, nil
}

// Create atomically moves amount (stated in currencyName) from one account
// to the other and records the outcome. Insufficient funds is not an error
// here: the record is inserted with status FAILED and no balance changes.
// The record only becomes visible after every lock is released.
func (l *Ledger) Create(ctx context.Context, fromID, toID id.ID, amount types.Money, currencyName string) (Transfer, error) {
	if amount.IsNegative() {
		return Transfer{}, apperror.NewInvalidArgument("transfer amount must not be negative").
			WithDetail("amount", amount.String())
	}
	if fromID == toID {
		return Transfer{}, apperror.NewCreateNotAllowed("transfer from an account to itself is not allowed").
			WithDetail("account_id", fromID)
	}

	status, err := l.execute(fromID, toID, amount, currencyName)
	if err != nil {
		return Transfer{}, err
	}

	record := l.insert(Transfer{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		CurrencyName:  currencyName,
		Timestamp:     time.Now().UTC(),
		Status:        status,
	})

	l.log.WithContext(ctx).Infow("transfer recorded",
		"transfer_id", record.ID,
		"from", fromID,
		"to", toID,
		"amount", amount.String(),
		"currency", currencyName,
		"status", status,
	)
	return record, nil
}

// execute performs the locked read-validate-mutate sequence and returns the
// decided status. All locks are released before it returns: accounts are
// acquired before currencies, and the deferred releases run in reverse.
func (l *Ledger) execute(fromID, toID id.ID, amount types.Money, currencyName string) (Status, error) {
	accts, err := l.accounts.Acquire(fromID, toID)
	if err != nil {
		return "", err
	}
	defer accts.Release()

	from := accts.Get(fromID)
	to := accts.Get(toID)

	curs, err := l.currencies.Acquire(from.CurrencyName(), to.CurrencyName(), currencyName)
	if err != nil {
		return "", err
	}
	defer curs.Release()

	withdrawAmount, err := curs.Convert(amount, currencyName, from.CurrencyName())
	if err != nil {
		return "", err
	}
	depositAmount, err := curs.Convert(amount, currencyName, to.CurrencyName())
	if err != nil {
		return "", err
	}

	if from.Balance().LessThan(withdrawAmount) {
		return StatusFailed, nil
	}
	from.Debit(withdrawAmount)
	to.Credit(depositAmount)
	return StatusSucceeded, nil
}

// insert assigns a fresh id and publishes the record via a CAS retry loop.
func (l *Ledger) insert(t Transfer) Transfer {
	t.ID = l.seq.NextSuitable(func(candidate id.ID) bool {
		_, taken := l.snap.Load().byID[candidate]
		return !taken
	})

	record := &t
	for {
		old := l.snap.Load()
		next := &history{
			byID:  make(map[id.ID]*Transfer, len(old.byID)+1),
			order: make([]*Transfer, len(old.order), len(old.order)+1),
		}
		for k, v := range old.byID {
			next.byID[k] = v
		}
		copy(next.order, old.order)
		next.byID[record.ID] = record
		next.order = append(next.order, record)
		if l.snap.CompareAndSwap(old, next) {
			return t
		}
	}
}

// List returns the transfers in which the account participates as source or
// destination, in insertion order, skipping offset records and returning at
// most limit.
func (l *Ledger) List(ctx context.Context, accountID id.ID, offset, limit int) ([]Transfer, error) {
	if offset < 0 {
		return nil, apperror.NewInvalidArgument("offset must not be negative").
			WithDetail("offset", offset)
	}
	if limit < 0 {
		return nil, apperror.NewInvalidArgument("limit must not be negative").
			WithDetail("limit", limit)
	}

	snap := l.snap.Load()
	// limit is caller-controlled; cap the allocation by what can actually match.
	out := make([]Transfer, 0, min(limit, len(snap.order)))
	skipped := 0
	for _, t := range snap.order {
		if t.FromAccountID != accountID && t.ToAccountID != accountID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, *t)
	}
	return out, nil
}
