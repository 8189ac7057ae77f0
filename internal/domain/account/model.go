// Package account provides the account registry: id-keyed accounts with a
// balance in a fixed currency.
//
// Structural changes (insert/remove) go through one registry-wide lock;
// balance mutation goes through the per-account lock, so updates on
// different accounts never contend. Whenever account and currency locks are
// both needed, account locks come first. Among accounts the order is
// ascending id; that rule is the account half of the global lock-ordering
// protocol and is what keeps concurrent deposits, withdrawals, and
// transfers deadlock-free.
package account

import (
	"sync"

	"fxledger/internal/core/id"
	"fxledger/internal/core/types"
)

// Account is a live registry entity. Balance may only be read or written
// while the account is held via Registry.Acquire or CreateHeld.
type Account struct {
	mu       sync.Mutex
	id       id.ID
	balance  types.Money
	currency string
}

// ID returns the immutable account id. Safe without the lock.
func (a *Account) ID() id.ID {
	return a.id
}

// CurrencyName returns the immutable currency name. Safe without the lock.
func (a *Account) CurrencyName() string {
	return a.currency
}

// Balance returns the current balance. Caller must hold the account.
func (a *Account) Balance() types.Money {
	return a.balance
}

// Credit adds amount to the balance. Caller must hold the account.
func (a *Account) Credit(amount types.Money) {
	a.balance = a.balance.Add(amount)
}

// Debit subtracts amount from the balance. Caller must hold the account and
// have verified the balance covers the amount.
func (a *Account) Debit(amount types.Money) {
	a.balance = a.balance.Sub(amount)
}

// snapshot copies the account's state. Caller must hold a.mu.
func (a *Account) snapshot() Snapshot {
	return Snapshot{ID: a.id, Balance: a.balance, CurrencyName: a.currency}
}

// Snapshot is an immutable value copy of an account, safe to hand to
// callers outside any lock.
type Snapshot struct {
	ID           id.ID       `json:"id"`
	Balance      types.Money `json:"balance"`
	CurrencyName string      `json:"currencyName"`
}
