// Package user provides the user registry: users and the set of account
// ids each user owns. Every id in a user's set exists in the account
// registry and was created through that user.
package user

import (
	"sort"
	"sync"

	"fxledger/internal/core/id"
)

// User is a live registry entity. Full name and the account set may only be
// mutated while holding the user's lock.
type User struct {
	mu       sync.Mutex
	id       id.ID
	fullName string
	accounts map[id.ID]struct{}
}

// ID returns the immutable user id. Safe without the lock.
func (u *User) ID() id.ID {
	return u.id
}

// snapshot copies the user's state. Caller must hold u.mu.
func (u *User) snapshot() Snapshot {
	accountIDs := make([]id.ID, 0, len(u.accounts))
	for accountID := range u.accounts {
		accountIDs = append(accountIDs, accountID)
	}
	sort.Slice(accountIDs, func(i, j int) bool { return accountIDs[i] < accountIDs[j] })
	return Snapshot{ID: u.id, FullName: u.fullName, AccountIDs: accountIDs}
}

// Snapshot is an immutable value copy of a user, safe to hand to callers
// outside any lock. AccountIDs is sorted ascending.
type Snapshot struct {
	ID         id.ID   `json:"id"`
	FullName   string  `json:"fullName"`
	AccountIDs []id.ID `json:"accountIds"`
}
