package user

import (
	"context"
	"sync"

	"fxledger/internal/core/apperror"
	"fxledger/internal/core/id"
	"fxledger/internal/domain/account"
	"fxledger/pkg/logger"
)

// Registry owns all user entities.
type Registry struct {
	mu    sync.Mutex // structural lock: guards the users map
	users map[id.ID]*User

	seq      *id.Sequence
	accounts *account.Registry
	log      *logger.Logger
}

// NewRegistry creates an empty user registry.
func NewRegistry(seq *id.Sequence, accounts *account.Registry, log *logger.Logger) *Registry {
	return &Registry{
		users:    make(map[id.ID]*User),
		seq:      seq,
		accounts: accounts,
		log:      log.WithComponent("user_registry"),
	}
}

// Create creates a user with an empty account set.
func (r *Registry) Create(ctx context.Context, fullName string) (Snapshot, error) {
	if fullName == "" {
		return Snapshot{}, apperror.NewInvalidArgument("full name must not be empty")
	}

	r.mu.Lock()
	userID := r.seq.NextSuitable(func(candidate id.ID) bool {
		_, taken := r.users[candidate]
		return !taken
	})
	u := &User{id: userID, fullName: fullName, accounts: make(map[id.ID]struct{})}
	r.users[userID] = u
	r.mu.Unlock()

	r.log.WithContext(ctx).Infow("user created", "user_id", userID)
	return Snapshot{ID: userID, FullName: fullName, AccountIDs: []id.ID{}}, nil
}

// Get returns a consistent snapshot of one user.
func (r *Registry) Get(ctx context.Context, userID id.ID) (Snapshot, error) {
	u, err := r.lookup(userID)
	if err != nil {
		return Snapshot{}, err
	}
	u.mu.Lock()
	s := u.snapshot()
	u.mu.Unlock()
	return s, nil
}

// Update replaces a user's full name.
func (r *Registry) Update(ctx context.Context, userID id.ID, fullName string) (Snapshot, error) {
	if fullName == "" {
		return Snapshot{}, apperror.NewInvalidArgument("full name must not be empty")
	}
	u, err := r.lookup(userID)
	if err != nil {
		return Snapshot{}, err
	}
	u.mu.Lock()
	u.fullName = fullName
	s := u.snapshot()
	u.mu.Unlock()
	return s, nil
}

// Delete removes a user. Only a user with no linked accounts may be deleted.
func (r *Registry) Delete(ctx context.Context, userID id.ID) error {
	u, err := r.lookup(userID)
	if err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	if len(u.accounts) != 0 {
		return apperror.NewDeleteNotAllowed("user still has linked accounts").
			WithDetail("user_id", userID).
			WithDetail("account_count", len(u.accounts))
	}

	r.mu.Lock()
	if r.users[userID] != u {
		r.mu.Unlock()
		return apperror.NewNotFound("user", userID)
	}
	delete(r.users, userID)
	r.mu.Unlock()

	r.log.WithContext(ctx).Infow("user deleted", "user_id", userID)
	return nil
}

// CreateAccount creates an account in the given currency and links it to
// the user. The user stays locked while the account is created and linked,
// so a concurrent Delete can never observe the user with the account
// missing from its set while the account already exists.
func (r *Registry) CreateAccount(ctx context.Context, userID id.ID, currencyName string) (account.Snapshot, error) {
	u, err := r.lookup(userID)
	if err != nil {
		return account.Snapshot{}, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	if !r.contains(userID, u) {
		return account.Snapshot{}, apperror.NewNotFound("user", userID)
	}

	held, err := r.accounts.CreateHeld(ctx, currencyName)
	if err != nil {
		return account.Snapshot{}, err
	}
	defer held.Release()

	s := held.Snapshot()
	u.accounts[s.ID] = struct{}{}

	r.log.WithContext(ctx).Infow("account linked to user", "user_id", userID, "account_id", s.ID)
	return s, nil
}

// DeleteAccount unlinks and deletes one of the user's accounts. Fails with
// NotFound if the account is not owned by this user, and propagates
// DeleteNotAllowed from the account registry on a non-zero balance.
func (r *Registry) DeleteAccount(ctx context.Context, userID, accountID id.ID) error {
	u, err := r.lookup(userID)
	if err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, owned := u.accounts[accountID]; !owned {
		return apperror.NewNotFound("account", accountID).
			WithDetail("user_id", userID)
	}

	if err := r.accounts.Delete(ctx, accountID); err != nil {
		return err
	}
	delete(u.accounts, accountID)

	r.log.WithContext(ctx).Infow("account unlinked from user", "user_id", userID, "account_id", accountID)
	return nil
}

// lookup resolves an id to its live user under the structural lock.
func (r *Registry) lookup(userID id.ID) (*User, error) {
	r.mu.Lock()
	u, ok := r.users[userID]
	r.mu.Unlock()
	if !ok {
		return nil, apperror.NewNotFound("user", userID)
	}
	return u, nil
}

// contains reports whether u is still the live mapping for userID.
func (r *Registry) contains(userID id.ID, u *User) bool {
	r.mu.Lock()
	live := r.users[userID] == u
	r.mu.Unlock()
	return live
}
