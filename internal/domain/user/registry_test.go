package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"fxledger/internal/core/apperror"
	"fxledger/internal/core/id"
	"fxledger/internal/core/types"
	"fxledger/internal/domain/account"
	"fxledger/internal/domain/currency"
	"fxledger/pkg/logger"
)

type fixture struct {
	users    *Registry
	accounts *account.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	currencies := currency.NewRegistry(logger.Nop())
	_, err := currencies.Create(ctx, "USD", types.MustMoney("1.0"))
	require.NoError(t, err)

	seq := id.NewSequence()
	accounts := account.NewRegistry(seq, currencies, logger.Nop())
	return &fixture{
		users:    NewRegistry(seq, accounts, logger.Nop()),
		accounts: accounts,
	}
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.Create(ctx, "Alice Smith")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", created.FullName)
	assert.Empty(t, created.AccountIDs)

	got, err := f.users.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreate_EmptyName(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Create(context.Background(), "")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidArgument))
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Create(ctx, "Alice Smith")
	require.NoError(t, err)

	updated, err := f.users.Update(ctx, u.ID, "Alice Jones")
	require.NoError(t, err)
	assert.Equal(t, "Alice Jones", updated.FullName)

	_, err = f.users.Update(ctx, 999, "Nobody")
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.users.Update(ctx, u.ID, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidArgument))
}

func TestDelete_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Create(ctx, "Alice Smith")
	require.NoError(t, err)

	acct, err := f.users.CreateAccount(ctx, u.ID, "USD")
	require.NoError(t, err)

	err = f.users.Delete(ctx, u.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDeleteNotAllowed))

	// Still present after the refused delete.
	_, err = f.users.Get(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, f.users.DeleteAccount(ctx, u.ID, acct.ID))
	require.NoError(t, f.users.Delete(ctx, u.ID))

	_, err = f.users.Get(ctx, u.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateAccount_LinksBothSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Create(ctx, "Alice Smith")
	require.NoError(t, err)

	acct, err := f.users.CreateAccount(ctx, u.ID, "USD")
	require.NoError(t, err)
	assert.Equal(t, "USD", acct.CurrencyName)
	assert.True(t, acct.Balance.IsZero())

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{acct.ID}, got.AccountIDs)

	// The account is live in the account registry too.
	_, err = f.accounts.Get(ctx, acct.ID)
	require.NoError(t, err)
}

func TestCreateAccount_UnknownCurrency(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Create(ctx, "Alice Smith")
	require.NoError(t, err)

	_, err = f.users.CreateAccount(ctx, u.ID, "XXX")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AccountIDs)
}

func TestDeleteAccount_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, err := f.users.Create(ctx, "Alice Smith")
	require.NoError(t, err)
	bob, err := f.users.Create(ctx, "Bob Brown")
	require.NoError(t, err)

	acct, err := f.users.CreateAccount(ctx, alice.ID, "USD")
	require.NoError(t, err)

	// Not an account of this user.
	err = f.users.DeleteAccount(ctx, bob.ID, acct.ID)
	assert.True(t, apperror.IsNotFound(err))

	// Non-zero balance propagates DeleteNotAllowed and keeps the link.
	_, err = f.accounts.Deposit(ctx, acct.ID, types.MustMoney("5"), "USD")
	require.NoError(t, err)
	err = f.users.DeleteAccount(ctx, alice.ID, acct.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeDeleteNotAllowed))

	got, err := f.users.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{acct.ID}, got.AccountIDs)

	_, err = f.accounts.Withdraw(ctx, acct.ID, types.MustMoney("5"), "USD")
	require.NoError(t, err)
	require.NoError(t, f.users.DeleteAccount(ctx, alice.ID, acct.ID))

	got, err = f.users.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AccountIDs)

	_, err = f.accounts.Get(ctx, acct.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateAccount_ConcurrentWithDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.users.Create(ctx, "Alice Smith")
	require.NoError(t, err)

	// One goroutine opens accounts, another tries to delete the user. The
	// user lock makes each outcome consistent: a delete either sees no
	// accounts and wins, or fails DeleteNotAllowed.
	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 20; i++ {
			if _, err := f.users.CreateAccount(ctx, u.ID, "USD"); err != nil {
				if apperror.IsNotFound(err) {
					return nil // user deleted first
				}
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < 20; i++ {
			err := f.users.Delete(ctx, u.ID)
			if err == nil || apperror.IsNotFound(err) {
				return nil
			}
			if !apperror.IsCode(err, apperror.CodeDeleteNotAllowed) {
				return err
			}
		}
		return nil
	})
	require.NoError(t, g.Wait())

	// Whatever interleaving happened, a surviving user's set only holds
	// live accounts.
	got, err := f.users.Get(ctx, u.ID)
	if err != nil {
		assert.True(t, apperror.IsNotFound(err))
		return
	}
	for _, accountID := range got.AccountIDs {
		_, err := f.accounts.Get(ctx, accountID)
		assert.NoError(t, err)
	}
}
