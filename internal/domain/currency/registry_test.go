package currency

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"fxledger/internal/core/apperror"
	"fxledger/internal/core/types"
	"fxledger/pkg/logger"
)

func newTestRegistry() *Registry {
	return NewRegistry(logger.Nop())
}

func TestCreateAndGet(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	created, err := r.Create(ctx, "USD", types.MustMoney("1.0"))
	require.NoError(t, err)
	assert.Equal(t, "USD", created.Name)
	assert.True(t, created.Rate.Equal(types.MustMoney("1.0")))

	got, err := r.Get(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	assert.True(t, r.Has("USD"))
	assert.False(t, r.Has("EUR"))
}

func TestGet_NotFound(t *testing.T) {
	r := newTestRegistry()

	_, err := r.Get(context.Background(), "XXX")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_Duplicate(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	_, err := r.Create(ctx, "USD", types.MustMoney("1.0"))
	require.NoError(t, err)

	_, err = r.Create(ctx, "USD", types.MustMoney("2.0"))
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeAlreadyExists))

	// The losing create left the store unchanged.
	got, err := r.Get(ctx, "USD")
	require.NoError(t, err)
	assert.True(t, got.Rate.Equal(types.MustMoney("1.0")))
}

func TestCreate_Invalid(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	_, err := r.Create(ctx, "", types.MustMoney("1.0"))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidArgument))

	_, err = r.Create(ctx, "USD", types.Zero())
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidArgument))

	_, err = r.Create(ctx, "USD", types.MustMoney("-3"))
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidArgument))
}

func TestUpdateRate(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	_, err := r.Create(ctx, "RUB", types.MustMoney("60"))
	require.NoError(t, err)

	updated, err := r.UpdateRate(ctx, "RUB", types.MustMoney("64.07"))
	require.NoError(t, err)
	assert.True(t, updated.Rate.Equal(types.MustMoney("64.07")))

	got, err := r.Get(ctx, "RUB")
	require.NoError(t, err)
	assert.True(t, got.Rate.Equal(types.MustMoney("64.07")))

	_, err = r.UpdateRate(ctx, "XXX", types.MustMoney("1"))
	assert.True(t, apperror.IsNotFound(err))

	_, err = r.UpdateRate(ctx, "RUB", types.Zero())
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidArgument))
}

func TestList_SortedSnapshots(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	for _, name := range []string{"USD", "EUR", "RUB"} {
		_, err := r.Create(ctx, name, types.MustMoney("1"))
		require.NoError(t, err)
	}

	got := r.List(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, "EUR", got[0].Name)
	assert.Equal(t, "RUB", got[1].Name)
	assert.Equal(t, "USD", got[2].Name)
}

func TestAcquire_DedupesAndConverts(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	_, err := r.Create(ctx, "USD", types.MustMoney("1.0"))
	require.NoError(t, err)
	_, err = r.Create(ctx, "RUB", types.MustMoney("64.07"))
	require.NoError(t, err)

	locked, err := r.Acquire("RUB", "USD", "RUB", "RUB")
	require.NoError(t, err)
	defer locked.Release()

	// amount * to.rate / from.rate
	got, err := locked.Convert(types.MustMoney("500"), "RUB", "USD")
	require.NoError(t, err)
	want := types.MustMoney("500").Mul(types.MustMoney("1.0")).Div(types.MustMoney("64.07"))
	assert.True(t, got.Equal(want), "got %s want %s", got, want)

	// Same-currency conversion is the identity.
	same, err := locked.Convert(types.MustMoney("500"), "RUB", "RUB")
	require.NoError(t, err)
	assert.True(t, same.Equal(types.MustMoney("500")))
}

func TestAcquire_MissingName(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	_, err := r.Create(ctx, "USD", types.MustMoney("1.0"))
	require.NoError(t, err)

	_, err = r.Acquire("USD", "XXX")
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	// Nothing stayed locked: a subsequent acquire must not block.
	locked, err := r.Acquire("USD")
	require.NoError(t, err)
	locked.Release()
}

func TestCreate_ConcurrentSameName(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	const attempts = 16
	errs := make([]error, attempts)

	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		i := i
		g.Go(func() error {
			_, errs[i] = r.Create(ctx, "USD", types.MustMoney("1"))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.True(t, apperror.IsCode(err, apperror.CodeAlreadyExists))
		}
	}
	assert.Equal(t, 1, winners)
}

func TestCreate_ConcurrentDistinctNames(t *testing.T) {
	r := newTestRegistry()
	ctx := context.Background()

	const n = 32
	var g errgroup.Group
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("C%02d", i)
		g.Go(func() error {
			_, err := r.Create(ctx, name, types.MustMoney("1"))
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Len(t, r.List(ctx), n)
}
