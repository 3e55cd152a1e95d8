package dataaccess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

// flakyBackend wraps a working backend and fails every write/read until
// recovered. It stands in for an unreachable document store.
type flakyBackend struct {
	Backend
	failing bool
}

var errConnReset = errors.New("connection reset by peer")

func (f *flakyBackend) Name() string { return "flaky" }

func (f *flakyBackend) SetPoints(ctx context.Context, userID string, points int64) error {
	if f.failing {
		return errConnReset
	}
	return f.Backend.SetPoints(ctx, userID, points)
}

func (f *flakyBackend) GetPoints(ctx context.Context, userID string) (int64, error) {
	if f.failing {
		return 0, errConnReset
	}
	return f.Backend.GetPoints(ctx, userID)
}

func newTestStore(t *testing.T, active Backend, fallbackFn FallbackFn) *Store {
	t.Helper()

	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	return NewStore(l, active, fallbackFn)
}

func TestStoreDelegatesToActiveBackend(t *testing.T) {
	store := newTestStore(t, NewMemoryBackend(), nil)
	ctx := context.Background()

	require.NoError(t, store.SetPoints(ctx, "user-1", 10))

	balance, err := store.GetPoints(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(10), balance)
	require.Equal(t, BackendNameMemory, store.Name())
}

func TestStoreFallbackIsSticky(t *testing.T) {
	ctx := context.Background()

	flaky := &flakyBackend{Backend: NewMemoryBackend(), failing: true}
	fallback := NewMemoryBackend()

	built := 0
	store := newTestStore(t, flaky, func(ctx context.Context) (Backend, error) {
		built++
		return fallback, nil
	})

	// The failed write retries on the fallback and succeeds there.
	require.NoError(t, store.SetPoints(ctx, "user-1", 10))
	require.Equal(t, 1, built)
	require.Equal(t, BackendNameMemory, store.Name())

	balance, err := fallback.GetPoints(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(10), balance)

	// Even once the document store recovers, the swap holds.
	flaky.failing = false
	require.NoError(t, store.SetPoints(ctx, "user-2", 5))
	require.Equal(t, 1, built)

	balance, err = fallback.GetPoints(ctx, "user-2")
	require.NoError(t, err)
	require.Equal(t, int64(5), balance)

	balance, err = flaky.Backend.GetPoints(ctx, "user-2")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)
}

func TestStoreNotFoundDoesNotTriggerFallback(t *testing.T) {
	ctx := context.Background()

	active := NewMemoryBackend()
	store := newTestStore(t, active, func(ctx context.Context) (Backend, error) {
		t.Fatal("fallback must not be constructed for a missing document")
		return nil, nil
	})

	err := store.LoadConfig(ctx, ConfigKeyRoles, new(entities.RolesConfig))
	require.ErrorIs(t, err, ErrNotFound)
	require.Same(t, active, store.Backend())
}

func TestStoreErrorWithoutFallbackPropagates(t *testing.T) {
	ctx := context.Background()

	flaky := &flakyBackend{Backend: NewMemoryBackend(), failing: true}
	store := newTestStore(t, flaky, nil)

	err := store.SetPoints(ctx, "user-1", 10)
	require.ErrorIs(t, err, errConnReset)
}

func TestStoreConcurrentFailoverSwapsOnce(t *testing.T) {
	ctx := context.Background()

	flaky := &flakyBackend{Backend: NewMemoryBackend(), failing: true}
	fallback := NewMemoryBackend()

	built := 0
	store := newTestStore(t, flaky, func(ctx context.Context) (Backend, error) {
		built++
		return fallback, nil
	})

	done := make(chan error, 10)
	for n := 0; n < 10; n++ {
		go func(n int) {
			done <- store.SetPoints(ctx, "user", int64(n))
		}(n)
	}
	for n := 0; n < 10; n++ {
		require.NoError(t, <-done)
	}

	require.Equal(t, 1, built)
}
