package points

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()

	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	return NewLedger(l, dataaccess.NewMemoryBackend())
}

func TestLedgerGetUnknownUser(t *testing.T) {
	ledger := newTestLedger(t)

	balance, err := ledger.Get(context.Background(), "nobody")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)
}

func TestLedgerSet(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Set(ctx, "user-1", 42))

	balance, err := ledger.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(42), balance)

	require.ErrorIs(t, ledger.Set(ctx, "user-1", -1), ErrNegativeValue)
}

func TestLedgerAdd(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	total, err := ledger.Add(ctx, "user-1", 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), total)

	total, err = ledger.Add(ctx, "user-1", 3)
	require.NoError(t, err)
	require.Equal(t, int64(8), total)

	// Deductions clamp at zero rather than going negative.
	total, err = ledger.Add(ctx, "user-1", -20)
	require.NoError(t, err)
	require.Equal(t, int64(0), total)
}

func TestLedgerRemove(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Set(ctx, "user-1", 10))
	require.NoError(t, ledger.Remove(ctx, "user-1"))

	balance, err := ledger.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)
}

func TestLedgerResetAll(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Set(ctx, "user-1", 10))
	require.NoError(t, ledger.Set(ctx, "user-2", 20))
	require.NoError(t, ledger.ResetAll(ctx))

	entries, err := ledger.Leaderboard(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLedgerLeaderboard(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Set(ctx, "bronze", 5))
	require.NoError(t, ledger.Set(ctx, "gold", 50))
	require.NoError(t, ledger.Set(ctx, "silver", 25))

	entries, err := ledger.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "gold", entries[0].UserID)
	require.Equal(t, int64(50), entries[0].Points)
	require.Equal(t, "silver", entries[1].UserID)
	require.Equal(t, "bronze", entries[2].UserID)
}

func TestLedgerLeaderboardStableTies(t *testing.T) {
	ledger := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, ledger.Set(ctx, "first", 10))
	require.NoError(t, ledger.Set(ctx, "second", 10))
	require.NoError(t, ledger.Set(ctx, "third", 10))

	entries, err := ledger.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Ties keep insertion order.
	require.Equal(t, "first", entries[0].UserID)
	require.Equal(t, "second", entries[1].UserID)
	require.Equal(t, "third", entries[2].UserID)
}
