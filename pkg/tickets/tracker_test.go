package tickets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
	"github.com/ultrarealm/expressbot/pkg/points"
)

func newTestTracker(t *testing.T) (*Tracker, *points.Ledger) {
	t.Helper()

	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	store := dataaccess.NewMemoryBackend()
	require.NoError(t, store.SaveCategory(context.Background(), &entities.Category{
		Name:   "Temple Express",
		Slots:  3,
		Points: 5,
	}))

	ledger := points.NewLedger(l, store)
	return NewTracker(l, store, ledger), ledger
}

func TestTrackerCreate(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	ticket, err := tracker.Create(ctx, "Temple Express", "user-1", "chan-1", 1234)
	require.NoError(t, err)
	require.Equal(t, 1, ticket.Number)
	require.Equal(t, "Temple Express", ticket.Category)
	require.Equal(t, "user-1", ticket.Requestor)
	require.Len(t, ticket.Helpers, 3)
	require.Equal(t, 5, ticket.Points)
	require.Equal(t, 1234, ticket.Tag)

	// Sequence numbers are per category and monotonic.
	second, err := tracker.Create(ctx, "Temple Express", "user-2", "chan-2", 5678)
	require.NoError(t, err)
	require.Equal(t, 2, second.Number)

	require.Equal(t, 2, tracker.Active())
}

func TestTrackerCreateUnknownCategory(t *testing.T) {
	tracker, _ := newTestTracker(t)

	_, err := tracker.Create(context.Background(), "No Such Category", "user-1", "chan-1", 1234)
	require.ErrorIs(t, err, ErrUnknownCategory)
	require.Equal(t, 0, tracker.Active())
}

func TestTrackerGetReturnsSnapshot(t *testing.T) {
	tracker, _ := newTestTracker(t)

	_, err := tracker.Create(context.Background(), "Temple Express", "user-1", "chan-1", 1234)
	require.NoError(t, err)

	snapshot, ok := tracker.Get("chan-1")
	require.True(t, ok)

	// Mutating the snapshot must not leak into the registry.
	snapshot.Helpers[0] = "intruder"

	fresh, ok := tracker.Get("chan-1")
	require.True(t, ok)
	require.Equal(t, "", fresh.Helpers[0])
}

func TestTrackerJoin(t *testing.T) {
	tracker, _ := newTestTracker(t)

	_, err := tracker.Create(context.Background(), "Temple Express", "user-1", "chan-1", 1234)
	require.NoError(t, err)

	// Slots fill lowest index first.
	slot, err := tracker.Join("chan-1", "helper-1")
	require.NoError(t, err)
	require.Equal(t, 0, slot)

	slot, err = tracker.Join("chan-1", "helper-2")
	require.NoError(t, err)
	require.Equal(t, 1, slot)

	// The requestor cannot help their own ticket.
	_, err = tracker.Join("chan-1", "user-1")
	require.ErrorIs(t, err, ErrSelfJoin)

	// A helper cannot take a second slot.
	_, err = tracker.Join("chan-1", "helper-1")
	require.ErrorIs(t, err, ErrAlreadyJoined)

	slot, err = tracker.Join("chan-1", "helper-3")
	require.NoError(t, err)
	require.Equal(t, 2, slot)

	_, err = tracker.Join("chan-1", "helper-4")
	require.ErrorIs(t, err, ErrSlotsFull)

	_, err = tracker.Join("no-such-channel", "helper-1")
	require.ErrorIs(t, err, ErrNoTicket)
}

func TestTrackerSubmitProof(t *testing.T) {
	tracker, _ := newTestTracker(t)

	_, err := tracker.Create(context.Background(), "Temple Express", "user-1", "chan-1", 1234)
	require.NoError(t, err)

	require.ErrorIs(t, tracker.SubmitProof("chan-1", "helper-1", "nope"), ErrNotRequestor)
	require.NoError(t, tracker.SubmitProof("chan-1", "user-1", "screenshot.png"))
	require.ErrorIs(t, tracker.SubmitProof("chan-1", "user-1", "again"), ErrProofAlreadySubmitted)

	ticket, ok := tracker.Get("chan-1")
	require.True(t, ok)
	require.True(t, ticket.ProofSubmitted)
	require.Equal(t, "screenshot.png", ticket.Proof)
}

func TestTrackerClose(t *testing.T) {
	tracker, ledger := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Create(ctx, "Temple Express", "user-1", "chan-1", 1234)
	require.NoError(t, err)

	_, err = tracker.Join("chan-1", "helper-1")
	require.NoError(t, err)
	_, err = tracker.Join("chan-1", "helper-2")
	require.NoError(t, err)

	// The requestor cannot close until proof is in.
	_, err = tracker.Close(ctx, "chan-1", "user-1", false, SideEffects{})
	require.ErrorIs(t, err, ErrProofRequired)

	// Random users cannot close at all.
	_, err = tracker.Close(ctx, "chan-1", "helper-1", false, SideEffects{})
	require.ErrorIs(t, err, ErrNotAuthorized)

	require.NoError(t, tracker.SubmitProof("chan-1", "user-1", "screenshot.png"))

	revoked := make([]string, 0, 3)
	ticket, err := tracker.Close(ctx, "chan-1", "user-1", false, SideEffects{
		RevokeAccess: func(userID string) error {
			revoked = append(revoked, userID)
			return nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, ticket.HelperCount())

	// Both helpers and the requestor lose access.
	require.ElementsMatch(t, []string{"helper-1", "helper-2", "user-1"}, revoked)

	// Each occupied slot earns the snapshotted reward.
	for _, helper := range []string{"helper-1", "helper-2"} {
		balance, err := ledger.Get(ctx, helper)
		require.NoError(t, err)
		require.Equal(t, int64(5), balance)
	}

	// The requestor earns nothing.
	balance, err := ledger.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	// The ticket is gone.
	_, ok := tracker.Get("chan-1")
	require.False(t, ok)
	_, err = tracker.Close(ctx, "chan-1", "user-1", false, SideEffects{})
	require.ErrorIs(t, err, ErrNoTicket)
}

func TestTrackerCloseStaffBypassesProof(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Create(ctx, "Temple Express", "user-1", "chan-1", 1234)
	require.NoError(t, err)

	_, err = tracker.Close(ctx, "chan-1", "staff-1", true, SideEffects{})
	require.NoError(t, err)
	require.Equal(t, 0, tracker.Active())
}

func TestTrackerCloseCreditsPerOccupiedSlot(t *testing.T) {
	tracker, ledger := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Create(ctx, "Temple Express", "user-1", "chan-1", 1234)
	require.NoError(t, err)

	// Join prevents duplicates, but the close loop pays per slot. Force a
	// duplicate to pin that the loop does not de-duplicate.
	tracker.mu.Lock()
	tracker.active["chan-1"].Helpers[0] = "helper-1"
	tracker.active["chan-1"].Helpers[2] = "helper-1"
	tracker.mu.Unlock()

	_, err = tracker.Close(ctx, "chan-1", "staff-1", true, SideEffects{})
	require.NoError(t, err)

	balance, err := ledger.Get(ctx, "helper-1")
	require.NoError(t, err)
	require.Equal(t, int64(10), balance)
}

func TestTrackerKick(t *testing.T) {
	tracker, _ := newTestTracker(t)

	_, err := tracker.Create(context.Background(), "Temple Express", "user-1", "chan-1", 1234)
	require.NoError(t, err)

	_, err = tracker.Join("chan-1", "helper-1")
	require.NoError(t, err)

	require.ErrorIs(t, tracker.Kick("chan-1", "helper-1", false, nil), ErrNotAuthorized)
	require.ErrorIs(t, tracker.Kick("chan-1", "helper-2", true, nil), ErrNotAHelper)
	require.ErrorIs(t, tracker.Kick("no-such-channel", "helper-1", true, nil), ErrNoTicket)

	require.NoError(t, tracker.Kick("chan-1", "helper-1", true, nil))

	// The slot frees up for someone else.
	slot, err := tracker.Join("chan-1", "helper-2")
	require.NoError(t, err)
	require.Equal(t, 0, slot)

	// A kicked helper may rejoin.
	slot, err = tracker.Join("chan-1", "helper-1")
	require.NoError(t, err)
	require.Equal(t, 1, slot)
}

func TestTrackerDiscard(t *testing.T) {
	tracker, ledger := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Create(ctx, "Temple Express", "user-1", "chan-1", 1234)
	require.NoError(t, err)
	_, err = tracker.Join("chan-1", "helper-1")
	require.NoError(t, err)

	_, err = tracker.Discard("chan-1", false)
	require.ErrorIs(t, err, ErrNotAuthorized)

	ticket, err := tracker.Discard("chan-1", true)
	require.NoError(t, err)
	require.Equal(t, "chan-1", ticket.ChannelID)

	// Nobody is paid on a discard.
	balance, err := ledger.Get(ctx, "helper-1")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	_, err = tracker.Discard("chan-1", true)
	require.ErrorIs(t, err, ErrNoTicket)
}
