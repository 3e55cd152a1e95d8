package dataaccess

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ultrarealm/expressbot/pkg/dataaccess/connection"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

func newTestSQLiteBackend(t *testing.T) Backend {
	t.Helper()

	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	conn := &connection.SQLite{Path: filepath.Join(t.TempDir(), "test.db")}
	db, err := conn.Connect(context.Background())
	require.NoError(t, err, "Failed to connect to sqlite")

	backend := NewSQLiteBackend(l, db)
	t.Cleanup(func() {
		_ = backend.Close(context.Background())
	})
	return backend
}

func TestSQLiteConfigRoundTrip(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	err := backend.LoadConfig(ctx, ConfigKeyRoles, new(entities.RolesConfig))
	require.ErrorIs(t, err, ErrNotFound)

	in := &entities.RolesConfig{
		Admin:      "role-admin",
		Staff:      "role-staff",
		Helper:     "role-helper",
		Restricted: []string{"role-muted"},
	}
	require.NoError(t, backend.SaveConfig(ctx, ConfigKeyRoles, in))

	out := new(entities.RolesConfig)
	require.NoError(t, backend.LoadConfig(ctx, ConfigKeyRoles, out))
	require.Equal(t, in, out)

	// Saving again overwrites in place.
	in.Staff = "role-staff-2"
	require.NoError(t, backend.SaveConfig(ctx, ConfigKeyRoles, in))

	out = new(entities.RolesConfig)
	require.NoError(t, backend.LoadConfig(ctx, ConfigKeyRoles, out))
	require.Equal(t, "role-staff-2", out.Staff)
}

func TestSQLiteTicketCounter(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	// A fresh category starts at zero.
	n, err := backend.TicketNumber(ctx, "Temple Express")
	require.NoError(t, err)
	require.Equal(t, 0, n)

	for want := 1; want <= 3; want++ {
		n, err = backend.IncrementTicketNumber(ctx, "Temple Express")
		require.NoError(t, err)
		require.Equal(t, want, n)
	}

	// Counters are per category.
	n, err = backend.IncrementTicketNumber(ctx, "GrimChallenge Express")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	n, err = backend.TicketNumber(ctx, "Temple Express")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestSQLiteTicketCounterConcurrent(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	const workers = 20

	var mu sync.Mutex
	seen := make(map[int]bool, workers)

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := backend.IncrementTicketNumber(ctx, "Temple Express")
			if err != nil {
				errs <- err
				return
			}

			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Every increment got a distinct number.
	require.Len(t, seen, workers)
	for want := 1; want <= workers; want++ {
		require.True(t, seen[want], "missing counter value %d", want)
	}
}

func TestSQLitePoints(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	balance, err := backend.GetPoints(ctx, "nobody")
	require.NoError(t, err)
	require.Equal(t, int64(0), balance)

	require.NoError(t, backend.SetPoints(ctx, "user-1", 10))
	require.NoError(t, backend.SetPoints(ctx, "user-2", 30))
	require.NoError(t, backend.SetPoints(ctx, "user-3", 20))

	entries, err := backend.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "user-2", entries[0].UserID)
	require.Equal(t, "user-3", entries[1].UserID)
	require.Equal(t, "user-1", entries[2].UserID)

	require.NoError(t, backend.DeletePoints(ctx, "user-2"))

	entries, err = backend.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, backend.ResetPoints(ctx))

	entries, err = backend.Leaderboard(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSQLiteLeaderboardTiesAreStable(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	for _, userID := range []string{"user-c", "user-a", "user-b"} {
		require.NoError(t, backend.SetPoints(ctx, userID, 15))
	}

	first, err := backend.Leaderboard(ctx)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Repeated reads with no writes in between return ties in the same order.
	for n := 0; n < 3; n++ {
		again, err := backend.Leaderboard(ctx)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestSQLiteCategories(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	_, err := backend.GetCategory(ctx, "Temple Express")
	require.ErrorIs(t, err, ErrNotFound)

	in := &entities.Category{
		Name:      "Temple Express",
		Questions: []string{"What is your in-game name?"},
		Points:    6,
		Slots:     3,
	}
	require.NoError(t, backend.SaveCategory(ctx, in))

	out, err := backend.GetCategory(ctx, "Temple Express")
	require.NoError(t, err)
	require.Equal(t, in, out)

	categories, err := backend.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)

	require.NoError(t, backend.DeleteCategory(ctx, "Temple Express"))

	_, err = backend.GetCategory(ctx, "Temple Express")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLitePanels(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	panel := &entities.PersistentPanel{
		ChannelID: "chan-1",
		MessageID: "msg-1",
		PanelType: entities.PanelTypeTicket,
		Data:      []byte(`{"categories":["Temple Express"]}`),
	}
	require.NoError(t, backend.SavePanel(ctx, panel))

	records, err := backend.ListPanels(ctx, entities.PanelTypeTicket)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "chan-1", records[0].ChannelID)
	require.JSONEq(t, `{"categories":["Temple Express"]}`, string(records[0].Data))

	// Other panel kinds are not returned.
	records, err = backend.ListPanels(ctx, entities.PanelTypeLeaderboard)
	require.NoError(t, err)
	require.Empty(t, records)

	require.NoError(t, backend.DeletePanel(ctx, "msg-1"))

	records, err = backend.ListPanels(ctx, entities.PanelTypeTicket)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSQLiteCustomCommands(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	ctx := context.Background()

	cmd := &entities.CustomCommand{
		Name:  "discord",
		Text:  "Join our server!",
		Image: "https://example.com/banner.png",
	}
	require.NoError(t, backend.SaveCustomCommand(ctx, cmd))

	commands, err := backend.ListCustomCommands(ctx)
	require.NoError(t, err)
	require.Len(t, commands, 1)
	require.Equal(t, cmd, commands[0])

	require.NoError(t, backend.DeleteCustomCommand(ctx, "discord"))

	commands, err = backend.ListCustomCommands(ctx)
	require.NoError(t, err)
	require.Empty(t, commands)
}
