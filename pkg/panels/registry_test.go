package panels

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	// Setup logger
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")

	return NewRegistry(l, dataaccess.NewMemoryBackend())
}

func TestRegistryRegisterAndList(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	err := registry.Register(ctx, "chan-1", "msg-1", entities.PanelTypeTicket,
		&entities.TicketPanelData{Categories: []string{"Temple Express"}})
	require.NoError(t, err)

	err = registry.Register(ctx, "chan-2", "msg-2", entities.PanelTypeLeaderboard,
		&entities.LeaderboardPanelData{Page: 0, PerPage: 10})
	require.NoError(t, err)

	ticketPanels, err := registry.List(ctx, entities.PanelTypeTicket)
	require.NoError(t, err)
	require.Len(t, ticketPanels, 1)
	require.Equal(t, "chan-1", ticketPanels[0].ChannelID)
	require.Equal(t, "msg-1", ticketPanels[0].MessageID)

	payload := new(entities.TicketPanelData)
	require.NoError(t, json.Unmarshal(ticketPanels[0].Data, payload))
	require.Equal(t, []string{"Temple Express"}, payload.Categories)

	lbPanels, err := registry.List(ctx, entities.PanelTypeLeaderboard)
	require.NoError(t, err)
	require.Len(t, lbPanels, 1)
}

func TestRegistryRegisterOverwrites(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	err := registry.Register(ctx, "chan-1", "msg-1", entities.PanelTypeTicket,
		&entities.TicketPanelData{Categories: []string{"Old"}})
	require.NoError(t, err)

	// Same message ID replaces the record.
	err = registry.Register(ctx, "chan-1", "msg-1", entities.PanelTypeTicket,
		&entities.TicketPanelData{Categories: []string{"New"}})
	require.NoError(t, err)

	records, err := registry.List(ctx, entities.PanelTypeTicket)
	require.NoError(t, err)
	require.Len(t, records, 1)

	payload := new(entities.TicketPanelData)
	require.NoError(t, json.Unmarshal(records[0].Data, payload))
	require.Equal(t, []string{"New"}, payload.Categories)
}

func TestRegistryUnregister(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	err := registry.Register(ctx, "chan-1", "msg-1", entities.PanelTypeVerification,
		&entities.VerificationPanelData{CategoryID: "cat-1"})
	require.NoError(t, err)

	require.NoError(t, registry.Unregister(ctx, "msg-1"))

	records, err := registry.List(ctx, entities.PanelTypeVerification)
	require.NoError(t, err)
	require.Empty(t, records)
}
