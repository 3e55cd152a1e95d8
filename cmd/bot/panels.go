package main

import (
	"context"
	"log/slog"

	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

// reattachPanels verifies every persisted panel message still exists and
// drops records whose messages are gone. Component handlers match on custom
// IDs, so surviving messages need no edits to keep working.
func (a *App) reattachPanels(ctx context.Context) {
	kinds := []string{
		entities.PanelTypeTicket,
		entities.PanelTypeVerification,
		entities.PanelTypeLeaderboard,
	}

	alive, dropped := 0, 0
	for _, kind := range kinds {
		records, err := a.panels.List(ctx, kind)
		if err != nil {
			a.Error("Error listing panels",
				slog.String("panel_type", kind),
				slog.String(logging.KeyError, err.Error()),
			)
			continue
		}

		for _, p := range records {
			if _, err := a.s.ChannelMessage(p.ChannelID, p.MessageID); err != nil {
				a.Warn("Dropping panel with missing message",
					slog.String("panel_type", p.PanelType),
					slog.String("channel_id", p.ChannelID),
					slog.String("message_id", p.MessageID),
				)
				if err := a.panels.Unregister(ctx, p.MessageID); err != nil {
					a.Error("Error unregistering panel", slog.String(logging.KeyError, err.Error()))
				}
				dropped++
				continue
			}
			alive++
		}
	}

	a.Info("Panel reattachment scan complete",
		slog.Int("alive", alive),
		slog.Int("dropped", dropped),
	)
}
