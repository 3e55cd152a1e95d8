package panels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ultrarealm/expressbot/pkg/custom"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

const registryName = "panel_registry"

// Registry tracks UI messages whose interactive components must be
// reattached after a restart. Records are keyed by message ID; registering
// the same message again overwrites its payload.
type Registry struct {
	// l is the logger.
	l *slog.Logger

	// store is the persistence handle.
	store dataaccess.Backend
}

// NewRegistry creates a panel registry.
func NewRegistry(l *slog.Logger, store dataaccess.Backend) *Registry {
	return &Registry{
		l:     l.With(slog.String(logging.KeyDal, registryName)),
		store: store,
	}
}

// Register upserts a panel record.
func (r *Registry) Register(ctx context.Context, channelID, messageID, panelType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error encoding panel payload: %w", err)
	}

	panel := &entities.PersistentPanel{
		ChannelID: channelID,
		MessageID: messageID,
		PanelType: panelType,
		Data:      data,
		CreatedAt: custom.Now(),
	}
	if err := r.store.SavePanel(ctx, panel); err != nil {
		return fmt.Errorf("error saving panel: %w", err)
	}
	return nil
}

// List returns registered panels, optionally filtered by kind. Called once
// at startup to reconstruct every live interactive surface.
func (r *Registry) List(ctx context.Context, panelType string) ([]*entities.PersistentPanel, error) {
	panels, err := r.store.ListPanels(ctx, panelType)
	if err != nil {
		return nil, fmt.Errorf("error listing panels: %w", err)
	}
	return panels, nil
}

// Unregister removes a panel record by message ID.
func (r *Registry) Unregister(ctx context.Context, messageID string) error {
	if err := r.store.DeletePanel(ctx, messageID); err != nil {
		return fmt.Errorf("error deleting panel: %w", err)
	}
	return nil
}
