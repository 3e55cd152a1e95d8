package dataaccess

import (
	"context"
	"errors"

	"github.com/ultrarealm/expressbot/pkg/entities"
)

// ErrNotFound is returned when a document does not exist in the active
// backend. It is a normal lookup outcome and never triggers a fallback.
var ErrNotFound = errors.New("document not found")

// Collection names, shared by both backends. The document store uses them as
// collection names, the relational store as table names.
const (
	CollectionConfig           = "config"
	CollectionUserPoints       = "user_points"
	CollectionTicketsCounter   = "tickets_counter"
	CollectionCategories       = "categories"
	CollectionCustomCommands   = "custom_commands"
	CollectionRoles            = "roles"
	CollectionPersistentPanels = "persistent_panels"
)

// Keys in the config collection.
const (
	ConfigKeyRoles                = "roles"
	ConfigKeyTranscriptChannel    = "transcript_channel"
	ConfigKeyPanelStyle           = "panel_config"
	ConfigKeyMaintenance          = "maintenance"
	ConfigKeyPrefix               = "prefix"
	ConfigKeyTicketCategory       = "ticket_category"
	ConfigKeyVerificationCategory = "verification_category"
)

// Backend is the storage contract shared by the document store, the
// relational store and the fallback wrapper around them. Every method is safe
// to call on any backend; callers never need to know which one is active.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close(ctx context.Context) error

	// SaveConfig upserts a config document under the given key.
	SaveConfig(ctx context.Context, key string, doc any) error

	// LoadConfig reads the config document under the given key into out.
	// Returns ErrNotFound when the key has never been written.
	LoadConfig(ctx context.Context, key string, out any) error

	// SetPoints sets a user's points total.
	SetPoints(ctx context.Context, userID string, points int64) error

	// GetPoints returns a user's points total, zero when absent.
	GetPoints(ctx context.Context, userID string) (int64, error)

	// DeletePoints removes a user's points entry entirely.
	DeletePoints(ctx context.Context, userID string) error

	// ResetPoints clears the whole points collection.
	ResetPoints(ctx context.Context) error

	// Leaderboard returns all points entries ordered by points descending.
	Leaderboard(ctx context.Context) ([]*entities.PointsEntry, error)

	// TicketNumber returns the last assigned number for a category, zero when
	// the category has never had a ticket.
	TicketNumber(ctx context.Context, category string) (int, error)

	// IncrementTicketNumber atomically assigns and returns the next number
	// for a category. Concurrent calls for the same category never observe
	// the same value.
	IncrementTicketNumber(ctx context.Context, category string) (int, error)

	// SaveCategory upserts a category by name.
	SaveCategory(ctx context.Context, category *entities.Category) error

	// DeleteCategory removes a category by name.
	DeleteCategory(ctx context.Context, name string) error

	// GetCategory reads a category by name. Returns ErrNotFound when absent.
	GetCategory(ctx context.Context, name string) (*entities.Category, error)

	// ListCategories returns all categories.
	ListCategories(ctx context.Context) ([]*entities.Category, error)

	// SaveCustomCommand upserts a custom informational command by name.
	SaveCustomCommand(ctx context.Context, cmd *entities.CustomCommand) error

	// DeleteCustomCommand removes a custom command by name.
	DeleteCustomCommand(ctx context.Context, name string) error

	// ListCustomCommands returns all custom commands.
	ListCustomCommands(ctx context.Context) ([]*entities.CustomCommand, error)

	// SavePanel upserts a persistent panel keyed by its message ID.
	SavePanel(ctx context.Context, panel *entities.PersistentPanel) error

	// ListPanels returns panels, optionally filtered by panel type. An empty
	// panelType returns every panel.
	ListPanels(ctx context.Context, panelType string) ([]*entities.PersistentPanel, error)

	// DeletePanel removes a panel by message ID.
	DeletePanel(ctx context.Context, messageID string) error
}
