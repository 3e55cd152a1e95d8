package entities

import (
	"encoding/json"

	"github.com/ultrarealm/expressbot/pkg/custom"
)

const (
	// PanelTypeTicket is the ticket category panel.
	PanelTypeTicket = "ticket_panel"

	// PanelTypeVerification is the verification panel.
	PanelTypeVerification = "verification_panel"

	// PanelTypeLeaderboard is the leaderboard message with its pagination
	// buttons.
	PanelTypeLeaderboard = "leaderboard"
)

// PersistentPanel records a UI message whose interactive components must be
// reattached after a restart.
type PersistentPanel struct {
	// ChannelID is the ID of the channel the message was posted in.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// MessageID is the ID of the message. Panels are keyed by this.
	MessageID string `json:"message_id" bson:"message_id"`

	// PanelType is the kind of panel, one of the PanelType constants.
	PanelType string `json:"panel_type" bson:"panel_type"`

	// Data is the typed payload for the panel kind.
	Data json.RawMessage `json:"data" bson:"data"`

	// CreatedAt is the time that the panel was registered.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}

// TicketPanelData is the payload for PanelTypeTicket.
type TicketPanelData struct {
	// Categories are the category names rendered as open-ticket buttons.
	Categories []string `json:"categories"`
}

// VerificationPanelData is the payload for PanelTypeVerification.
type VerificationPanelData struct {
	// CategoryID is the channel category that verification channels are
	// created under, if configured.
	CategoryID string `json:"category_id"`
}

// LeaderboardPanelData is the payload for PanelTypeLeaderboard.
type LeaderboardPanelData struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}
