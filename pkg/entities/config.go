package entities

// RolesConfig maps the bot's permission tiers to guild role IDs. Stored under
// the "roles" config key.
type RolesConfig struct {
	// Admin is the admin role ID.
	Admin string `json:"admin" bson:"admin"`

	// Staff is the staff role ID.
	Staff string `json:"staff" bson:"staff"`

	// Helper is the helper role ID.
	Helper string `json:"helper" bson:"helper"`

	// Restricted are role IDs that may not open tickets.
	Restricted []string `json:"restricted" bson:"restricted"`
}

// Maintenance is the maintenance flag. While enabled, ticket creation is
// refused with the configured message.
type Maintenance struct {
	Enabled bool   `json:"enabled" bson:"enabled"`
	Message string `json:"message" bson:"message"`
}

// DefaultMaintenanceMessage is used when no message was configured.
const DefaultMaintenanceMessage = "Tickets are temporarily disabled."

// PanelStyle is the configurable text and embed colour of the ticket panel.
type PanelStyle struct {
	Text  string `json:"text" bson:"text"`
	Color int    `json:"color" bson:"color"`
}

const (
	// DefaultPanelText is the panel text used when none is configured.
	DefaultPanelText = "Select a service below to create a help ticket."

	// DefaultPanelColor is the blurple accent used across the bot's embeds.
	DefaultPanelColor = 0x5865F2
)

// Prefix is the legacy text-command prefix. Kept for compatibility with the
// config collection layout; slash commands do not use it.
type Prefix struct {
	Value string `json:"value" bson:"value"`
}

// ChannelRef is a config document holding a single channel (or channel
// category) ID, e.g. the transcript channel or the verification category.
type ChannelRef struct {
	ID string `json:"id" bson:"id"`
}

// CustomCommand is a stored informational reply.
type CustomCommand struct {
	// Name is the unique command name.
	Name string `json:"name" bson:"name"`

	// Text is the reply body.
	Text string `json:"text" bson:"text"`

	// Image is an optional image URL shown with the reply.
	Image string `json:"image" bson:"image"`
}
