package entities

import (
	"github.com/ultrarealm/expressbot/pkg/custom"
)

// Ticket is an open helper-assistance request. Tickets live in the in-memory
// registry only; a restart loses them by design.
type Ticket struct {
	// Number is the per-category sequence number of the ticket.
	Number int `json:"number" bson:"number"`

	// Category is the name of the category the ticket was opened for.
	Category string `json:"category" bson:"category"`

	// Requestor is the ID of the user that opened the ticket.
	Requestor string `json:"requestor" bson:"requestor"`

	// ChannelID is the ID of the channel that the ticket lives in.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// Helpers are the helper slots. An empty string is a free slot. The slice
	// length is fixed at creation from the category's slot count.
	Helpers []string `json:"helpers" bson:"helpers"`

	// Points is the reward per helper, snapshotted from the category at
	// creation time.
	Points int `json:"points" bson:"points"`

	// Tag is the random join tag rendered into the channel name and the
	// in-game /join commands.
	Tag int `json:"tag" bson:"tag"`

	// ProofSubmitted is whether the requestor has submitted proof.
	ProofSubmitted bool `json:"proof_submitted" bson:"proof_submitted"`

	// Proof is the submitted proof payload, if any.
	Proof string `json:"proof" bson:"proof"`

	// CreatedAt is the time that the ticket was opened.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}

// HelperCount returns the number of occupied helper slots.
func (t *Ticket) HelperCount() int {
	n := 0
	for _, h := range t.Helpers {
		if h != "" {
			n++
		}
	}
	return n
}

// OccupiedHelpers returns the identities currently holding a slot, in slot
// order.
func (t *Ticket) OccupiedHelpers() []string {
	helpers := make([]string, 0, len(t.Helpers))
	for _, h := range t.Helpers {
		if h != "" {
			helpers = append(helpers, h)
		}
	}
	return helpers
}

// Occupies reports whether the given user already holds a helper slot.
func (t *Ticket) Occupies(userID string) bool {
	for _, h := range t.Helpers {
		if h == userID {
			return true
		}
	}
	return false
}

// FirstFreeSlot returns the lowest free slot index, or -1 when full.
func (t *Ticket) FirstFreeSlot() int {
	for i, h := range t.Helpers {
		if h == "" {
			return i
		}
	}
	return -1
}
