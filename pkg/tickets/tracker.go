package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ultrarealm/expressbot/pkg/custom"
	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
	"github.com/ultrarealm/expressbot/pkg/points"
)

const trackerName = "ticket_tracker"

// SideEffects are the best-effort actions run while closing or kicking.
// Failures are logged and swallowed; they never block or roll back the state
// transition. Any field may be nil.
type SideEffects struct {
	// RevokeAccess removes a user's access to the ticket channel.
	RevokeAccess func(userID string) error

	// Transcript delivers the closing transcript.
	Transcript func(t *entities.Ticket, closerID string) error

	// Notify posts the terminal closed notice in the ticket channel.
	Notify func(t *entities.Ticket) error
}

// Tracker is the in-memory registry of open tickets, keyed by channel ID.
// Tickets are not durable; a restart loses them by design. The registry is
// owned by exactly one process.
type Tracker struct {
	// l is the logger.
	l *slog.Logger

	// store assigns sequence numbers and resolves categories.
	store dataaccess.Backend

	// ledger is credited when tickets close.
	ledger *points.Ledger

	mu     sync.Mutex
	active map[string]*entities.Ticket
}

// NewTracker creates an empty ticket registry.
func NewTracker(l *slog.Logger, store dataaccess.Backend, ledger *points.Ledger) *Tracker {
	return &Tracker{
		l:      l.With(slog.String(logging.KeyDal, trackerName)),
		store:  store,
		ledger: ledger,
		active: make(map[string]*entities.Ticket),
	}
}

// Create opens a ticket for a category and registers it under the channel ID.
// The helper slot array is sized from the category's slot count and the
// reward per helper is snapshotted from the category; later category edits do
// not affect open tickets.
func (t *Tracker) Create(ctx context.Context, categoryName, requestorID, channelID string, tag int) (*entities.Ticket, error) {
	category, err := t.store.GetCategory(ctx, categoryName)
	if errors.Is(err, dataaccess.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, categoryName)
	} else if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}

	number, err := t.store.IncrementTicketNumber(ctx, categoryName)
	if err != nil {
		return nil, fmt.Errorf("error assigning ticket number: %w", err)
	}

	ticket := &entities.Ticket{
		Number:    number,
		Category:  category.Name,
		Requestor: requestorID,
		ChannelID: channelID,
		Helpers:   make([]string, category.SlotCount()),
		Points:    category.PointValue(),
		Tag:       tag,
		CreatedAt: custom.Now(),
	}

	t.mu.Lock()
	t.active[channelID] = ticket
	t.mu.Unlock()

	t.l.Info("Ticket opened",
		slog.String("category", ticket.Category),
		slog.Int("number", ticket.Number),
		slog.String("channel_id", channelID),
	)
	return copyTicket(ticket), nil
}

// Get returns a snapshot of the ticket in the given channel.
func (t *Tracker) Get(channelID string) (*entities.Ticket, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ticket, ok := t.active[channelID]
	if !ok {
		return nil, false
	}
	return copyTicket(ticket), true
}

// Active returns the number of open tickets.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// Join assigns the user to the first empty helper slot (lowest index,
// first-come-first-served) and returns the slot index.
func (t *Tracker) Join(channelID, userID string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ticket, ok := t.active[channelID]
	if !ok {
		return 0, ErrNoTicket
	}

	if userID == ticket.Requestor {
		return 0, ErrSelfJoin
	}
	if ticket.Occupies(userID) {
		return 0, ErrAlreadyJoined
	}

	slot := ticket.FirstFreeSlot()
	if slot < 0 {
		return 0, ErrSlotsFull
	}

	ticket.Helpers[slot] = userID
	return slot, nil
}

// SubmitProof records the requestor's proof payload. Once set, the close
// control becomes available to the requestor.
func (t *Tracker) SubmitProof(channelID, submitterID, proof string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ticket, ok := t.active[channelID]
	if !ok {
		return ErrNoTicket
	}

	if submitterID != ticket.Requestor {
		return ErrNotRequestor
	}
	if ticket.ProofSubmitted {
		return ErrProofAlreadySubmitted
	}

	ticket.ProofSubmitted = true
	ticket.Proof = proof
	return nil
}

// Close finishes the ticket: access is revoked from the requestor and every
// helper, each occupied slot is credited the ticket's reward, the transcript
// and closed notice are delivered, and the ticket leaves the registry.
// Deleting the underlying channel is a separate staff-gated operation.
//
// Each occupied slot is credited independently; Join prevents duplicate
// identities across slots, and this loop deliberately does not de-duplicate.
func (t *Tracker) Close(ctx context.Context, channelID, closerID string, isStaffOrAdmin bool, fx SideEffects) (*entities.Ticket, error) {
	t.mu.Lock()
	ticket, ok := t.active[channelID]
	if !ok {
		t.mu.Unlock()
		return nil, ErrNoTicket
	}

	if closerID == ticket.Requestor && !ticket.ProofSubmitted {
		t.mu.Unlock()
		return nil, ErrProofRequired
	}
	if closerID != ticket.Requestor && !isStaffOrAdmin {
		t.mu.Unlock()
		return nil, ErrNotAuthorized
	}

	delete(t.active, channelID)
	t.mu.Unlock()

	if fx.RevokeAccess != nil {
		for _, userID := range append(ticket.OccupiedHelpers(), ticket.Requestor) {
			if err := fx.RevokeAccess(userID); err != nil {
				t.l.Warn("Error revoking channel access",
					slog.String("user_id", userID),
					slog.String(logging.KeyError, err.Error()),
				)
			}
		}
	}

	for _, helperID := range ticket.Helpers {
		if helperID == "" {
			continue
		}
		if _, err := t.ledger.Add(ctx, helperID, int64(ticket.Points)); err != nil {
			// A failed credit must not strand the remaining helpers.
			t.l.Error("Error rewarding helper",
				slog.String("user_id", helperID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}

	if fx.Transcript != nil {
		if err := fx.Transcript(ticket, closerID); err != nil {
			t.l.Warn("Error delivering transcript", slog.String(logging.KeyError, err.Error()))
		}
	}
	if fx.Notify != nil {
		if err := fx.Notify(ticket); err != nil {
			t.l.Warn("Error posting closed notice", slog.String(logging.KeyError, err.Error()))
		}
	}

	t.l.Info("Ticket closed",
		slog.String("category", ticket.Category),
		slog.Int("number", ticket.Number),
		slog.String("closed_by", closerID),
	)
	return ticket, nil
}

// Discard removes the ticket without crediting anyone. This backs the
// staff-gated delete operation; the requestor cannot discard their own
// ticket.
func (t *Tracker) Discard(channelID string, actorIsStaffOrAdmin bool) (*entities.Ticket, error) {
	if !actorIsStaffOrAdmin {
		return nil, ErrNotAuthorized
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ticket, ok := t.active[channelID]
	if !ok {
		return nil, ErrNoTicket
	}

	delete(t.active, channelID)
	t.l.Info("Ticket discarded",
		slog.String("category", ticket.Category),
		slog.Int("number", ticket.Number),
	)
	return ticket, nil
}

// Kick clears the target's helper slot, freeing it for a future Join, and
// revokes their channel access. Staff/admin only.
func (t *Tracker) Kick(channelID, targetID string, actorIsStaffOrAdmin bool, revoke func(userID string) error) error {
	if !actorIsStaffOrAdmin {
		return ErrNotAuthorized
	}

	t.mu.Lock()
	ticket, ok := t.active[channelID]
	if !ok {
		t.mu.Unlock()
		return ErrNoTicket
	}

	cleared := false
	for i, h := range ticket.Helpers {
		if h == targetID {
			ticket.Helpers[i] = ""
			cleared = true
		}
	}
	t.mu.Unlock()

	if !cleared {
		return ErrNotAHelper
	}

	if revoke != nil {
		if err := revoke(targetID); err != nil {
			t.l.Warn("Error revoking channel access",
				slog.String("user_id", targetID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
	return nil
}

func copyTicket(t *entities.Ticket) *entities.Ticket {
	dup := *t
	dup.Helpers = append([]string(nil), t.Helpers...)
	return &dup
}
