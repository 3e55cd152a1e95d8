package points

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ultrarealm/expressbot/pkg/dataaccess"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

const ledgerName = "points_ledger"

// ErrNegativeValue is returned when setting a negative points total.
var ErrNegativeValue = errors.New("points cannot be negative")

// Ledger is the per-user points counter over the persistence layer. Totals
// are never negative; remove-style deltas clamp at zero.
type Ledger struct {
	// l is the logger.
	l *slog.Logger

	// store is the persistence handle.
	store dataaccess.Backend
}

// NewLedger creates a points ledger.
func NewLedger(l *slog.Logger, store dataaccess.Backend) *Ledger {
	return &Ledger{
		l:     l.With(slog.String(logging.KeyDal, ledgerName)),
		store: store,
	}
}

// Get returns a user's total, zero for users never credited.
func (l *Ledger) Get(ctx context.Context, userID string) (int64, error) {
	return l.store.GetPoints(ctx, userID)
}

// Set stores an exact total. Fails with ErrNegativeValue below zero.
func (l *Ledger) Set(ctx context.Context, userID string, value int64) error {
	if value < 0 {
		return ErrNegativeValue
	}
	return l.store.SetPoints(ctx, userID, value)
}

// Add applies a delta and returns the new total. Negative deltas clamp the
// total at zero rather than storing a negative value.
func (l *Ledger) Add(ctx context.Context, userID string, delta int64) (int64, error) {
	current, err := l.store.GetPoints(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("error getting points: %w", err)
	}

	total := current + delta
	if total < 0 {
		total = 0
	}

	if err := l.store.SetPoints(ctx, userID, total); err != nil {
		return 0, fmt.Errorf("error setting points: %w", err)
	}
	return total, nil
}

// Remove deletes the user's entry entirely.
func (l *Ledger) Remove(ctx context.Context, userID string) error {
	return l.store.DeletePoints(ctx, userID)
}

// ResetAll clears every entry.
func (l *Ledger) ResetAll(ctx context.Context) error {
	l.l.Info("Resetting all points")
	return l.store.ResetPoints(ctx)
}

// Leaderboard returns all entries ordered by points descending. Ties keep
// the backend's order, which is stable between calls with no writes in
// between.
func (l *Ledger) Leaderboard(ctx context.Context) ([]*entities.PointsEntry, error) {
	entries, err := l.store.Leaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting leaderboard: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	return entries, nil
}
