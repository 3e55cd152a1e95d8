package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ultrarealm/expressbot/pkg/dataaccess/monitoring"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

// FallbackFn lazily constructs the relational backend when the document store
// fails for the first time.
type FallbackFn func(ctx context.Context) (Backend, error)

// Store is the process-wide persistence handle. It holds the currently active
// backend and performs the one-directional, sticky fallback from the document
// store to the relational store: the first document-store failure swaps the
// active backend and the document store is never attempted again.
//
// Construct one Store at startup and pass it into every component; it is safe
// for concurrent use.
type Store struct {
	// l is the logger.
	l *slog.Logger

	mu sync.RWMutex

	// active is the currently selected backend.
	active Backend

	// fallbackFn builds the relational backend on first failure. Nil when
	// the store was constructed directly on the relational backend.
	fallbackFn FallbackFn

	// fellBack records that the swap has happened.
	fellBack bool
}

// NewStore creates the persistence handle. When the active backend is the
// document store, fallbackFn must be able to produce the relational backend;
// when the store starts on the relational backend, fallbackFn may be nil.
func NewStore(l *slog.Logger, active Backend, fallbackFn FallbackFn) *Store {
	return &Store{
		l:          l.With(slog.String(logging.KeyDal, "store")),
		active:     active,
		fallbackFn: fallbackFn,
	}
}

// Backend returns the currently active backend.
func (s *Store) Backend() Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Name implements Backend.
func (s *Store) Name() string {
	return s.Backend().Name()
}

// Ping implements Backend. It reports on the active backend only; an
// unreachable document store surfaces through fallback, not through Ping.
func (s *Store) Ping(ctx context.Context) error {
	return s.Backend().Ping(ctx)
}

// Close implements Backend.
func (s *Store) Close(ctx context.Context) error {
	return s.Backend().Close(ctx)
}

// failover swaps the active backend to the relational store. Sticky: once
// swapped, every future operation goes straight to the relational store.
func (s *Store) failover(ctx context.Context, from Backend, cause error) (Backend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another operation may have completed the swap while we waited.
	if s.active != from || s.fellBack {
		return s.active, nil
	}

	if s.fallbackFn == nil {
		return nil, fmt.Errorf("no fallback backend configured: %w", cause)
	}

	s.l.Warn("Storage backend failed, falling back to the relational store",
		slog.String(logging.KeyBackend, from.Name()),
		slog.String(logging.KeyError, cause.Error()),
	)

	fb, err := s.fallbackFn(ctx)
	if err != nil {
		return nil, fmt.Errorf("error constructing fallback backend: %w", err)
	}

	if err := from.Close(ctx); err != nil {
		s.l.Warn("Error closing failed backend", slog.String(logging.KeyError, err.Error()))
	}

	s.active = fb
	s.fellBack = true
	monitoring.StorageFallbacks.Inc()
	return fb, nil
}

// execute runs fn against the active backend, retrying once on the relational
// backend after a document-store failure. ErrNotFound is a lookup outcome,
// not a backend failure, and passes through. Relational errors propagate.
func execute[T any](s *Store, ctx context.Context, fn func(Backend) (T, error)) (T, error) {
	b := s.Backend()

	res, err := fn(b)
	if err == nil || errors.Is(err, ErrNotFound) {
		return res, err
	}

	if b.Name() == BackendNameSQLite {
		// Backend of last resort; nothing to fall back to.
		return res, err
	}

	fb, ferr := s.failover(ctx, b, err)
	if ferr != nil {
		return res, errors.Join(err, ferr)
	}

	return fn(fb)
}

func (s *Store) SaveConfig(ctx context.Context, key string, doc any) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.SaveConfig(ctx, key, doc)
	})
	return err
}

func (s *Store) LoadConfig(ctx context.Context, key string, out any) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.LoadConfig(ctx, key, out)
	})
	return err
}

func (s *Store) SetPoints(ctx context.Context, userID string, points int64) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.SetPoints(ctx, userID, points)
	})
	return err
}

func (s *Store) GetPoints(ctx context.Context, userID string) (int64, error) {
	return execute(s, ctx, func(b Backend) (int64, error) {
		return b.GetPoints(ctx, userID)
	})
}

func (s *Store) DeletePoints(ctx context.Context, userID string) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.DeletePoints(ctx, userID)
	})
	return err
}

func (s *Store) ResetPoints(ctx context.Context) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.ResetPoints(ctx)
	})
	return err
}

func (s *Store) Leaderboard(ctx context.Context) ([]*entities.PointsEntry, error) {
	return execute(s, ctx, func(b Backend) ([]*entities.PointsEntry, error) {
		return b.Leaderboard(ctx)
	})
}

func (s *Store) TicketNumber(ctx context.Context, category string) (int, error) {
	return execute(s, ctx, func(b Backend) (int, error) {
		return b.TicketNumber(ctx, category)
	})
}

func (s *Store) IncrementTicketNumber(ctx context.Context, category string) (int, error) {
	return execute(s, ctx, func(b Backend) (int, error) {
		return b.IncrementTicketNumber(ctx, category)
	})
}

func (s *Store) SaveCategory(ctx context.Context, category *entities.Category) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.SaveCategory(ctx, category)
	})
	return err
}

func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.DeleteCategory(ctx, name)
	})
	return err
}

func (s *Store) GetCategory(ctx context.Context, name string) (*entities.Category, error) {
	return execute(s, ctx, func(b Backend) (*entities.Category, error) {
		return b.GetCategory(ctx, name)
	})
}

func (s *Store) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	return execute(s, ctx, func(b Backend) ([]*entities.Category, error) {
		return b.ListCategories(ctx)
	})
}

func (s *Store) SaveCustomCommand(ctx context.Context, cmd *entities.CustomCommand) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.SaveCustomCommand(ctx, cmd)
	})
	return err
}

func (s *Store) DeleteCustomCommand(ctx context.Context, name string) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.DeleteCustomCommand(ctx, name)
	})
	return err
}

func (s *Store) ListCustomCommands(ctx context.Context) ([]*entities.CustomCommand, error) {
	return execute(s, ctx, func(b Backend) ([]*entities.CustomCommand, error) {
		return b.ListCustomCommands(ctx)
	})
}

func (s *Store) SavePanel(ctx context.Context, panel *entities.PersistentPanel) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.SavePanel(ctx, panel)
	})
	return err
}

func (s *Store) ListPanels(ctx context.Context, panelType string) ([]*entities.PersistentPanel, error) {
	return execute(s, ctx, func(b Backend) ([]*entities.PersistentPanel, error) {
		return b.ListPanels(ctx, panelType)
	})
}

func (s *Store) DeletePanel(ctx context.Context, messageID string) error {
	_, err := execute(s, ctx, func(b Backend) (struct{}, error) {
		return struct{}{}, b.DeletePanel(ctx, messageID)
	})
	return err
}
