package dataaccess

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ultrarealm/expressbot/pkg/custom"
	"github.com/ultrarealm/expressbot/pkg/dataaccess/monitoring"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

// BackendNameSQLite identifies the relational backend.
const BackendNameSQLite = "sqlite"

// The relational store is the backend of last resort: its errors are not
// recovered anywhere, they propagate to the caller.
type sqliteBackend struct {
	// l is the logger.
	l *slog.Logger

	// db is the database handle.
	db *sql.DB
}

// NewSQLiteBackend creates the relational backend over an opened database.
// The schema must already exist (see connection.SQLite).
func NewSQLiteBackend(l *slog.Logger, db *sql.DB) Backend {
	return &sqliteBackend{
		l:  l.With(slog.String(logging.KeyBackend, BackendNameSQLite)),
		db: db,
	}
}

func (s *sqliteBackend) Name() string { return BackendNameSQLite }

func (s *sqliteBackend) Ping(ctx context.Context) error {
	defer s.observe("ping", "-")()
	return s.db.PingContext(ctx)
}

func (s *sqliteBackend) Close(_ context.Context) error {
	return s.db.Close()
}

func (s *sqliteBackend) observe(query, collection string) func() {
	monitoring.StorageTotalRequests.WithLabelValues(BackendNameSQLite, query, collection).Inc()
	t := prometheus.NewTimer(monitoring.StorageLatency.WithLabelValues(BackendNameSQLite, query, collection))
	return func() { t.ObserveDuration() }
}

func (s *sqliteBackend) SaveConfig(ctx context.Context, key string, doc any) error {
	defer s.observe("save_config", CollectionConfig)()

	value, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding config %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO config(key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(value),
	)
	if err != nil {
		return fmt.Errorf("error saving config %q: %w", key, err)
	}
	return nil
}

func (s *sqliteBackend) LoadConfig(ctx context.Context, key string, out any) error {
	defer s.observe("load_config", CollectionConfig)()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("error loading config %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(value), out); err != nil {
		return fmt.Errorf("error decoding config %q: %w", key, err)
	}
	return nil
}

func (s *sqliteBackend) SetPoints(ctx context.Context, userID string, points int64) error {
	defer s.observe("set_points", CollectionUserPoints)()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_points(user_id, points) VALUES (?, ?) ON CONFLICT(user_id) DO UPDATE SET points = excluded.points`,
		userID, points,
	)
	if err != nil {
		return fmt.Errorf("error setting points: %w", err)
	}
	return nil
}

func (s *sqliteBackend) GetPoints(ctx context.Context, userID string) (int64, error) {
	defer s.observe("get_points", CollectionUserPoints)()

	var points int64
	err := s.db.QueryRowContext(ctx, `SELECT points FROM user_points WHERE user_id = ?`, userID).Scan(&points)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("error getting points: %w", err)
	}
	return points, nil
}

func (s *sqliteBackend) DeletePoints(ctx context.Context, userID string) error {
	defer s.observe("delete_points", CollectionUserPoints)()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_points WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("error deleting points: %w", err)
	}
	return nil
}

func (s *sqliteBackend) ResetPoints(ctx context.Context) error {
	defer s.observe("reset_points", CollectionUserPoints)()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_points`); err != nil {
		return fmt.Errorf("error resetting points: %w", err)
	}
	return nil
}

func (s *sqliteBackend) Leaderboard(ctx context.Context) ([]*entities.PointsEntry, error) {
	defer s.observe("leaderboard", CollectionUserPoints)()

	// rowid keeps ties in insertion order so repeated reads are stable.
	rows, err := s.db.QueryContext(ctx, `SELECT user_id, points FROM user_points ORDER BY points DESC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("error getting leaderboard: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*entities.PointsEntry
	for rows.Next() {
		entry := new(entities.PointsEntry)
		if err := rows.Scan(&entry.UserID, &entry.Points); err != nil {
			return nil, fmt.Errorf("error scanning leaderboard row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *sqliteBackend) TicketNumber(ctx context.Context, category string) (int, error) {
	defer s.observe("ticket_number", CollectionTicketsCounter)()

	var last int
	err := s.db.QueryRowContext(ctx, `SELECT last_number FROM tickets_counter WHERE category = ?`, category).Scan(&last)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("error getting ticket number: %w", err)
	}
	return last, nil
}

func (s *sqliteBackend) IncrementTicketNumber(ctx context.Context, category string) (int, error) {
	defer s.observe("increment_ticket_number", CollectionTicketsCounter)()

	// Single statement read-modify-write; no window for lost updates between
	// concurrent creates in the same category.
	var next int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO tickets_counter(category, last_number) VALUES (?, 1)
		 ON CONFLICT(category) DO UPDATE SET last_number = last_number + 1
		 RETURNING last_number`,
		category,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("error incrementing ticket number: %w", err)
	}
	return next, nil
}

func (s *sqliteBackend) SaveCategory(ctx context.Context, category *entities.Category) error {
	defer s.observe("save_category", CollectionCategories)()

	questions, err := json.Marshal(category.Questions)
	if err != nil {
		return fmt.Errorf("error encoding questions: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO categories(name, questions, points, slots) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET questions = excluded.questions, points = excluded.points, slots = excluded.slots`,
		category.Name, string(questions), category.Points, category.Slots,
	)
	if err != nil {
		return fmt.Errorf("error saving category: %w", err)
	}
	return nil
}

func (s *sqliteBackend) DeleteCategory(ctx context.Context, name string) error {
	defer s.observe("delete_category", CollectionCategories)()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, name); err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}
	return nil
}

func (s *sqliteBackend) GetCategory(ctx context.Context, name string) (*entities.Category, error) {
	defer s.observe("get_category", CollectionCategories)()

	category := new(entities.Category)
	var questions string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, questions, points, slots FROM categories WHERE name = ?`, name,
	).Scan(&category.Name, &questions, &category.Points, &category.Slots)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}

	if err := json.Unmarshal([]byte(questions), &category.Questions); err != nil {
		return nil, fmt.Errorf("error decoding questions: %w", err)
	}
	return category, nil
}

func (s *sqliteBackend) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	defer s.observe("list_categories", CollectionCategories)()

	rows, err := s.db.QueryContext(ctx, `SELECT name, questions, points, slots FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []*entities.Category
	for rows.Next() {
		category := new(entities.Category)
		var questions string
		if err := rows.Scan(&category.Name, &questions, &category.Points, &category.Slots); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		if err := json.Unmarshal([]byte(questions), &category.Questions); err != nil {
			return nil, fmt.Errorf("error decoding questions: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *sqliteBackend) SaveCustomCommand(ctx context.Context, cmd *entities.CustomCommand) error {
	defer s.observe("save_custom_command", CollectionCustomCommands)()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO custom_commands(name, text, image) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET text = excluded.text, image = excluded.image`,
		cmd.Name, cmd.Text, cmd.Image,
	)
	if err != nil {
		return fmt.Errorf("error saving custom command: %w", err)
	}
	return nil
}

func (s *sqliteBackend) DeleteCustomCommand(ctx context.Context, name string) error {
	defer s.observe("delete_custom_command", CollectionCustomCommands)()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM custom_commands WHERE name = ?`, name); err != nil {
		return fmt.Errorf("error deleting custom command: %w", err)
	}
	return nil
}

func (s *sqliteBackend) ListCustomCommands(ctx context.Context) ([]*entities.CustomCommand, error) {
	defer s.observe("list_custom_commands", CollectionCustomCommands)()

	rows, err := s.db.QueryContext(ctx, `SELECT name, text, image FROM custom_commands`)
	if err != nil {
		return nil, fmt.Errorf("error listing custom commands: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cmds []*entities.CustomCommand
	for rows.Next() {
		cmd := new(entities.CustomCommand)
		if err := rows.Scan(&cmd.Name, &cmd.Text, &cmd.Image); err != nil {
			return nil, fmt.Errorf("error scanning custom command row: %w", err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

func (s *sqliteBackend) SavePanel(ctx context.Context, panel *entities.PersistentPanel) error {
	defer s.observe("save_panel", CollectionPersistentPanels)()

	createdAt := panel.CreatedAt
	if time.Time(createdAt).IsZero() {
		createdAt = custom.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO persistent_panels(message_id, channel_id, panel_type, data, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(message_id) DO UPDATE SET data = excluded.data`,
		panel.MessageID, panel.ChannelID, panel.PanelType, string(panel.Data), createdAt,
	)
	if err != nil {
		return fmt.Errorf("error saving panel: %w", err)
	}
	return nil
}

func (s *sqliteBackend) ListPanels(ctx context.Context, panelType string) ([]*entities.PersistentPanel, error) {
	defer s.observe("list_panels", CollectionPersistentPanels)()

	query := `SELECT message_id, channel_id, panel_type, data, created_at FROM persistent_panels`
	args := make([]any, 0, 1)
	if panelType != "" {
		query += ` WHERE panel_type = ?`
		args = append(args, panelType)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing panels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var panels []*entities.PersistentPanel
	for rows.Next() {
		panel := new(entities.PersistentPanel)
		var data string
		if err := rows.Scan(&panel.MessageID, &panel.ChannelID, &panel.PanelType, &data, &panel.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning panel row: %w", err)
		}
		panel.Data = json.RawMessage(data)
		panels = append(panels, panel)
	}
	return panels, rows.Err()
}

func (s *sqliteBackend) DeletePanel(ctx context.Context, messageID string) error {
	defer s.observe("delete_panel", CollectionPersistentPanels)()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM persistent_panels WHERE message_id = ?`, messageID); err != nil {
		return fmt.Errorf("error deleting panel: %w", err)
	}
	return nil
}
