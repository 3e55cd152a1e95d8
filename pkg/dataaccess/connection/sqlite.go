package connection

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultDBFile is the relational store's default location. When a custom
// path is configured and the default file exists but the custom one does not,
// the default file is copied over once so existing deployments keep their
// data.
const DefaultDBFile = "bot_data.db"

// SQLite describes the relational store location.
type SQLite struct {
	// Path is the database file. Empty means DefaultDBFile.
	Path string
}

// Connect opens the database, migrating the default file if needed, and
// ensures the schema exists.
func (s *SQLite) Connect(ctx context.Context) (*sql.DB, error) {
	path := s.Path
	if path == "" {
		path = DefaultDBFile
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	if path != DefaultDBFile {
		if err := migrateDefaultFile(path); err != nil {
			return nil, fmt.Errorf("error migrating default database file: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}

	// SQLite supports one writer at a time; serialising through a single
	// connection avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error pinging sqlite database: %w", err)
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating tables: %w", err)
	}

	return db, nil
}

// migrateDefaultFile copies the default database file to the custom path.
// Copy only if the source exists and the destination does not; otherwise the
// destination is left untouched.
func migrateDefaultFile(dst string) error {
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	src, err := os.Open(DefaultDBFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, src)
	return err
}

// createTables ensures the schema exists. Idempotent; this is the only
// migration the relational store ever performs.
func createTables(ctx context.Context, db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT
	);

	CREATE TABLE IF NOT EXISTS user_points (
		user_id TEXT PRIMARY KEY,
		points INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tickets_counter (
		category TEXT PRIMARY KEY,
		last_number INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS categories (
		name TEXT PRIMARY KEY,
		questions TEXT,
		points INTEGER,
		slots INTEGER
	);

	CREATE TABLE IF NOT EXISTS custom_commands (
		name TEXT PRIMARY KEY,
		text TEXT,
		image TEXT
	);

	CREATE TABLE IF NOT EXISTS roles (
		key TEXT PRIMARY KEY,
		value TEXT
	);

	CREATE TABLE IF NOT EXISTS persistent_panels (
		message_id TEXT PRIMARY KEY,
		channel_id TEXT,
		panel_type TEXT,
		data TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}
