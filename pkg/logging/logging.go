package logging

import (
	"io"
	"log/slog"
	"os"
)

const (
	// KeyError is the attribute key used for errors.
	KeyError = "err"

	// KeyDal is the attribute key used for data access layers.
	KeyDal = "dal"

	// KeyBackend is the attribute key used for the active storage backend.
	KeyBackend = "backend"

	// KeyAppName is the attribute key used for the application name.
	KeyAppName = "app"
)

// Name is the name of the application that the logger is created for.
type Name string

// Config holds the options used to construct a logger.
type Config struct {
	name   Name
	writer io.Writer
	level  slog.Leveler
}

// NewConfig creates a new logging config with sensible defaults.
func NewConfig(name Name) *Config {
	return &Config{
		name:   name,
		writer: os.Stdout,
		level:  slog.LevelDebug,
	}
}

// CommonLogger creates the common application logger. All loggers in the
// application derive from this one.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(c.writer, &slog.HandlerOptions{
		Level: c.level,
	})

	l := slog.New(h).With(
		slog.String(KeyAppName, string(c.name)),
	)
	slog.SetDefault(l)

	return l, nil
}
