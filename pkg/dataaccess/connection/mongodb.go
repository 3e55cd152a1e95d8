package connection

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB describes how to reach the document store. The connection string
// can be supplied inline or via a credentials file; the file wins only when
// no inline value is set.
type MongoDB struct {
	ConnectionString string
	CredentialsFile  string
	Username         string
	Password         string
	Host             string
	Port             string
	Args             string
}

func (m *MongoDB) GenerateConnectionString() {
	cs := "mongodb+srv://"
	if m.Username != "" && m.Password != "" {
		cs += m.Username + ":" + m.Password + "@"
	} else if m.Username != "" {
		cs += m.Username + "@"
	}

	cs += m.Host

	if m.Port != "" {
		cs += ":" + m.Port
	}

	if m.Args != "" {
		cs += "/?" + m.Args
	}

	m.ConnectionString = cs
}

// resolveConnectionString fills ConnectionString from the credentials file or
// the individual fields when no inline value was provided.
func (m *MongoDB) resolveConnectionString() error {
	if m.ConnectionString != "" {
		return nil
	}

	if m.CredentialsFile != "" {
		raw, err := os.ReadFile(m.CredentialsFile)
		if err != nil {
			return fmt.Errorf("error reading credentials file: %w", err)
		}
		m.ConnectionString = strings.TrimSpace(string(raw))
		return nil
	}

	if m.Host == "" {
		return fmt.Errorf("no connection string, credentials file or host provided")
	}

	m.GenerateConnectionString()
	return nil
}

func (m *MongoDB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.ConnectionString))
	if err != nil {
		return fmt.Errorf("error connecting to mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("error pinging mongo: %w", err)
	}
	return nil
}

func (m *MongoDB) Connect(ctx context.Context) (*mongo.Client, error) {
	if err := m.resolveConnectionString(); err != nil {
		return nil, err
	}

	if err := m.Ping(ctx); err != nil {
		return nil, err
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)

	opts := options.Client().ApplyURI(m.ConnectionString).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %w", err)
	}
	return client, nil
}
