package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ultrarealm/expressbot/pkg/dataaccess/monitoring"
	"github.com/ultrarealm/expressbot/pkg/entities"
	"github.com/ultrarealm/expressbot/pkg/logging"
)

// BackendNameMongo identifies the document-store backend.
const BackendNameMongo = "mongo"

const mongoDatabase = "expressbot"

type mongoBackend struct {
	// l is the logger.
	l *slog.Logger

	// client is the database. This is a connection pool.
	client *mongo.Client
}

// NewMongoBackend creates the document-store backend over an established
// client.
func NewMongoBackend(l *slog.Logger, client *mongo.Client) Backend {
	return &mongoBackend{
		l:      l.With(slog.String(logging.KeyBackend, BackendNameMongo)),
		client: client,
	}
}

func (m *mongoBackend) Name() string { return BackendNameMongo }

func (m *mongoBackend) Ping(ctx context.Context) error {
	defer m.observe("ping", "-")()
	if err := m.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("error pinging mongo: %w", err)
	}
	return nil
}

func (m *mongoBackend) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *mongoBackend) collection(name string) *mongo.Collection {
	return m.client.Database(mongoDatabase).Collection(name)
}

// observe starts the prometheus metrics for a query. Call the returned
// function when the query completes.
func (m *mongoBackend) observe(query, collection string) func() {
	monitoring.StorageTotalRequests.WithLabelValues(BackendNameMongo, query, collection).Inc()
	t := prometheus.NewTimer(monitoring.StorageLatency.WithLabelValues(BackendNameMongo, query, collection))
	return func() { t.ObserveDuration() }
}

func (m *mongoBackend) SaveConfig(ctx context.Context, key string, doc any) error {
	defer m.observe("save_config", CollectionConfig)()

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection(CollectionConfig).ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("error saving config %q: %w", key, err)
	}
	return nil
}

func (m *mongoBackend) LoadConfig(ctx context.Context, key string, out any) error {
	defer m.observe("load_config", CollectionConfig)()

	err := m.collection(CollectionConfig).FindOne(ctx, bson.M{"_id": key}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("error loading config %q: %w", key, err)
	}
	return nil
}

func (m *mongoBackend) SetPoints(ctx context.Context, userID string, points int64) error {
	defer m.observe("set_points", CollectionUserPoints)()

	opts := options.Replace().SetUpsert(true)
	entry := &entities.PointsEntry{UserID: userID, Points: points}
	if _, err := m.collection(CollectionUserPoints).ReplaceOne(ctx, bson.M{"_id": userID}, entry, opts); err != nil {
		return fmt.Errorf("error setting points: %w", err)
	}
	return nil
}

func (m *mongoBackend) GetPoints(ctx context.Context, userID string) (int64, error) {
	defer m.observe("get_points", CollectionUserPoints)()

	entry := new(entities.PointsEntry)
	err := m.collection(CollectionUserPoints).FindOne(ctx, bson.M{"_id": userID}).Decode(entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// A user that has never been credited has zero points.
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("error getting points: %w", err)
	}
	return entry.Points, nil
}

func (m *mongoBackend) DeletePoints(ctx context.Context, userID string) error {
	defer m.observe("delete_points", CollectionUserPoints)()

	if _, err := m.collection(CollectionUserPoints).DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("error deleting points: %w", err)
	}
	return nil
}

func (m *mongoBackend) ResetPoints(ctx context.Context) error {
	defer m.observe("reset_points", CollectionUserPoints)()

	if _, err := m.collection(CollectionUserPoints).DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("error resetting points: %w", err)
	}
	return nil
}

func (m *mongoBackend) Leaderboard(ctx context.Context) ([]*entities.PointsEntry, error) {
	defer m.observe("leaderboard", CollectionUserPoints)()

	// Mongo does not guarantee a stable order for equal sort values, so ties
	// break on _id to keep repeated reads identical.
	opts := options.Find().SetSort(bson.D{{Key: "points", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := m.collection(CollectionUserPoints).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error getting leaderboard: %w", err)
	}

	var entries []*entities.PointsEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding leaderboard: %w", err)
	}
	return entries, nil
}

func (m *mongoBackend) TicketNumber(ctx context.Context, category string) (int, error) {
	defer m.observe("ticket_number", CollectionTicketsCounter)()

	var doc struct {
		LastNumber int `bson:"last_number"`
	}
	err := m.collection(CollectionTicketsCounter).FindOne(ctx, bson.M{"_id": category}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("error getting ticket number: %w", err)
	}
	return doc.LastNumber, nil
}

func (m *mongoBackend) IncrementTicketNumber(ctx context.Context, category string) (int, error) {
	defer m.observe("increment_ticket_number", CollectionTicketsCounter)()

	// Single atomic upsert-with-increment; two tickets opened in the same
	// category at the same instant can never draw the same number.
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		LastNumber int `bson:"last_number"`
	}
	err := m.collection(CollectionTicketsCounter).FindOneAndUpdate(ctx,
		bson.M{"_id": category},
		bson.M{
			"$inc":         bson.M{"last_number": 1},
			"$setOnInsert": bson.M{"category": category},
		},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("error incrementing ticket number: %w", err)
	}
	return doc.LastNumber, nil
}

func (m *mongoBackend) SaveCategory(ctx context.Context, category *entities.Category) error {
	defer m.observe("save_category", CollectionCategories)()

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection(CollectionCategories).ReplaceOne(ctx, bson.M{"_id": category.Name}, category, opts); err != nil {
		return fmt.Errorf("error saving category: %w", err)
	}
	return nil
}

func (m *mongoBackend) DeleteCategory(ctx context.Context, name string) error {
	defer m.observe("delete_category", CollectionCategories)()

	if _, err := m.collection(CollectionCategories).DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}
	return nil
}

func (m *mongoBackend) GetCategory(ctx context.Context, name string) (*entities.Category, error) {
	defer m.observe("get_category", CollectionCategories)()

	category := new(entities.Category)
	err := m.collection(CollectionCategories).FindOne(ctx, bson.M{"_id": name}).Decode(category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error getting category: %w", err)
	}
	return category, nil
}

func (m *mongoBackend) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	defer m.observe("list_categories", CollectionCategories)()

	cursor, err := m.collection(CollectionCategories).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}

	var categories []*entities.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, fmt.Errorf("error decoding categories: %w", err)
	}
	return categories, nil
}

func (m *mongoBackend) SaveCustomCommand(ctx context.Context, cmd *entities.CustomCommand) error {
	defer m.observe("save_custom_command", CollectionCustomCommands)()

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection(CollectionCustomCommands).ReplaceOne(ctx, bson.M{"_id": cmd.Name}, cmd, opts); err != nil {
		return fmt.Errorf("error saving custom command: %w", err)
	}
	return nil
}

func (m *mongoBackend) DeleteCustomCommand(ctx context.Context, name string) error {
	defer m.observe("delete_custom_command", CollectionCustomCommands)()

	if _, err := m.collection(CollectionCustomCommands).DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("error deleting custom command: %w", err)
	}
	return nil
}

func (m *mongoBackend) ListCustomCommands(ctx context.Context) ([]*entities.CustomCommand, error) {
	defer m.observe("list_custom_commands", CollectionCustomCommands)()

	cursor, err := m.collection(CollectionCustomCommands).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error listing custom commands: %w", err)
	}

	var cmds []*entities.CustomCommand
	if err := cursor.All(ctx, &cmds); err != nil {
		return nil, fmt.Errorf("error decoding custom commands: %w", err)
	}
	return cmds, nil
}

func (m *mongoBackend) SavePanel(ctx context.Context, panel *entities.PersistentPanel) error {
	defer m.observe("save_panel", CollectionPersistentPanels)()

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection(CollectionPersistentPanels).ReplaceOne(ctx, bson.M{"_id": panel.MessageID}, panel, opts); err != nil {
		return fmt.Errorf("error saving panel: %w", err)
	}
	return nil
}

func (m *mongoBackend) ListPanels(ctx context.Context, panelType string) ([]*entities.PersistentPanel, error) {
	defer m.observe("list_panels", CollectionPersistentPanels)()

	filter := bson.M{}
	if panelType != "" {
		filter["panel_type"] = panelType
	}

	cursor, err := m.collection(CollectionPersistentPanels).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing panels: %w", err)
	}

	var panels []*entities.PersistentPanel
	if err := cursor.All(ctx, &panels); err != nil {
		return nil, fmt.Errorf("error decoding panels: %w", err)
	}
	return panels, nil
}

func (m *mongoBackend) DeletePanel(ctx context.Context, messageID string) error {
	defer m.observe("delete_panel", CollectionPersistentPanels)()

	if _, err := m.collection(CollectionPersistentPanels).DeleteOne(ctx, bson.M{"_id": messageID}); err != nil {
		return fmt.Errorf("error deleting panel: %w", err)
	}
	return nil
}
