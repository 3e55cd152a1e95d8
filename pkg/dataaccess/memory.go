package dataaccess

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/ultrarealm/expressbot/pkg/entities"
)

// BackendNameMemory identifies the in-memory backend.
const BackendNameMemory = "memory"

// memoryBackend is a map-backed Backend with the same observable semantics as
// the real backends (ErrNotFound on misses, zero-default points, atomic
// counters, stable leaderboard ties). It backs the component tests and is
// handy for local development without a database.
type memoryBackend struct {
	mu sync.Mutex

	config      map[string]json.RawMessage
	points      map[string]int64
	pointsOrder []string
	counters    map[string]int
	categories  map[string]entities.Category
	commands    map[string]entities.CustomCommand
	panels      map[string]entities.PersistentPanel
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() Backend {
	return &memoryBackend{
		config:     make(map[string]json.RawMessage),
		points:     make(map[string]int64),
		counters:   make(map[string]int),
		categories: make(map[string]entities.Category),
		commands:   make(map[string]entities.CustomCommand),
		panels:     make(map[string]entities.PersistentPanel),
	}
}

func (m *memoryBackend) Name() string { return BackendNameMemory }

func (m *memoryBackend) Ping(_ context.Context) error { return nil }

func (m *memoryBackend) Close(_ context.Context) error { return nil }

func (m *memoryBackend) SaveConfig(_ context.Context, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error encoding config %q: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.config[key] = raw
	return nil
}

func (m *memoryBackend) LoadConfig(_ context.Context, key string, out any) error {
	m.mu.Lock()
	raw, ok := m.config[key]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (m *memoryBackend) SetPoints(_ context.Context, userID string, points int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.points[userID]; !ok {
		m.pointsOrder = append(m.pointsOrder, userID)
	}
	m.points[userID] = points
	return nil
}

func (m *memoryBackend) GetPoints(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.points[userID], nil
}

func (m *memoryBackend) DeletePoints(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.points, userID)
	for i, id := range m.pointsOrder {
		if id == userID {
			m.pointsOrder = append(m.pointsOrder[:i], m.pointsOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryBackend) ResetPoints(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = make(map[string]int64)
	m.pointsOrder = nil
	return nil
}

func (m *memoryBackend) Leaderboard(_ context.Context) ([]*entities.PointsEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]*entities.PointsEntry, 0, len(m.points))
	for _, id := range m.pointsOrder {
		entries = append(entries, &entities.PointsEntry{UserID: id, Points: m.points[id]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Points > entries[j].Points
	})
	return entries, nil
}

func (m *memoryBackend) TicketNumber(_ context.Context, category string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[category], nil
}

func (m *memoryBackend) IncrementTicketNumber(_ context.Context, category string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[category]++
	return m.counters[category], nil
}

func (m *memoryBackend) SaveCategory(_ context.Context, category *entities.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.Name] = *category
	return nil
}

func (m *memoryBackend) DeleteCategory(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, name)
	return nil
}

func (m *memoryBackend) GetCategory(_ context.Context, name string) (*entities.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &category, nil
}

func (m *memoryBackend) ListCategories(_ context.Context) ([]*entities.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.categories))
	for name := range m.categories {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]*entities.Category, 0, len(names))
	for _, name := range names {
		category := m.categories[name]
		categories = append(categories, &category)
	}
	return categories, nil
}

func (m *memoryBackend) SaveCustomCommand(_ context.Context, cmd *entities.CustomCommand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[cmd.Name] = *cmd
	return nil
}

func (m *memoryBackend) DeleteCustomCommand(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.commands, name)
	return nil
}

func (m *memoryBackend) ListCustomCommands(_ context.Context) ([]*entities.CustomCommand, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.commands))
	for name := range m.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	cmds := make([]*entities.CustomCommand, 0, len(names))
	for _, name := range names {
		cmd := m.commands[name]
		cmds = append(cmds, &cmd)
	}
	return cmds, nil
}

func (m *memoryBackend) SavePanel(_ context.Context, panel *entities.PersistentPanel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panels[panel.MessageID] = *panel
	return nil
}

func (m *memoryBackend) ListPanels(_ context.Context, panelType string) ([]*entities.PersistentPanel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.panels))
	for id, panel := range m.panels {
		if panelType != "" && panel.PanelType != panelType {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	panels := make([]*entities.PersistentPanel, 0, len(ids))
	for _, id := range ids {
		panel := m.panels[id]
		panels = append(panels, &panel)
	}
	return panels, nil
}

func (m *memoryBackend) DeletePanel(_ context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.panels, messageID)
	return nil
}
