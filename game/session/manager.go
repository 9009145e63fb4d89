package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ocastro/magnate/game/engine"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameAlreadyExists = errors.New("game already exists")
)

// Manager tracks running games by ID.
type Manager struct {
	games       map[string]*Game
	persistence Persistence
	mu          sync.RWMutex
}

// NewManager creates a manager without persistence.
func NewManager() *Manager {
	return &Manager{
		games: make(map[string]*Game),
	}
}

// NewManagerWithPersistence creates a manager backed by a persistence layer.
func NewManagerWithPersistence(persistence Persistence) *Manager {
	return &Manager{
		games:       make(map[string]*Game),
		persistence: persistence,
	}
}

// Create registers a new game under the given ID, generating one when
// empty. The engine must be freshly constructed.
func (m *Manager) Create(id string, eng *engine.GameEngine, definition string) (*Game, error) {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.games[id]; exists {
		return nil, ErrGameAlreadyExists
	}

	game := &Game{
		ID:             id,
		Definition:     definition,
		Engine:         eng,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.games[id] = game
	return game, nil
}

// Get retrieves a game by ID, falling back to persistence when it is not
// in memory.
func (m *Manager) Get(id string) (*Game, error) {
	m.mu.RLock()
	game, exists := m.games[id]
	m.mu.RUnlock()
	if exists {
		return game, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		game, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted game: %w", err)
		}
		m.mu.Lock()
		m.games[id] = game
		m.mu.Unlock()
		return game, nil
	}

	return nil, ErrGameNotFound
}

// List returns all in-memory games, oldest first.
func (m *Manager) List() []*Game {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Game, 0, len(m.games))
	for _, game := range m.games {
		result = append(result, game)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete removes a game from memory and from persistence.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	_, inMemory := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()

	if m.persistence != nil && m.persistence.Exists(id) {
		return m.persistence.Delete(id)
	}
	if !inMemory {
		return ErrGameNotFound
	}
	return nil
}

// Touch updates a game's last-accessed stamp.
func (m *Manager) Touch(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, exists := m.games[id]
	if !exists {
		return ErrGameNotFound
	}
	game.LastAccessedAt = time.Now()
	return nil
}

// Save writes one game through the persistence layer.
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return fmt.Errorf("no persistence configured")
	}

	m.mu.RLock()
	game, exists := m.games[id]
	m.mu.RUnlock()
	if !exists {
		return ErrGameNotFound
	}
	return m.persistence.Save(game)
}

// SaveAll persists every in-memory game, logging individual failures.
func (m *Manager) SaveAll() error {
	if m.persistence == nil {
		return nil
	}

	failed := 0
	for _, game := range m.List() {
		if err := m.persistence.Save(game); err != nil {
			log.Warn().Err(err).Str("game_id", game.ID).Msg("failed to persist game")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to save %d games", failed)
	}
	return nil
}

// LoadSaved brings every persisted game into memory, skipping IDs that
// are already loaded. Unreadable save files are logged and skipped.
func (m *Manager) LoadSaved() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list saved games: %w", err)
	}

	loaded := 0
	for _, id := range ids {
		m.mu.RLock()
		_, exists := m.games[id]
		m.mu.RUnlock()
		if exists {
			continue
		}

		game, err := m.persistence.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("game_id", id).Msg("failed to load saved game")
			continue
		}
		m.mu.Lock()
		m.games[id] = game
		m.mu.Unlock()
		loaded++
	}

	if loaded > 0 {
		log.Info().Int("count", loaded).Msg("loaded saved games")
	}
	return nil
}

// CleanupExpired drops in-memory games not accessed within maxAge. Saved
// files are untouched.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, game := range m.games {
		if game.LastAccessedAt.Before(cutoff) {
			delete(m.games, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of in-memory games.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// ListSaved returns the IDs available in persistence.
func (m *Manager) ListSaved() ([]string, error) {
	if m.persistence == nil {
		return nil, nil
	}
	return m.persistence.ListAll()
}
