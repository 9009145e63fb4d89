package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ocastro/magnate/game/engine"
)

var (
	ErrDefinitionNotFound = errors.New("definition not found")
	ErrInvalidDefinition  = errors.New("invalid definition")
)

const (
	boardSuffix = ".board.csv"
	deckSuffix  = ".deck.csv"

	// DefaultDefinition is used when a caller does not name one.
	DefaultDefinition = "classic"
)

// DefinitionInfo describes one available board/deck pair.
type DefinitionInfo struct {
	Name      string `json:"name"`
	BoardFile string `json:"board_file"`
	DeckFile  string `json:"deck_file"`
	Squares   int    `json:"squares"`
	Cards     int    `json:"cards"`
}

// Manager loads and caches board and deck definitions from a directory.
type Manager struct {
	configDir string

	mu     sync.RWMutex
	boards map[string][]BoardRow
	decks  map[string][]DeckRow
}

// NewManager creates a definition manager over configDir.
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}
	return &Manager{
		configDir: configDir,
		boards:    make(map[string][]BoardRow),
		decks:     make(map[string][]DeckRow),
	}, nil
}

// NewBoard builds a fresh board from the named definition.
func (m *Manager) NewBoard(name string) (*engine.Board, error) {
	rows, err := m.boardRows(name)
	if err != nil {
		return nil, err
	}
	return BuildBoard(rows)
}

// NewDeck builds a fresh deck from the named definition, in file order.
func (m *Manager) NewDeck(name string) (*engine.Deck, error) {
	rows, err := m.deckRows(name)
	if err != nil {
		return nil, err
	}
	return BuildDeck(rows)
}

// ListDefinitions returns every complete board/deck pair in the directory.
// Pairs that fail to parse or validate are skipped.
func (m *Manager) ListDefinitions() ([]*DefinitionInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var infos []*DefinitionInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), boardSuffix) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), boardSuffix)

		boardRows, err := m.boardRows(name)
		if err != nil || len(CheckBoardRows(boardRows)) > 0 {
			continue
		}
		deckRows, err := m.deckRows(name)
		if err != nil || len(CheckDeckRows(deckRows)) > 0 {
			continue
		}

		infos = append(infos, &DefinitionInfo{
			Name:      name,
			BoardFile: name + boardSuffix,
			DeckFile:  name + deckSuffix,
			Squares:   len(boardRows),
			Cards:     len(deckRows),
		})
	}
	return infos, nil
}

// RefreshCache drops all cached rows so the next load re-reads disk.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards = make(map[string][]BoardRow)
	m.decks = make(map[string][]DeckRow)
}

func (m *Manager) boardRows(name string) ([]BoardRow, error) {
	m.mu.RLock()
	rows, ok := m.boards[name]
	m.mu.RUnlock()
	if ok {
		return rows, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if rows, ok := m.boards[name]; ok {
		return rows, nil
	}

	f, err := m.open(name + boardSuffix)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err = ParseBoardCSV(f)
	if err != nil {
		return nil, err
	}
	m.boards[name] = rows
	return rows, nil
}

func (m *Manager) deckRows(name string) ([]DeckRow, error) {
	m.mu.RLock()
	rows, ok := m.decks[name]
	m.mu.RUnlock()
	if ok {
		return rows, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if rows, ok := m.decks[name]; ok {
		return rows, nil
	}

	f, err := m.open(name + deckSuffix)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err = ParseDeckCSV(f)
	if err != nil {
		return nil, err
	}
	m.decks[name] = rows
	return rows, nil
}

func (m *Manager) open(filename string) (*os.File, error) {
	f, err := os.Open(filepath.Join(m.configDir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDefinitionNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	return f, nil
}
