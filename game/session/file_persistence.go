package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ocastro/magnate/game/engine"
)

const saveSuffix = ".save.txt"

// Saves without a definition key are replayed onto this board/deck pair.
const fallbackDefinition = "classic"

// FilePersistence implements Persistence using one text file per game.
type FilePersistence struct {
	savesDir    string
	definitions DefinitionSource
}

// NewFilePersistence creates a file-based persistence layer. The saves
// directory is created if missing.
func NewFilePersistence(savesDir string, definitions DefinitionSource) (*FilePersistence, error) {
	if err := os.MkdirAll(savesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create saves directory: %w", err)
	}
	return &FilePersistence{
		savesDir:    savesDir,
		definitions: definitions,
	}, nil
}

// Save writes the game's snapshot to its save file.
func (fp *FilePersistence) Save(game *Game) error {
	if game == nil {
		return fmt.Errorf("game cannot be nil")
	}

	f, err := os.Create(fp.filePath(game.ID))
	if err != nil {
		return fmt.Errorf("failed to create save file: %w", err)
	}
	if err := WriteSave(f, game.Engine.Snapshot(), game.Definition); err != nil {
		f.Close()
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return f.Close()
}

// Load rebuilds a game from its save file and a fresh board.
func (fp *FilePersistence) Load(id string) (*Game, error) {
	path := fp.filePath(id)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}
	defer f.Close()

	saved, definition, err := ParseSave(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse save file: %w", err)
	}
	if definition == "" {
		definition = fallbackDefinition
	}

	board, err := fp.definitions.NewBoard(definition)
	if err != nil {
		return nil, fmt.Errorf("failed to build board %q: %w", definition, err)
	}

	// The fresh deck is only consulted when the save predates DECK_STATE.
	var freshDeck *engine.Deck
	if len(saved.DeckCards) == 0 {
		freshDeck, err = fp.definitions.NewDeck(definition)
		if err != nil {
			return nil, fmt.Errorf("failed to build deck %q: %w", definition, err)
		}
	}

	eng, err := engine.Restore(board, freshDeck, saved)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game state: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat save file: %w", err)
	}

	return &Game{
		ID:             id,
		Definition:     definition,
		Engine:         eng,
		CreatedAt:      info.ModTime(),
		LastAccessedAt: info.ModTime(),
	}, nil
}

// Delete removes a game's save file.
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrGameNotFound
	}
	if err := os.Remove(fp.filePath(id)); err != nil {
		return fmt.Errorf("failed to remove save file: %w", err)
	}
	return nil
}

// ListAll returns every saved game ID.
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.savesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read saves directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), saveSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), saveSuffix))
	}
	return ids, nil
}

// Exists checks whether a save file is on disk.
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.filePath(id))
	return err == nil
}

func (fp *FilePersistence) filePath(id string) string {
	return filepath.Join(fp.savesDir, id+saveSuffix)
}
