package session

import "github.com/ocastro/magnate/game/engine"

// Persistence defines the interface for persisting games.
type Persistence interface {
	// Save persists a game to storage
	Save(game *Game) error

	// Load retrieves a game from storage by ID
	Load(id string) (*Game, error)

	// Delete removes a game from storage
	Delete(id string) error

	// ListAll returns all persisted game IDs
	ListAll() ([]string, error)

	// Exists checks if a game exists in storage
	Exists(id string) bool
}

// DefinitionSource builds fresh boards and decks by definition name. The
// config manager satisfies it.
type DefinitionSource interface {
	NewBoard(name string) (*engine.Board, error)
	NewDeck(name string) (*engine.Deck, error)
}
