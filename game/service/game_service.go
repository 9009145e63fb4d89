package service

import (
	"context"

	"github.com/ocastro/magnate/game/config"
	"github.com/ocastro/magnate/game/engine"
	"github.com/ocastro/magnate/game/session"
)

// GameService defines all game-related operations.
type GameService interface {
	// Game lifecycle
	CreateGame(ctx context.Context, definition string, players []PlayerSpec, initialCash, bankCash int) (*GameInfo, error)
	GetGame(ctx context.Context, gameID string) (*GameInfo, error)
	ListGames(ctx context.Context) ([]*GameInfo, error)
	DeleteGame(ctx context.Context, gameID string) error

	// Turn actions
	RollDice(ctx context.Context, gameID string) (*RollResult, error)
	BuyProperty(ctx context.Context, gameID string) (*ActionResult, error)
	BuildHouse(ctx context.Context, gameID string) (*ActionResult, error)
	BuildHotel(ctx context.Context, gameID string) (*ActionResult, error)
	SellProperty(ctx context.Context, gameID string, boardIndex int) (*ActionResult, error)
	EndTurn(ctx context.Context, gameID string) (*ActionResult, error)

	// Queries
	GetGameState(ctx context.Context, gameID string) (*GameState, error)
	PropertyAt(ctx context.Context, gameID string, boardIndex int) (*PropertyInfo, error)
	CurrentPlayerProperties(ctx context.Context, gameID string) ([]*PropertyInfo, error)

	// Persistence
	SaveGame(ctx context.Context, gameID string) error
	LoadGame(ctx context.Context, gameID string) (*GameInfo, error)
	ListSavedGames(ctx context.Context) ([]string, error)

	// Definitions
	ListDefinitions(ctx context.Context) ([]*config.DefinitionInfo, error)

	// SetMockedDice forces the next roll, for scripted play and testing.
	SetMockedDice(ctx context.Context, gameID string, d1, d2 int) error
}

// GameManager defines game registry operations.
type GameManager interface {
	Create(id string, eng *engine.GameEngine, definition string) (*session.Game, error)
	Get(id string) (*session.Game, error)
	List() []*session.Game
	Delete(id string) error
	Touch(id string) error
	Save(id string) error
	ListSaved() ([]string, error)
}

// DefinitionManager builds boards and decks from named definitions.
type DefinitionManager interface {
	NewBoard(name string) (*engine.Board, error)
	NewDeck(name string) (*engine.Deck, error)
	ListDefinitions() ([]*config.DefinitionInfo, error)
}
