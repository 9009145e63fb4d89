package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ocastro/magnate/game/config"
	"github.com/ocastro/magnate/game/engine"
	"github.com/ocastro/magnate/game/session"
)

// Defaults applied when a caller passes zero values.
const (
	DefaultInitialCash = 4000
	DefaultBankCash    = 200000
)

// gameServiceImpl implements the GameService interface.
type gameServiceImpl struct {
	games       GameManager
	definitions DefinitionManager
	rng         *rand.Rand
}

// NewGameService creates a new game service instance.
func NewGameService(games GameManager, definitions DefinitionManager) GameService {
	return &gameServiceImpl{
		games:       games,
		definitions: definitions,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateGame builds a fresh game from a definition and registers it.
func (s *gameServiceImpl) CreateGame(ctx context.Context, definition string, specs []PlayerSpec, initialCash, bankCash int) (*GameInfo, error) {
	if definition == "" {
		definition = config.DefaultDefinition
	}
	if initialCash <= 0 {
		initialCash = DefaultInitialCash
	}
	if bankCash <= 0 {
		bankCash = DefaultBankCash
	}
	if len(specs) < engine.MinPlayers || len(specs) > engine.MaxPlayers {
		return nil, fmt.Errorf("player count must be between %d and %d, got %d",
			engine.MinPlayers, engine.MaxPlayers, len(specs))
	}

	board, err := s.definitions.NewBoard(definition)
	if err != nil {
		return nil, fmt.Errorf("failed to build board %q: %w", definition, err)
	}
	deck, err := s.definitions.NewDeck(definition)
	if err != nil {
		return nil, fmt.Errorf("failed to build deck %q: %w", definition, err)
	}
	deck.Shuffle(s.rng)

	players := make([]*engine.Player, 0, len(specs))
	usedColors := make(map[engine.Color]bool, len(specs))
	for i, spec := range specs {
		color, err := engine.ParseColor(spec.Color)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i+1, err)
		}
		if usedColors[color] {
			return nil, fmt.Errorf("player %d: color %s already taken", i+1, color)
		}
		usedColors[color] = true

		p, err := engine.NewPlayer(fmt.Sprintf("P%d", i+1), spec.Name, color, initialCash)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i+1, err)
		}
		players = append(players, p)
	}

	bank, err := engine.NewBank(bankCash)
	if err != nil {
		return nil, err
	}
	economy, err := engine.NewEconomy(bank)
	if err != nil {
		return nil, err
	}
	eng, err := engine.NewGameEngine(board, players, deck, economy, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	game, err := s.games.Create("", eng, definition)
	if err != nil {
		return nil, fmt.Errorf("failed to register game: %w", err)
	}

	log.Info().
		Str("game_id", game.ID).
		Str("definition", definition).
		Int("players", len(players)).
		Msg("game created")

	return s.gameInfo(game), nil
}

// GetGame retrieves a game's info and current state.
func (s *gameServiceImpl) GetGame(ctx context.Context, gameID string) (*GameInfo, error) {
	game, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.Touch(gameID)
	return s.gameInfo(game), nil
}

// ListGames returns all registered games.
func (s *gameServiceImpl) ListGames(ctx context.Context) ([]*GameInfo, error) {
	games := s.games.List()
	result := make([]*GameInfo, 0, len(games))
	for _, game := range games {
		result = append(result, s.gameInfo(game))
	}
	return result, nil
}

// DeleteGame removes a game from the registry and from persistence.
func (s *gameServiceImpl) DeleteGame(ctx context.Context, gameID string) error {
	if err := s.games.Delete(gameID); err != nil {
		return err
	}
	log.Info().Str("game_id", gameID).Msg("game deleted")
	return nil
}

// RollDice rolls for the current player and resolves the landed square.
func (s *gameServiceImpl) RollDice(ctx context.Context, gameID string) (*RollResult, error) {
	game, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.Touch(gameID)

	game.Lock()
	defer game.Unlock()

	e := game.Engine
	performed, err := e.RollAndResolve()
	if err != nil {
		return nil, err
	}

	result := &RollResult{
		ActionResult: ActionResult{
			Success:      performed,
			Transactions: e.DrainTransactions(),
			State:        s.buildState(game),
		},
	}
	if !performed {
		result.Reason = "Dice already rolled this turn"
		return result, nil
	}

	if roll, ok := e.LastRoll(); ok {
		result.Roll = &roll
	}
	if name, err := e.SquareNameAt(e.CurrentPlayer().Position()); err == nil {
		result.LandedSquare = name
	}
	result.LandedOwnable = e.LastLandedOwnable()

	log.Debug().
		Str("game_id", gameID).
		Str("player", e.CurrentPlayer().ID()).
		Str("square", result.LandedSquare).
		Msg("dice rolled")
	return result, nil
}

// BuyProperty purchases the square the current player stands on.
func (s *gameServiceImpl) BuyProperty(ctx context.Context, gameID string) (*ActionResult, error) {
	return s.turnAction(gameID, "buy",
		func(e *engine.GameEngine) (bool, error) { return e.ChooseBuy() },
		func(e *engine.GameEngine) (string, error) { return e.BuyNotAllowedReason() })
}

// BuildHouse builds one house on the current player's square.
func (s *gameServiceImpl) BuildHouse(ctx context.Context, gameID string) (*ActionResult, error) {
	return s.turnAction(gameID, "build_house",
		func(e *engine.GameEngine) (bool, error) { return e.ChooseBuildHouse() },
		func(e *engine.GameEngine) (string, error) { return e.BuildHouseNotAllowedReason() })
}

// BuildHotel builds the hotel on the current player's square.
func (s *gameServiceImpl) BuildHotel(ctx context.Context, gameID string) (*ActionResult, error) {
	return s.turnAction(gameID, "build_hotel",
		func(e *engine.GameEngine) (bool, error) { return e.ChooseBuildHotel() },
		func(e *engine.GameEngine) (string, error) { return e.BuildHotelNotAllowedReason() })
}

// SellProperty sells the current player's property at a board index back
// to the bank.
func (s *gameServiceImpl) SellProperty(ctx context.Context, gameID string, boardIndex int) (*ActionResult, error) {
	return s.turnAction(gameID, "sell",
		func(e *engine.GameEngine) (bool, error) { return e.SellAtIndex(boardIndex) },
		func(e *engine.GameEngine) (string, error) { return e.SellNotAllowedReason(boardIndex) })
}

// EndTurn passes play to the next alive player.
func (s *gameServiceImpl) EndTurn(ctx context.Context, gameID string) (*ActionResult, error) {
	game, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.Touch(gameID)

	game.Lock()
	defer game.Unlock()

	next, err := game.Engine.EndTurn()
	if err != nil {
		return nil, err
	}

	log.Debug().Str("game_id", gameID).Int("next_player", next).Msg("turn ended")
	return &ActionResult{
		Success:      true,
		Transactions: game.Engine.DrainTransactions(),
		State:        s.buildState(game),
	}, nil
}

// GetGameState returns the current snapshot.
func (s *gameServiceImpl) GetGameState(ctx context.Context, gameID string) (*GameState, error) {
	game, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.Touch(gameID)

	game.Lock()
	defer game.Unlock()
	return s.buildState(game), nil
}

// PropertyAt returns the detail DTO of the ownable square at an index.
func (s *gameServiceImpl) PropertyAt(ctx context.Context, gameID string, boardIndex int) (*PropertyInfo, error) {
	game, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	game.Lock()
	defer game.Unlock()

	e := game.Engine
	street, err := e.StreetInfoAt(boardIndex)
	if err != nil {
		return nil, err
	}
	if street != nil {
		return &PropertyInfo{Street: street}, nil
	}
	company, err := e.CompanyInfoAt(boardIndex)
	if err != nil {
		return nil, err
	}
	if company != nil {
		return &PropertyInfo{Company: company}, nil
	}
	return nil, fmt.Errorf("square %d is not an ownable property", boardIndex)
}

// CurrentPlayerProperties lists the current player's holdings.
func (s *gameServiceImpl) CurrentPlayerProperties(ctx context.Context, gameID string) ([]*PropertyInfo, error) {
	game, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	game.Lock()
	defer game.Unlock()

	raw, err := game.Engine.CurrentPlayerProperties()
	if err != nil {
		return nil, err
	}
	result := make([]*PropertyInfo, 0, len(raw))
	for _, item := range raw {
		switch info := item.(type) {
		case *engine.StreetInfo:
			result = append(result, &PropertyInfo{Street: info})
		case *engine.CompanyInfo:
			result = append(result, &PropertyInfo{Company: info})
		}
	}
	return result, nil
}

// SaveGame persists a game through the registry's persistence layer.
func (s *gameServiceImpl) SaveGame(ctx context.Context, gameID string) error {
	game, err := s.games.Get(gameID)
	if err != nil {
		return err
	}

	game.Lock()
	defer game.Unlock()

	if err := s.games.Save(gameID); err != nil {
		return err
	}
	log.Info().Str("game_id", gameID).Msg("game saved")
	return nil
}

// LoadGame brings a persisted game into the registry and returns its info.
func (s *gameServiceImpl) LoadGame(ctx context.Context, gameID string) (*GameInfo, error) {
	game, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("game_id", gameID).Str("definition", game.Definition).Msg("game loaded")
	return s.gameInfo(game), nil
}

// ListSavedGames lists the IDs available in persistence.
func (s *gameServiceImpl) ListSavedGames(ctx context.Context) ([]string, error) {
	return s.games.ListSaved()
}

// ListDefinitions returns the available board/deck pairs.
func (s *gameServiceImpl) ListDefinitions(ctx context.Context) ([]*config.DefinitionInfo, error) {
	return s.definitions.ListDefinitions()
}

// SetMockedDice forces the next roll of a game.
func (s *gameServiceImpl) SetMockedDice(ctx context.Context, gameID string, d1, d2 int) error {
	game, err := s.games.Get(gameID)
	if err != nil {
		return err
	}

	game.Lock()
	defer game.Unlock()
	return game.Engine.SetMockedDice(d1, d2)
}

// turnAction runs one buy/build/sell action and wraps the outcome. A
// rejected action carries the engine's reason, a nil reason falls back to
// a generic message.
func (s *gameServiceImpl) turnAction(gameID, name string,
	act func(*engine.GameEngine) (bool, error),
	reason func(*engine.GameEngine) (string, error)) (*ActionResult, error) {

	game, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	s.games.Touch(gameID)

	game.Lock()
	defer game.Unlock()

	e := game.Engine
	ok, err := act(e)
	if err != nil {
		return nil, err
	}

	result := &ActionResult{
		Success:      ok,
		Transactions: e.DrainTransactions(),
		State:        s.buildState(game),
	}
	if !ok {
		why, rerr := reason(e)
		if rerr != nil || why == "" {
			why = "Action not allowed"
		}
		result.Reason = why
	}

	log.Debug().
		Str("game_id", gameID).
		Str("action", name).
		Bool("success", ok).
		Msg("turn action")
	return result, nil
}

func (s *gameServiceImpl) gameInfo(game *session.Game) *GameInfo {
	game.Lock()
	defer game.Unlock()
	return &GameInfo{
		ID:             game.ID,
		Definition:     game.Definition,
		CreatedAt:      game.CreatedAt,
		LastAccessedAt: game.LastAccessedAt,
		State:          s.buildState(game),
	}
}

// buildState snapshots the engine into the client-facing state. Callers
// hold the game lock.
func (s *gameServiceImpl) buildState(game *session.Game) *GameState {
	e := game.Engine

	state := &GameState{
		GameID:             game.ID,
		Definition:         game.Definition,
		CurrentPlayerIndex: e.CurrentPlayerIndex(),
		CurrentPlayerID:    e.CurrentPlayer().ID(),
		RollAllowed:        e.IsRollAllowed(),
		HasBuiltThisTurn:   e.HasBuiltThisTurn(),
		BankCash:           e.Bank().Cash(),
		AliveCount:         e.AlivePlayerCount(),
		Winners:            e.Winners(),
	}
	if roll, ok := e.LastRoll(); ok {
		state.LastRoll = &roll
	}

	for _, p := range e.Players() {
		state.Players = append(state.Players, PlayerState{
			ID:           p.ID(),
			Name:         p.Name(),
			Color:        p.Color(),
			Cash:         p.Cash(),
			Position:     p.Position(),
			InJail:       p.InJail(),
			ReleaseCards: p.ReleaseCards(),
			Alive:        p.Alive(),
			Properties:   p.PropertyIndexes(),
		})
	}

	board := e.Board()
	for i := 0; i < board.Size(); i++ {
		sq, err := board.SquareAt(i)
		if err != nil {
			continue
		}
		ss := SquareState{
			Index:      i,
			Name:       sq.Name(),
			Kind:       sq.Kind(),
			Amount:     sq.Amount(),
			Price:      sq.Price(),
			Houses:     sq.Houses(),
			HasHotel:   sq.HasHotel(),
			Multiplier: sq.Multiplier(),
		}
		if owner := sq.Owner(); owner != nil {
			ref := owner.Ref()
			ss.Owner = &ref
		}
		state.Squares = append(state.Squares, ss)
	}

	return state
}
