package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// Player count bounds for a game.
const (
	MinPlayers = 2
	MaxPlayers = 6
)

// GameEngine is the turn state machine. It composes the board, the player
// list, the chance deck and the economy, and exposes the only entry points
// the facade layer may call.
type GameEngine struct {
	board   *Board
	players []*Player
	deck    *Deck
	economy *Economy
	rng     *rand.Rand

	currentPlayerIndex int
	lastRoll           *DiceRoll
	lastRollerIndex    int
	lastDrawnCardID    int
	lastLandedOwnable  string
	hasBuiltThisTurn   bool

	// single-use dice override for deterministic play
	mockedDice *DiceRoll
}

// NewGameEngine wires a fresh engine. startIndex selects whose turn it is.
func NewGameEngine(board *Board, players []*Player, deck *Deck, economy *Economy, startIndex int) (*GameEngine, error) {
	if board == nil {
		return nil, fmt.Errorf("board is required")
	}
	if deck == nil {
		return nil, fmt.Errorf("deck is required")
	}
	if economy == nil {
		return nil, fmt.Errorf("economy is required")
	}
	if len(players) == 0 {
		return nil, fmt.Errorf("at least one player is required")
	}
	if startIndex < 0 || startIndex >= len(players) {
		return nil, fmt.Errorf("start index %d out of player range [0,%d)", startIndex, len(players))
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p == nil {
			return nil, fmt.Errorf("player list contains nil")
		}
		if seen[p.id] {
			return nil, fmt.Errorf("duplicate player id %q", p.id)
		}
		seen[p.id] = true
	}
	return &GameEngine{
		board:              board,
		players:            players,
		deck:               deck,
		economy:            economy,
		rng:                rand.New(rand.NewSource(time.Now().UnixNano())),
		currentPlayerIndex: startIndex,
		lastRollerIndex:    -1,
		lastDrawnCardID:    -1,
	}, nil
}

// BeginTurn clears the per-turn state: last roll and the build flag.
func (e *GameEngine) BeginTurn() {
	e.lastRoll = nil
	e.hasBuiltThisTurn = false
}

// RollAndResolve executes the complete move: roll dice, apply jail-exit
// rules, advance and resolve the landed square. Returns false (without
// touching state) when the current player already rolled this cycle.
func (e *GameEngine) RollAndResolve() (bool, error) {
	if !e.IsRollAllowed() {
		return false, nil
	}
	p := e.currentPlayer()
	e.lastRollerIndex = e.currentPlayerIndex

	roll := e.roll()
	e.applyJailRules(roll)

	// Jailed players do not move.
	if p.inJail {
		return true, nil
	}

	if err := e.moveBy(roll.Sum()); err != nil {
		return false, err
	}
	if err := e.resolveLand(); err != nil {
		return false, err
	}
	return true, nil
}

// ChooseBuy purchases the square the current player stands on. One purchase
// or construction is allowed per turn.
func (e *GameEngine) ChooseBuy() (bool, error) {
	if e.hasBuiltThisTurn {
		return false, nil
	}
	p := e.currentPlayer()
	sq, err := e.board.SquareAt(p.position)
	if err != nil {
		return false, err
	}
	if !sq.IsOwnable() {
		return false, nil
	}
	bought, err := e.economy.AttemptBuy(p, sq)
	if err != nil {
		return false, err
	}
	if bought {
		e.hasBuiltThisTurn = true
	}
	return bought, nil
}

// ChooseBuildHouse builds one house on the street the current player stands
// on, subject to the one-build-per-turn rule.
func (e *GameEngine) ChooseBuildHouse() (bool, error) {
	return e.chooseBuild((*Economy).AttemptBuildHouse)
}

// ChooseBuildHotel builds the hotel on the street the current player stands
// on, subject to the one-build-per-turn rule.
func (e *GameEngine) ChooseBuildHotel() (bool, error) {
	return e.chooseBuild((*Economy).AttemptBuildHotel)
}

func (e *GameEngine) chooseBuild(build func(*Economy, *Player, *Square) (bool, error)) (bool, error) {
	if e.hasBuiltThisTurn {
		return false, nil
	}
	p := e.currentPlayer()
	sq, err := e.board.SquareAt(p.position)
	if err != nil {
		return false, err
	}
	if sq.kind != KindStreet {
		return false, nil
	}
	built, err := build(e.economy, p, sq)
	if err != nil {
		return false, err
	}
	if built {
		e.hasBuiltThisTurn = true
	}
	return built, nil
}

// SellAtIndex voluntarily sells the current player's property at a board
// index back to the bank.
func (e *GameEngine) SellAtIndex(boardIndex int) (bool, error) {
	sq, err := e.board.SquareAt(boardIndex)
	if err != nil {
		return false, err
	}
	if !sq.IsOwnable() {
		return false, nil
	}
	return e.economy.AttemptSell(e.currentPlayer(), sq)
}

// EndTurn advances to the next alive player and resets per-turn state.
// Returns the new current player index.
func (e *GameEngine) EndTurn() (int, error) {
	if e.AlivePlayerCount() == 0 {
		return 0, fmt.Errorf("no alive players remain")
	}
	e.lastRoll = nil
	e.hasBuiltThisTurn = false

	n := len(e.players)
	for {
		e.currentPlayerIndex = (e.currentPlayerIndex + 1) % n
		if e.players[e.currentPlayerIndex].alive {
			return e.currentPlayerIndex, nil
		}
	}
}

// ===== internals =====

func (e *GameEngine) currentPlayer() *Player { return e.players[e.currentPlayerIndex] }

// roll consumes the mocked pair when present, otherwise throws random dice.
func (e *GameEngine) roll() DiceRoll {
	var r DiceRoll
	if e.mockedDice != nil {
		r = *e.mockedDice
		e.mockedDice = nil
	} else {
		r = randomRoll(e.rng)
	}
	e.lastRoll = &r
	return r
}

// applyJailRules frees the current player on a double, or by spending a held
// release card (which returns a fresh card to the deck bottom). Otherwise
// the player stays jailed.
func (e *GameEngine) applyJailRules(roll DiceRoll) {
	p := e.currentPlayer()
	if !p.inJail {
		return
	}
	if roll.IsDouble() {
		p.setInJail(false)
		return
	}
	if p.consumeReleaseCard() {
		p.setInJail(false)
		e.deck.ReturnReleaseCardToBottom()
	}
}

// moveBy advances the current player, crediting the pass-start bonus when
// the move wraps past the board origin.
func (e *GameEngine) moveBy(steps int) error {
	p := e.currentPlayer()
	if p.inJail {
		return nil
	}
	from := p.position
	to, err := e.board.NextPosition(from, steps)
	if err != nil {
		return err
	}
	if from+steps >= e.board.Size() {
		if err := e.economy.CreditPassStart(p); err != nil {
			return err
		}
	}
	return p.moveTo(to)
}

// resolveLand applies the landed square's effect for the current player.
func (e *GameEngine) resolveLand() error {
	p := e.currentPlayer()
	sq, err := e.board.SquareAt(p.position)
	if err != nil {
		return err
	}
	if sq.IsOwnable() {
		e.lastLandedOwnable = sq.name
	} else {
		e.lastLandedOwnable = ""
	}
	return sq.onLand(p, e)
}

func (e *GameEngine) drawAndApplyCard(p *Player) error {
	card, err := e.deck.Draw()
	if err != nil {
		return err
	}
	e.lastDrawnCardID = card.ID
	return card.apply(p, e)
}

// sendToJail flags the player and moves the piece onto the jail square.
func (e *GameEngine) sendToJail(p *Player) error {
	p.setInJail(true)
	return p.moveTo(e.board.jailIndex)
}

func (e *GameEngine) lastRollSum() int {
	if e.lastRoll == nil {
		return 0
	}
	return e.lastRoll.Sum()
}

// ===== queries =====

// CurrentPlayerIndex returns whose turn it is.
func (e *GameEngine) CurrentPlayerIndex() int { return e.currentPlayerIndex }

// CurrentPlayer returns the player whose turn it is.
func (e *GameEngine) CurrentPlayer() *Player { return e.currentPlayer() }

// Players returns the player list in seating order.
func (e *GameEngine) Players() []*Player {
	out := make([]*Player, len(e.players))
	copy(out, e.players)
	return out
}

// LastRoll returns the last dice roll of the current cycle, if any.
func (e *GameEngine) LastRoll() (DiceRoll, bool) {
	if e.lastRoll == nil {
		return DiceRoll{}, false
	}
	return *e.lastRoll, true
}

// IsRollAllowed reports whether the current player may still roll this cycle.
func (e *GameEngine) IsRollAllowed() bool {
	return e.lastRollerIndex != e.currentPlayerIndex
}

// HasBuiltThisTurn reports whether the build-or-buy allowance is spent.
func (e *GameEngine) HasBuiltThisTurn() bool { return e.hasBuiltThisTurn }

// AlivePlayerCount returns how many players are still in the game.
func (e *GameEngine) AlivePlayerCount() int {
	n := 0
	for _, p := range e.players {
		if p.alive {
			n++
		}
	}
	return n
}

// Winners returns the players tied for the maximum cash.
func (e *GameEngine) Winners() []PlayerRef {
	max := e.players[0].cash
	for _, p := range e.players[1:] {
		if p.cash > max {
			max = p.cash
		}
	}
	var out []PlayerRef
	for _, p := range e.players {
		if p.cash == max {
			out = append(out, p.Ref())
		}
	}
	return out
}

// SquareNameAt returns the display name of the square at index.
func (e *GameEngine) SquareNameAt(index int) (string, error) {
	sq, err := e.board.SquareAt(index)
	if err != nil {
		return "", err
	}
	return sq.name, nil
}

// SquareKindAt returns the variant tag of the square at index.
func (e *GameEngine) SquareKindAt(index int) (SquareKind, error) {
	sq, err := e.board.SquareAt(index)
	if err != nil {
		return "", err
	}
	return sq.kind, nil
}

// LastDrawnCardID returns the id of the last drawn card, or -1.
func (e *GameEngine) LastDrawnCardID() int { return e.lastDrawnCardID }

// LastLandedOwnable returns the name of the last ownable landed on, or "".
func (e *GameEngine) LastLandedOwnable() string { return e.lastLandedOwnable }

// StreetInfoAt returns the street DTO at index, or nil if the square is not
// a street.
func (e *GameEngine) StreetInfoAt(index int) (*StreetInfo, error) {
	sq, err := e.board.SquareAt(index)
	if err != nil {
		return nil, err
	}
	if sq.kind != KindStreet {
		return nil, nil
	}
	return &StreetInfo{
		OwnableCore: e.ownableCore(sq),
		Rent:        sq.Rent(e.lastRollSum()),
		Houses:      sq.houses,
		HasHotel:    sq.hotel,
	}, nil
}

// CompanyInfoAt returns the company DTO at index, or nil if the square is
// not a company.
func (e *GameEngine) CompanyInfoAt(index int) (*CompanyInfo, error) {
	sq, err := e.board.SquareAt(index)
	if err != nil {
		return nil, err
	}
	if sq.kind != KindCompany {
		return nil, nil
	}
	return &CompanyInfo{
		OwnableCore: e.ownableCore(sq),
		Multiplier:  sq.multiplier,
	}, nil
}

// CurrentPlayerProperties returns the DTOs for everything the current player
// owns, in acquisition order. Streets come as *StreetInfo, companies as
// *CompanyInfo.
func (e *GameEngine) CurrentPlayerProperties() ([]any, error) {
	p := e.currentPlayer()
	out := make([]any, 0, len(p.properties))
	for _, idx := range p.PropertyIndexes() {
		if street, err := e.StreetInfoAt(idx); err != nil {
			return nil, err
		} else if street != nil {
			out = append(out, street)
			continue
		}
		if company, err := e.CompanyInfoAt(idx); err != nil {
			return nil, err
		} else if company != nil {
			out = append(out, company)
		}
	}
	return out, nil
}

func (e *GameEngine) ownableCore(sq *Square) OwnableCore {
	core := OwnableCore{
		Name:       sq.name,
		BoardIndex: sq.index,
		Price:      sq.price,
		SellValue:  e.economy.EvaluateSellValue(sq),
	}
	if sq.owner != nil {
		ref := sq.owner.Ref()
		core.Owner = &ref
	}
	return core
}

// BuyNotAllowedReason explains why buying is currently blocked, or "" when
// allowed.
func (e *GameEngine) BuyNotAllowedReason() (string, error) {
	p := e.currentPlayer()
	sq, err := e.board.SquareAt(p.position)
	if err != nil {
		return "", err
	}
	if !sq.IsOwnable() {
		return "Not a buyable property", nil
	}
	if sq.HasOwner() {
		return "Property already owned", nil
	}
	if e.hasBuiltThisTurn {
		return "Already built or bought once this turn", nil
	}
	if !p.CanAfford(sq.price) {
		return fmt.Sprintf("Insufficient funds: missing %d", p.Shortfall(sq.price)), nil
	}
	return "", nil
}

// BuildHouseNotAllowedReason explains why building a house is blocked, or "".
func (e *GameEngine) BuildHouseNotAllowedReason() (string, error) {
	return e.buildNotAllowedReason(true)
}

// BuildHotelNotAllowedReason explains why building the hotel is blocked, or "".
func (e *GameEngine) BuildHotelNotAllowedReason() (string, error) {
	return e.buildNotAllowedReason(false)
}

func (e *GameEngine) buildNotAllowedReason(house bool) (string, error) {
	p := e.currentPlayer()
	sq, err := e.board.SquareAt(p.position)
	if err != nil {
		return "", err
	}
	if sq.kind != KindStreet {
		return "Not a street (cannot build)", nil
	}
	if !sq.HasOwner() || sq.owner != p {
		return "You don't own this property", nil
	}
	if e.hasBuiltThisTurn {
		return "Already built or bought once this turn", nil
	}
	var cost int
	if house {
		if !sq.CanBuildHouse() {
			return fmt.Sprintf("Cannot build more houses (max %d)", MaxHouses), nil
		}
		cost = sq.HouseCost()
	} else {
		if !sq.CanBuildHotel() {
			return "Cannot build hotel (need at least 1 house)", nil
		}
		cost = sq.HotelCost()
	}
	if !p.CanAfford(cost) {
		return fmt.Sprintf("Insufficient funds: missing %d", p.Shortfall(cost)), nil
	}
	return "", nil
}

// SellNotAllowedReason explains why selling the property at a board index is
// blocked, or "" when allowed.
func (e *GameEngine) SellNotAllowedReason(boardIndex int) (string, error) {
	sq, err := e.board.SquareAt(boardIndex)
	if err != nil {
		return "", err
	}
	if !sq.IsOwnable() {
		return "Not a sellable property", nil
	}
	if !sq.HasOwner() || sq.owner != e.currentPlayer() {
		return "You don't own this property", nil
	}
	return "", nil
}

// DrainTransactions returns and clears the money movement records since the
// previous call.
func (e *GameEngine) DrainTransactions() []Transaction {
	return e.economy.DrainTransactions()
}

// Board returns the game board.
func (e *GameEngine) Board() *Board { return e.board }

// Deck returns the chance deck.
func (e *GameEngine) Deck() *Deck { return e.deck }

// Bank returns the bank.
func (e *GameEngine) Bank() *Bank { return e.economy.bank }

// SetMockedDice injects the values for the next roll. The pair is consumed
// exactly once; afterwards the engine reverts to random dice.
func (e *GameEngine) SetMockedDice(d1, d2 int) error {
	roll, err := NewDiceRoll(d1, d2)
	if err != nil {
		return err
	}
	e.mockedDice = &roll
	return nil
}

// ClearMockedDice cancels a pending dice override.
func (e *GameEngine) ClearMockedDice() { e.mockedDice = nil }

// SetRandSource replaces the random source used for dice, for seeded runs.
func (e *GameEngine) SetRandSource(rng *rand.Rand) {
	if rng != nil {
		e.rng = rng
	}
}
