package engine

import "fmt"

// Snapshot captures the complete game state for saving. The board layout
// itself is not included; it is rebuilt from its definition on load.
func (e *GameEngine) Snapshot() SavedGame {
	saved := SavedGame{
		CurrentPlayerIndex: e.currentPlayerIndex,
		BankCash:           e.economy.bank.cash,
		DeckCards:          e.deck.CardsInOrder(),
	}
	for _, p := range e.players {
		saved.Players = append(saved.Players, SavedPlayer{
			ID:           p.id,
			Name:         p.name,
			Color:        p.color,
			Cash:         p.cash,
			Position:     p.position,
			InJail:       p.inJail,
			ReleaseCards: p.releaseCards,
			Alive:        p.alive,
		})
		saved.ReleaseCardsOut += p.releaseCards
	}
	for i := 0; i < e.board.Size(); i++ {
		sq := e.board.squares[i]
		if !sq.HasOwner() {
			continue
		}
		switch sq.kind {
		case KindStreet:
			saved.Streets = append(saved.Streets, SavedStreet{
				SquareIndex: i,
				OwnerID:     sq.owner.id,
				Houses:      sq.houses,
				HasHotel:    sq.hotel,
			})
		case KindCompany:
			saved.Companies = append(saved.Companies, SavedCompany{
				SquareIndex: i,
				OwnerID:     sq.owner.id,
			})
		}
	}
	return saved
}

// Restore rebuilds a running game from a snapshot. The board must be freshly
// built from the same definition the game was started with; freshDeck is
// only consulted when the snapshot carries no deck order. The restored
// engine has its turn begun and resumes at the saved player index.
func Restore(board *Board, freshDeck *Deck, saved SavedGame) (*GameEngine, error) {
	if len(saved.Players) == 0 {
		return nil, fmt.Errorf("saved game has no players")
	}

	bank, err := NewBank(saved.BankCash)
	if err != nil {
		return nil, fmt.Errorf("restoring bank: %w", err)
	}
	economy, err := NewEconomy(bank)
	if err != nil {
		return nil, err
	}

	deck := freshDeck
	if len(saved.DeckCards) > 0 {
		deck, err = NewDeck(saved.DeckCards)
		if err != nil {
			return nil, fmt.Errorf("restoring deck order: %w", err)
		}
	} else {
		if deck == nil {
			return nil, fmt.Errorf("a fresh deck is required when the save carries no deck order")
		}
		// Legacy saves: draw until the held release cards left circulation.
		for i := 0; i < saved.ReleaseCardsOut; i++ {
			if _, err := deck.Draw(); err != nil {
				return nil, fmt.Errorf("removing held release cards: %w", err)
			}
		}
	}

	players := make([]*Player, 0, len(saved.Players))
	byID := make(map[string]*Player, len(saved.Players))
	for _, sp := range saved.Players {
		p, err := NewPlayer(sp.ID, sp.Name, sp.Color, sp.Cash)
		if err != nil {
			return nil, fmt.Errorf("restoring player %q: %w", sp.ID, err)
		}
		if err := p.moveTo(sp.Position); err != nil {
			return nil, fmt.Errorf("restoring player %q: %w", sp.ID, err)
		}
		p.setInJail(sp.InJail)
		for i := 0; i < sp.ReleaseCards; i++ {
			p.grantReleaseCard()
		}
		if !sp.Alive {
			p.markBankrupt()
		}
		players = append(players, p)
		byID[sp.ID] = p
	}

	for _, ss := range saved.Streets {
		sq, err := board.SquareAt(ss.SquareIndex)
		if err != nil {
			return nil, fmt.Errorf("restoring street ownership: %w", err)
		}
		if sq.kind != KindStreet {
			return nil, fmt.Errorf("square %d is not a street", ss.SquareIndex)
		}
		owner, ok := byID[ss.OwnerID]
		if !ok {
			return nil, fmt.Errorf("street %d references unknown owner %q", ss.SquareIndex, ss.OwnerID)
		}
		sq.setOwner(owner)
		owner.addProperty(sq)
		for i := 0; i < ss.Houses; i++ {
			if err := sq.buildHouse(); err != nil {
				return nil, fmt.Errorf("restoring houses on square %d: %w", ss.SquareIndex, err)
			}
		}
		if ss.HasHotel {
			if err := sq.buildHotel(); err != nil {
				return nil, fmt.Errorf("restoring hotel on square %d: %w", ss.SquareIndex, err)
			}
		}
	}

	for _, sc := range saved.Companies {
		sq, err := board.SquareAt(sc.SquareIndex)
		if err != nil {
			return nil, fmt.Errorf("restoring company ownership: %w", err)
		}
		if sq.kind != KindCompany {
			return nil, fmt.Errorf("square %d is not a company", sc.SquareIndex)
		}
		owner, ok := byID[sc.OwnerID]
		if !ok {
			return nil, fmt.Errorf("company %d references unknown owner %q", sc.SquareIndex, sc.OwnerID)
		}
		sq.setOwner(owner)
		owner.addProperty(sq)
	}

	e, err := NewGameEngine(board, players, deck, economy, saved.CurrentPlayerIndex)
	if err != nil {
		return nil, err
	}
	e.BeginTurn()
	return e, nil
}
