package engine

import "testing"

// buildFixtureBoard mirrors the layout of newTestEngine so a snapshot taken
// there can be restored onto a fresh copy.
func buildFixtureBoard(t *testing.T) *Board {
	t.Helper()
	street, err := NewStreetSquare(0, "Avenida Central", 200)
	if err != nil {
		t.Fatal(err)
	}
	company, err := NewCompanySquare(4, "Companhia de Luz", 150, 10)
	if err != nil {
		t.Fatal(err)
	}
	board, err := NewBoard([]*Square{
		street,
		NewPlainSquare(1, "Praca"),
		NewPlainSquare(2, "Jardim"),
		NewPlainSquare(3, "Cadeia"),
		company,
		NewPlainSquare(5, "Largo"),
		NewPlainSquare(6, "Mirante"),
		NewPlainSquare(7, "Cais"),
	}, 3)
	if err != nil {
		t.Fatal(err)
	}
	return board
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e := newTestEngine(t, 500, 5000)
	players := e.Players()

	// Shape a mid-game position: owned street with a house, owned company,
	// a jailed player holding a release card, a bankrupt player and a
	// rotated deck.
	if bought, _ := e.ChooseBuy(); !bought {
		t.Fatal("purchase failed")
	}
	e.BeginTurn()
	if built, _ := e.ChooseBuildHouse(); !built {
		t.Fatal("house build failed")
	}
	company, _ := e.Board().SquareAt(4)
	company.setOwner(players[1])
	players[1].addProperty(company)
	if err := e.sendToJail(players[1]); err != nil {
		t.Fatal(err)
	}
	players[1].grantReleaseCard()
	e.economy.DeclareBankruptcy(players[2])
	if _, err := e.Deck().Draw(); err != nil { // rotate card 1 to the back
		t.Fatal(err)
	}
	if _, err := e.EndTurn(); err != nil {
		t.Fatal(err)
	}

	saved := e.Snapshot()
	restored, err := Restore(buildFixtureBoard(t), nil, saved)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if restored.CurrentPlayerIndex() != e.CurrentPlayerIndex() {
		t.Errorf("current index %d, want %d", restored.CurrentPlayerIndex(), e.CurrentPlayerIndex())
	}
	if restored.Bank().Cash() != e.Bank().Cash() {
		t.Errorf("bank cash %d, want %d", restored.Bank().Cash(), e.Bank().Cash())
	}

	rp := restored.Players()
	if rp[0].Cash() != players[0].Cash() || rp[0].Position() != players[0].Position() {
		t.Errorf("player 1 state differs: cash %d pos %d", rp[0].Cash(), rp[0].Position())
	}
	if !rp[1].InJail() || rp[1].ReleaseCards() != 1 {
		t.Error("jailed player with a release card was not restored")
	}
	if rp[2].Alive() {
		t.Error("bankrupt player must stay bankrupt after restore")
	}

	street, err := restored.StreetInfoAt(0)
	if err != nil || street == nil {
		t.Fatalf("StreetInfoAt: %v", err)
	}
	if street.Owner == nil || street.Owner.ID != "P1" || street.Houses != 1 || street.HasHotel {
		t.Errorf("street ownership not restored: %+v", street)
	}
	comp, err := restored.CompanyInfoAt(4)
	if err != nil || comp == nil {
		t.Fatalf("CompanyInfoAt: %v", err)
	}
	if comp.Owner == nil || comp.Owner.ID != "P2" {
		t.Errorf("company ownership not restored: %+v", comp)
	}

	got := restored.Deck().CardsInOrder()
	want := e.Deck().CardsInOrder()
	if len(got) != len(want) {
		t.Fatalf("deck size %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("deck order differs at %d: %d vs %d", i, got[i].ID, want[i].ID)
		}
	}

	// Restored titles must be live objects: rent and sales keep working.
	if !restored.IsRollAllowed() {
		t.Error("restored game must allow its current player to roll")
	}
}

func TestRestoreLegacySaveWithoutDeckOrder(t *testing.T) {
	deck, err := NewDeck([]Card{
		{ID: 1, Kind: CardGetOutOfJail},
		{ID: 2, Kind: CardReceiveBank, Value: 100},
		{ID: 3, Kind: CardPayBank, Value: 50},
	})
	if err != nil {
		t.Fatal(err)
	}

	saved := SavedGame{
		CurrentPlayerIndex: 0,
		BankCash:           5000,
		Players: []SavedPlayer{
			{ID: "P1", Name: "Ana", Color: ColorRed, Cash: 300, Position: 1, ReleaseCards: 1, Alive: true},
			{ID: "P2", Name: "Bia", Color: ColorBlue, Cash: 700, Position: 5, Alive: true},
		},
		ReleaseCardsOut: 1,
	}

	restored, err := Restore(buildFixtureBoard(t), deck, saved)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	// The held release card was drawn out of the fresh deck.
	if restored.Deck().Size() != 2 {
		t.Errorf("deck size %d, want 2", restored.Deck().Size())
	}
	for _, c := range restored.Deck().CardsInOrder() {
		if c.Kind == CardGetOutOfJail {
			t.Error("release card held by a player must not remain in the deck")
		}
	}
	if restored.Players()[0].ReleaseCards() != 1 {
		t.Error("release card count not restored")
	}
}

func TestRestoreRejectsBadReferences(t *testing.T) {
	saved := SavedGame{
		BankCash: 100,
		Players: []SavedPlayer{
			{ID: "P1", Name: "Ana", Color: ColorRed, Cash: 100, Alive: true},
			{ID: "P2", Name: "Bia", Color: ColorBlue, Cash: 100, Alive: true},
		},
		DeckCards: []Card{{ID: 1, Kind: CardPayBank, Value: 10}},
		Streets:   []SavedStreet{{SquareIndex: 0, OwnerID: "GHOST"}},
	}
	if _, err := Restore(buildFixtureBoard(t), nil, saved); err == nil {
		t.Error("expected error for an unknown street owner")
	}

	saved.Streets = []SavedStreet{{SquareIndex: 4, OwnerID: "P1"}}
	if _, err := Restore(buildFixtureBoard(t), nil, saved); err == nil {
		t.Error("expected error when a street record points at a company")
	}

	if _, err := Restore(buildFixtureBoard(t), nil, SavedGame{}); err == nil {
		t.Error("expected error for an empty save")
	}
}
