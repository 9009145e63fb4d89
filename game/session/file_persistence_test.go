package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ocastro/magnate/game/engine"
)

// fixtureDefs builds the same 8-square board and 3-card deck for every
// name, standing in for the config manager.
type fixtureDefs struct{}

func (fixtureDefs) NewBoard(name string) (*engine.Board, error) {
	street, err := engine.NewStreetSquare(0, "Avenida Central", 200)
	if err != nil {
		return nil, err
	}
	company, err := engine.NewCompanySquare(4, "Companhia de Luz", 150, 10)
	if err != nil {
		return nil, err
	}
	return engine.NewBoard([]*engine.Square{
		street,
		engine.NewPlainSquare(1, "Praca"),
		engine.NewChanceSquare(2, "Sorte"),
		engine.NewPlainSquare(3, "Cadeia"),
		company,
		engine.NewPlainSquare(5, "Largo"),
		engine.NewMoneySquare(6, "Imposto", -100),
		engine.NewPlainSquare(7, "Cais"),
	}, 3)
}

func (fixtureDefs) NewDeck(name string) (*engine.Deck, error) {
	return engine.NewDeck([]engine.Card{
		{ID: 1, Kind: engine.CardReceiveBank, Value: 100},
		{ID: 2, Kind: engine.CardGetOutOfJail},
		{ID: 3, Kind: engine.CardPayBank, Value: 50},
	})
}

func restoredGame(t *testing.T, id string, saved engine.SavedGame) *Game {
	t.Helper()
	defs := fixtureDefs{}
	board, err := defs.NewBoard("classic")
	if err != nil {
		t.Fatal(err)
	}
	eng, err := engine.Restore(board, nil, saved)
	if err != nil {
		t.Fatal(err)
	}
	return &Game{ID: id, Definition: "classic", Engine: eng}
}

func TestFilePersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir, fixtureDefs{})
	if err != nil {
		t.Fatalf("NewFilePersistence: %v", err)
	}

	game := restoredGame(t, "g1", midGameSnapshot())
	if err := fp.Save(game); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !fp.Exists("g1") {
		t.Fatal("saved game must exist")
	}

	loaded, err := fp.Load("g1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Definition != "classic" {
		t.Errorf("definition %q", loaded.Definition)
	}

	want := game.Engine.Snapshot()
	got := loaded.Engine.Snapshot()
	if got.CurrentPlayerIndex != want.CurrentPlayerIndex || got.BankCash != want.BankCash {
		t.Errorf("game info differs: %+v vs %+v", got, want)
	}
	for i := range want.Players {
		if got.Players[i] != want.Players[i] {
			t.Errorf("player %d differs: %+v vs %+v", i, got.Players[i], want.Players[i])
		}
	}
	if len(got.Streets) != len(want.Streets) || got.Streets[0] != want.Streets[0] {
		t.Errorf("streets differ: %+v vs %+v", got.Streets, want.Streets)
	}
	if len(got.Companies) != len(want.Companies) || got.Companies[0] != want.Companies[0] {
		t.Errorf("companies differ: %+v vs %+v", got.Companies, want.Companies)
	}
	if len(got.DeckCards) != len(want.DeckCards) {
		t.Fatalf("deck size differs: %d vs %d", len(got.DeckCards), len(want.DeckCards))
	}
	for i := range want.DeckCards {
		if got.DeckCards[i] != want.DeckCards[i] {
			t.Errorf("deck order differs at %d", i)
		}
	}
}

func TestFilePersistenceLoadLegacySave(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir, fixtureDefs{})
	if err != nil {
		t.Fatal(err)
	}

	const legacy = `# GAME_INFO
currentPlayerIndex,0
numberOfPlayers,2

# PLAYERS
P1,Ana,RED,500,1,false,1,true
P2,Bia,BLUE,700,5,false,0,true

# JAIL_CARDS_OUT
getOutOfJailCardsOut,1
`
	if err := os.WriteFile(filepath.Join(dir, "old"+saveSuffix), []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := fp.Load("old")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Definition != fallbackDefinition {
		t.Errorf("definition %q", loaded.Definition)
	}
	// The single held release card came out of the fresh deck.
	if loaded.Engine.Deck().Size() != 2 {
		t.Errorf("deck size %d, want 2", loaded.Engine.Deck().Size())
	}
}

func TestFilePersistenceListAndDelete(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir, fixtureDefs{})
	if err != nil {
		t.Fatal(err)
	}

	if err := fp.Save(restoredGame(t, "a", midGameSnapshot())); err != nil {
		t.Fatal(err)
	}
	if err := fp.Save(restoredGame(t, "b", midGameSnapshot())); err != nil {
		t.Fatal(err)
	}
	// Unrelated files are not game saves.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 saves, got %v", ids)
	}
	joined := strings.Join(ids, ",")
	if !strings.Contains(joined, "a") || !strings.Contains(joined, "b") {
		t.Errorf("unexpected ids %v", ids)
	}

	if err := fp.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if fp.Exists("a") {
		t.Error("deleted save must not exist")
	}
	if err := fp.Delete("a"); err != ErrGameNotFound {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
	if _, err := fp.Load("missing"); err != ErrGameNotFound {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}
