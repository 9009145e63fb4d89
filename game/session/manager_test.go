package session

import (
	"testing"
	"time"
)

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager()

	game, err := m.Create("", restoredGame(t, "", midGameSnapshot()).Engine, "classic")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if game.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if m.Count() != 1 {
		t.Errorf("count %d", m.Count())
	}

	got, err := m.Get(game.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != game {
		t.Error("Get must return the registered game")
	}

	if _, err := m.Create(game.ID, game.Engine, "classic"); err != ErrGameAlreadyExists {
		t.Errorf("expected ErrGameAlreadyExists, got %v", err)
	}
	if _, err := m.Get("missing"); err != ErrGameNotFound {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}

func TestManagerListOrderedByCreation(t *testing.T) {
	m := NewManager()
	first, err := m.Create("first", restoredGame(t, "first", midGameSnapshot()).Engine, "classic")
	if err != nil {
		t.Fatal(err)
	}
	first.CreatedAt = first.CreatedAt.Add(-time.Minute)
	if _, err := m.Create("second", restoredGame(t, "second", midGameSnapshot()).Engine, "classic"); err != nil {
		t.Fatal(err)
	}

	games := m.List()
	if len(games) != 2 || games[0].ID != "first" || games[1].ID != "second" {
		t.Errorf("unexpected order: %v, %v", games[0].ID, games[1].ID)
	}
}

func TestManagerDeleteAndCleanup(t *testing.T) {
	m := NewManager()
	if _, err := m.Create("g", restoredGame(t, "g", midGameSnapshot()).Engine, "classic"); err != nil {
		t.Fatal(err)
	}

	if err := m.Delete("g"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete("g"); err != ErrGameNotFound {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}

	stale, err := m.Create("stale", restoredGame(t, "stale", midGameSnapshot()).Engine, "classic")
	if err != nil {
		t.Fatal(err)
	}
	stale.LastAccessedAt = time.Now().Add(-2 * time.Hour)
	if _, err := m.Create("fresh", restoredGame(t, "fresh", midGameSnapshot()).Engine, "classic"); err != nil {
		t.Fatal(err)
	}

	if removed := m.CleanupExpired(time.Hour); removed != 1 {
		t.Errorf("removed %d, want 1", removed)
	}
	if _, err := m.Get("stale"); err != ErrGameNotFound {
		t.Error("stale game must be gone")
	}
	if _, err := m.Get("fresh"); err != nil {
		t.Error("fresh game must survive cleanup")
	}
}

func TestManagerPersistenceFlow(t *testing.T) {
	fp, err := NewFilePersistence(t.TempDir(), fixtureDefs{})
	if err != nil {
		t.Fatal(err)
	}
	m := NewManagerWithPersistence(fp)

	game, err := m.Create("g1", restoredGame(t, "g1", midGameSnapshot()).Engine, "classic")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Save(game.ID); err != nil {
		t.Fatalf("Save: %v", err)
	}

	saved, err := m.ListSaved()
	if err != nil || len(saved) != 1 {
		t.Fatalf("ListSaved: %v %v", saved, err)
	}

	// A second manager sees the persisted game.
	m2 := NewManagerWithPersistence(fp)
	loaded, err := m2.Get("g1")
	if err != nil {
		t.Fatalf("Get from persistence: %v", err)
	}
	if loaded.Definition != "classic" {
		t.Errorf("definition %q", loaded.Definition)
	}
	if m2.Count() != 1 {
		t.Error("loaded game must be cached in memory")
	}

	if err := m2.Delete("g1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if fp.Exists("g1") {
		t.Error("delete must remove the save file")
	}

	if err := m.Touch(game.ID); err != nil {
		t.Fatalf("Touch: %v", err)
	}
}

func TestManagerLoadSaved(t *testing.T) {
	fp, err := NewFilePersistence(t.TempDir(), fixtureDefs{})
	if err != nil {
		t.Fatal(err)
	}

	m := NewManagerWithPersistence(fp)
	for _, id := range []string{"g1", "g2"} {
		game, err := m.Create(id, restoredGame(t, id, midGameSnapshot()).Engine, "classic")
		if err != nil {
			t.Fatal(err)
		}
		if err := m.Save(game.ID); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	m2 := NewManagerWithPersistence(fp)
	if err := m2.LoadSaved(); err != nil {
		t.Fatalf("LoadSaved: %v", err)
	}
	if m2.Count() != 2 {
		t.Errorf("expected 2 games in memory, got %d", m2.Count())
	}

	// Loading again is a no-op for games already in memory.
	if err := m2.LoadSaved(); err != nil {
		t.Fatalf("second LoadSaved: %v", err)
	}
	if m2.Count() != 2 {
		t.Errorf("expected 2 games after reload, got %d", m2.Count())
	}

	// A manager without persistence has nothing to load.
	if err := NewManager().LoadSaved(); err != nil {
		t.Fatalf("LoadSaved without persistence: %v", err)
	}
}

func TestManagerSaveWithoutPersistence(t *testing.T) {
	m := NewManager()
	if _, err := m.Create("g", restoredGame(t, "g", midGameSnapshot()).Engine, "classic"); err != nil {
		t.Fatal(err)
	}
	if err := m.Save("g"); err == nil {
		t.Error("expected error when no persistence is configured")
	}
}
