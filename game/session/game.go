package session

import (
	"sync"
	"time"

	"github.com/ocastro/magnate/game/engine"
)

// Game is one running match: the engine plus session bookkeeping. The
// Definition name ties the game back to the board/deck pair it was built
// from, so a load can rebuild the same board.
type Game struct {
	ID             string
	Definition     string
	Engine         *engine.GameEngine
	CreatedAt      time.Time
	LastAccessedAt time.Time

	mu sync.Mutex
}

// Lock serializes access to the engine. The engine itself is not safe for
// concurrent use; every caller mutating or reading it holds this lock.
func (g *Game) Lock() { g.mu.Lock() }

// Unlock releases the game lock.
func (g *Game) Unlock() { g.mu.Unlock() }
