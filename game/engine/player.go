package engine

import (
	"fmt"
	"strings"
)

// Color is a player's fixed display color.
type Color string

const (
	ColorRed    Color = "RED"
	ColorBlue   Color = "BLUE"
	ColorGreen  Color = "GREEN"
	ColorYellow Color = "YELLOW"
	ColorPurple Color = "PURPLE"
	ColorOrange Color = "ORANGE"
)

// ParseColor validates a color name.
func ParseColor(s string) (Color, error) {
	switch Color(s) {
	case ColorRed, ColorBlue, ColorGreen, ColorYellow, ColorPurple, ColorOrange:
		return Color(s), nil
	}
	return "", fmt.Errorf("unknown player color %q", s)
}

// Player holds one participant's mutable state. Identity is immutable; cash
// and properties are mutated only by the economy, position and jail state
// only by the game engine. A player is never removed from the game, only
// marked not alive.
type Player struct {
	id    string
	name  string
	color Color

	cash     int
	position int

	inJail       bool
	releaseCards int

	properties []*Square
	alive      bool
}

// NewPlayer creates a live player at position 0.
func NewPlayer(id, name string, color Color, initialCash int) (*Player, error) {
	if id == "" {
		return nil, fmt.Errorf("player id is required")
	}
	if name == "" {
		return nil, fmt.Errorf("player name is required")
	}
	// Names travel through comma-separated save lines.
	if strings.ContainsAny(name, ",\n") {
		return nil, fmt.Errorf("player name %q must not contain commas or newlines", name)
	}
	if initialCash < 0 {
		return nil, fmt.Errorf("initial cash must be >= 0, got %d", initialCash)
	}
	return &Player{
		id:    id,
		name:  name,
		color: color,
		cash:  initialCash,
		alive: true,
	}, nil
}

// ID returns the player's identifier.
func (p *Player) ID() string { return p.id }

// Name returns the player's display name.
func (p *Player) Name() string { return p.name }

// Color returns the player's color tag.
func (p *Player) Color() Color { return p.color }

// Cash returns the player's current balance.
func (p *Player) Cash() int { return p.cash }

// Position returns the player's board index.
func (p *Player) Position() int { return p.position }

// InJail reports whether the player is jailed.
func (p *Player) InJail() bool { return p.inJail }

// ReleaseCards returns the count of held get-out-of-jail cards.
func (p *Player) ReleaseCards() int { return p.releaseCards }

// Alive reports whether the player is still in the game.
func (p *Player) Alive() bool { return p.alive }

// Properties returns the player's holdings in acquisition order.
func (p *Player) Properties() []*Square {
	out := make([]*Square, len(p.properties))
	copy(out, p.properties)
	return out
}

// PropertyIndexes returns the board indexes of the player's holdings.
func (p *Player) PropertyIndexes() []int {
	out := make([]int, len(p.properties))
	for i, sq := range p.properties {
		out[i] = sq.index
	}
	return out
}

// CanAfford reports whether the player's cash covers amount.
func (p *Player) CanAfford(amount int) bool { return amount >= 0 && p.cash >= amount }

// Shortfall returns how much cash the player is missing to cover amount.
func (p *Player) Shortfall(amount int) int {
	if p.cash >= amount {
		return 0
	}
	return amount - p.cash
}

// Ref returns the player's immutable identity as a DTO.
func (p *Player) Ref() PlayerRef {
	return PlayerRef{ID: p.id, Name: p.name, Color: p.color}
}

func (p *Player) credit(amount int) error {
	if amount < 0 {
		return fmt.Errorf("credit amount must be >= 0, got %d", amount)
	}
	p.cash += amount
	return nil
}

// debit never drives the balance negative; the economy enforces liquidity
// before any debit reaches the bank.
func (p *Player) debit(amount int) error {
	if amount < 0 {
		return fmt.Errorf("debit amount must be >= 0, got %d", amount)
	}
	if amount > p.cash {
		return fmt.Errorf("insufficient balance for debit: %d > %d", amount, p.cash)
	}
	p.cash -= amount
	return nil
}

func (p *Player) moveTo(index int) error {
	if index < 0 {
		return fmt.Errorf("board index must be >= 0, got %d", index)
	}
	p.position = index
	return nil
}

func (p *Player) setInJail(flag bool) { p.inJail = flag }

func (p *Player) grantReleaseCard() { p.releaseCards++ }

func (p *Player) consumeReleaseCard() bool {
	if p.releaseCards == 0 {
		return false
	}
	p.releaseCards--
	return true
}

func (p *Player) addProperty(sq *Square) {
	for _, owned := range p.properties {
		if owned == sq {
			return
		}
	}
	p.properties = append(p.properties, sq)
}

func (p *Player) removeProperty(sq *Square) {
	for i, owned := range p.properties {
		if owned == sq {
			p.properties = append(p.properties[:i], p.properties[i+1:]...)
			return
		}
	}
}

func (p *Player) markBankrupt() {
	p.alive = false
	p.cash = 0
}

func (p *Player) String() string {
	return fmt.Sprintf("Player{id=%s, name=%s, cash=%d, pos=%d, alive=%t}", p.id, p.name, p.cash, p.position, p.alive)
}
