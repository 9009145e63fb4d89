package engine

import (
	"fmt"
	"math/rand"
)

// DiceRoll represents one throw of two six-sided dice.
type DiceRoll struct {
	D1 int `json:"d1"`
	D2 int `json:"d2"`
}

// NewDiceRoll builds a roll from explicit die values, validating the 1..6 range.
func NewDiceRoll(d1, d2 int) (DiceRoll, error) {
	if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return DiceRoll{}, fmt.Errorf("dice values must be between 1 and 6, got %d and %d", d1, d2)
	}
	return DiceRoll{D1: d1, D2: d2}, nil
}

// randomRoll throws both dice using the provided source.
func randomRoll(rng *rand.Rand) DiceRoll {
	return DiceRoll{
		D1: rng.Intn(6) + 1,
		D2: rng.Intn(6) + 1,
	}
}

// Sum returns the combined value of both dice.
func (r DiceRoll) Sum() int { return r.D1 + r.D2 }

// IsDouble reports whether both dice show the same value.
func (r DiceRoll) IsDouble() bool { return r.D1 == r.D2 }

func (r DiceRoll) String() string {
	return fmt.Sprintf("DiceRoll{d1=%d, d2=%d, sum=%d, double=%t}", r.D1, r.D2, r.Sum(), r.IsDouble())
}
