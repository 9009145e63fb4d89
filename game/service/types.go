package service

import (
	"time"

	"github.com/ocastro/magnate/game/engine"
)

// PlayerSpec describes one player joining a new game.
type PlayerSpec struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PlayerState is the serializable view of one player.
type PlayerState struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Color        engine.Color `json:"color"`
	Cash         int          `json:"cash"`
	Position     int          `json:"position"`
	InJail       bool         `json:"in_jail"`
	ReleaseCards int          `json:"release_cards"`
	Alive        bool         `json:"alive"`
	Properties   []int        `json:"properties"`
}

// SquareState is the serializable view of one board square. Price, owner
// and construction fields are only meaningful for ownable kinds, amount
// only for money squares.
type SquareState struct {
	Index      int               `json:"index"`
	Name       string            `json:"name"`
	Kind       engine.SquareKind `json:"kind"`
	Amount     int               `json:"amount,omitempty"`
	Price      int               `json:"price,omitempty"`
	Owner      *engine.PlayerRef `json:"owner,omitempty"`
	Houses     int               `json:"houses,omitempty"`
	HasHotel   bool              `json:"has_hotel,omitempty"`
	Multiplier int               `json:"multiplier,omitempty"`
}

// GameState is the full snapshot a client renders from.
type GameState struct {
	GameID             string             `json:"game_id"`
	Definition         string             `json:"definition"`
	CurrentPlayerIndex int                `json:"current_player_index"`
	CurrentPlayerID    string             `json:"current_player_id"`
	RollAllowed        bool               `json:"roll_allowed"`
	HasBuiltThisTurn   bool               `json:"has_built_this_turn"`
	LastRoll           *engine.DiceRoll   `json:"last_roll,omitempty"`
	Players            []PlayerState      `json:"players"`
	Squares            []SquareState      `json:"squares"`
	BankCash           int                `json:"bank_cash"`
	AliveCount         int                `json:"alive_count"`
	Winners            []engine.PlayerRef `json:"winners"`
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID             string     `json:"id"`
	Definition     string     `json:"definition"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	State          *GameState `json:"state,omitempty"`
}

// ActionResult is the outcome of one turn action. Reason is only set when
// Success is false; Transactions lists the money movements the action
// caused, in order.
type ActionResult struct {
	Success      bool                 `json:"success"`
	Reason       string               `json:"reason,omitempty"`
	Transactions []engine.Transaction `json:"transactions"`
	State        *GameState           `json:"state"`
}

// RollResult is an ActionResult plus the dice outcome.
type RollResult struct {
	ActionResult
	Roll          *engine.DiceRoll `json:"roll,omitempty"`
	LandedSquare  string           `json:"landed_square,omitempty"`
	LandedOwnable string           `json:"landed_ownable,omitempty"`
}

// PropertyInfo carries the detail DTO of one ownable square. Exactly one
// of Street and Company is set.
type PropertyInfo struct {
	Street  *engine.StreetInfo  `json:"street,omitempty"`
	Company *engine.CompanyInfo `json:"company,omitempty"`
}
