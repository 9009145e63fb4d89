package engine

import "fmt"

// BankID is the sentinel identifier recorded for the bank side of a transfer.
const BankID = "BANK"

// Transaction is the immutable record of one money movement. Exactly one is
// produced per transfer, capturing both post-transfer balances.
type Transaction struct {
	From             string `json:"from"` // player id or BankID
	FromName         string `json:"from_name,omitempty"`
	FromColor        Color  `json:"from_color,omitempty"`
	To               string `json:"to"`
	ToName           string `json:"to_name,omitempty"`
	ToColor          Color  `json:"to_color,omitempty"`
	Amount           int    `json:"amount"`
	FromBalanceAfter int    `json:"from_balance_after"`
	ToBalanceAfter   int    `json:"to_balance_after"`
}

// Bank is the sole holder of system cash. Every money movement in the game
// goes through Transfer, which appends one transaction record.
type Bank struct {
	cash         int
	transactions []Transaction
}

// NewBank creates a bank with the given cash reserve.
func NewBank(initialCash int) (*Bank, error) {
	if initialCash < 0 {
		return nil, fmt.Errorf("initial bank cash must be >= 0, got %d", initialCash)
	}
	return &Bank{cash: initialCash}, nil
}

// Cash returns the bank's current reserve.
func (b *Bank) Cash() int { return b.cash }

// Transfer moves amount between two parties. A nil player stands for the
// bank; at least one side must be a player. Player-side insufficiency is a
// broken precondition here (the economy enforces liquidity first); the only
// expected failure is the bank itself running dry as payer.
func (b *Bank) Transfer(from, to *Player, amount int) error {
	if amount < 0 {
		return fmt.Errorf("transfer amount must be >= 0, got %d", amount)
	}
	if from == nil && to == nil {
		return fmt.Errorf("at least one side of a transfer must be a player")
	}

	switch {
	case from == nil: // BANK -> player
		if b.cash < amount {
			return fmt.Errorf("bank has insufficient cash: %d < %d", b.cash, amount)
		}
		if err := to.credit(amount); err != nil {
			return err
		}
		b.cash -= amount
		b.transactions = append(b.transactions, Transaction{
			From:             BankID,
			To:               to.id,
			ToName:           to.name,
			ToColor:          to.color,
			Amount:           amount,
			FromBalanceAfter: b.cash,
			ToBalanceAfter:   to.cash,
		})

	case to == nil: // player -> BANK
		if err := from.debit(amount); err != nil {
			return err
		}
		b.cash += amount
		b.transactions = append(b.transactions, Transaction{
			From:             from.id,
			FromName:         from.name,
			FromColor:        from.color,
			To:               BankID,
			Amount:           amount,
			FromBalanceAfter: from.cash,
			ToBalanceAfter:   b.cash,
		})

	default: // player -> player, bank cash unchanged
		if err := from.debit(amount); err != nil {
			return err
		}
		if err := to.credit(amount); err != nil {
			return err
		}
		b.transactions = append(b.transactions, Transaction{
			From:             from.id,
			FromName:         from.name,
			FromColor:        from.color,
			To:               to.id,
			ToName:           to.name,
			ToColor:          to.color,
			Amount:           amount,
			FromBalanceAfter: from.cash,
			ToBalanceAfter:   to.cash,
		})
	}
	return nil
}

// DrainTransactions returns and clears the records accumulated since the
// previous call. This is the only channel for observing money movement.
func (b *Bank) DrainTransactions() []Transaction {
	out := make([]Transaction, len(b.transactions))
	copy(out, b.transactions)
	b.transactions = b.transactions[:0]
	return out
}
