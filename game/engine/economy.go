package engine

import (
	"fmt"
	"math"
)

// Money rules.
const (
	// PassStartBonus is credited when a move wraps past the start square.
	PassStartBonus = 200

	// buybackRate is the fraction of total invested value the bank pays
	// when a property is liquidated.
	buybackRate = 0.90
)

// Economy applies every financial rule on top of the bank: purchases,
// construction, rent, transfers, liquidity enforcement and bankruptcy.
type Economy struct {
	bank *Bank
}

// NewEconomy creates the economy over a bank.
func NewEconomy(bank *Bank) (*Economy, error) {
	if bank == nil {
		return nil, fmt.Errorf("bank is required")
	}
	return &Economy{bank: bank}, nil
}

// Bank returns the underlying bank.
func (ec *Economy) Bank() *Bank { return ec.bank }

// ChargeRent collects an already computed rent from the visitor and credits
// the owner. Liquidity is enforced on the visitor first; if that ends in
// bankruptcy the owner receives nothing.
func (ec *Economy) ChargeRent(visitor, owner *Player, rent int) error {
	if rent <= 0 {
		return nil
	}
	ok, err := ec.LiquidateOrBankruptIfNeeded(visitor, rent)
	if err != nil || !ok {
		return err
	}
	return ec.bank.Transfer(visitor, owner, rent)
}

// AttemptBuy purchases the property for the player. Rejected when the
// property is already owned or the player cannot afford the price; both
// mutations (debit and title transfer) happen together or not at all.
func (ec *Economy) AttemptBuy(player *Player, sq *Square) (bool, error) {
	if !sq.IsOwnable() {
		return false, fmt.Errorf("square %q is not ownable", sq.name)
	}
	if sq.HasOwner() {
		return false, nil
	}
	if !player.CanAfford(sq.price) {
		return false, nil
	}
	if err := ec.bank.Transfer(player, nil, sq.price); err != nil {
		return false, err
	}
	sq.setOwner(player)
	player.addProperty(sq)
	return true, nil
}

// AttemptBuildHouse adds one house to the player's street.
func (ec *Economy) AttemptBuildHouse(player *Player, sq *Square) (bool, error) {
	if !sq.HasOwner() || sq.owner != player {
		return false, nil
	}
	if !sq.CanBuildHouse() {
		return false, nil
	}
	cost := sq.HouseCost()
	if !player.CanAfford(cost) {
		return false, nil
	}
	if err := ec.bank.Transfer(player, nil, cost); err != nil {
		return false, err
	}
	if err := sq.buildHouse(); err != nil {
		return false, err
	}
	return true, nil
}

// AttemptBuildHotel adds the hotel to the player's street.
func (ec *Economy) AttemptBuildHotel(player *Player, sq *Square) (bool, error) {
	if !sq.HasOwner() || sq.owner != player {
		return false, nil
	}
	if !sq.CanBuildHotel() {
		return false, nil
	}
	cost := sq.HotelCost()
	if !player.CanAfford(cost) {
		return false, nil
	}
	if err := ec.bank.Transfer(player, nil, cost); err != nil {
		return false, err
	}
	if err := sq.buildHotel(); err != nil {
		return false, err
	}
	return true, nil
}

// Transfer moves amount between two players, enforcing liquidity on the
// paying side. A no-op for non-positive amounts or a bankrupt payer.
func (ec *Economy) Transfer(from, to *Player, amount int) error {
	if amount <= 0 {
		return nil
	}
	if !from.alive {
		return nil
	}
	ok, err := ec.LiquidateOrBankruptIfNeeded(from, amount)
	if err != nil || !ok {
		return err
	}
	return ec.bank.Transfer(from, to, amount)
}

// ApplyPayment moves amount from the player to the bank, enforcing liquidity.
func (ec *Economy) ApplyPayment(player *Player, amount int) error {
	if amount <= 0 {
		return nil
	}
	ok, err := ec.LiquidateOrBankruptIfNeeded(player, amount)
	if err != nil || !ok {
		return err
	}
	return ec.bank.Transfer(player, nil, amount)
}

// ApplyIncome moves amount from the bank to the player.
func (ec *Economy) ApplyIncome(player *Player, amount int) error {
	if amount <= 0 {
		return nil
	}
	return ec.bank.Transfer(nil, player, amount)
}

// CreditPassStart pays the fixed bonus for crossing the start square.
func (ec *Economy) CreditPassStart(player *Player) error {
	return ec.ApplyIncome(player, PassStartBonus)
}

// LiquidateOrBankruptIfNeeded makes sure the player can cover required.
// When cash falls short, properties are liquidated to the bank in ownership
// order at the buy-back rate until the shortfall is covered. If everything
// is sold and the shortfall remains, the player goes bankrupt and false is
// returned: the pending obligation must then be dropped entirely.
func (ec *Economy) LiquidateOrBankruptIfNeeded(player *Player, required int) (bool, error) {
	if required < 0 {
		return false, fmt.Errorf("required amount must be >= 0, got %d", required)
	}
	if player.CanAfford(required) {
		return true, nil
	}

	missing := player.Shortfall(required)
	for _, sq := range player.Properties() {
		received, err := ec.buybackToPlayer(sq, player)
		if err != nil {
			return false, err
		}
		missing -= received
		if missing <= 0 {
			return true, nil
		}
	}

	ec.DeclareBankruptcy(player)
	return false, nil
}

// DeclareBankruptcy returns all remaining titles to the bank without payment
// and removes the player from the game. The player's cash is zeroed.
func (ec *Economy) DeclareBankruptcy(player *Player) {
	for _, sq := range player.Properties() {
		player.removeProperty(sq)
		sq.removeOwner(player)
	}
	player.markBankrupt()
}

// EvaluateSellValue previews the buy-back amount for a property.
func (ec *Economy) EvaluateSellValue(sq *Square) int {
	return int(math.Floor(float64(sq.TotalInvestment()) * buybackRate))
}

// AttemptSell voluntarily liquidates the player's property to the bank.
func (ec *Economy) AttemptSell(player *Player, sq *Square) (bool, error) {
	if !sq.HasOwner() || sq.owner != player {
		return false, nil
	}
	if _, err := ec.buybackToPlayer(sq, player); err != nil {
		return false, err
	}
	return true, nil
}

// buybackToPlayer sells the property back to the bank: the player receives
// the buy-back value and the title returns to the bank with construction
// cleared. Returns the amount credited.
func (ec *Economy) buybackToPlayer(sq *Square, player *Player) (int, error) {
	received := ec.EvaluateSellValue(sq)
	if err := ec.bank.Transfer(nil, player, received); err != nil {
		return 0, err
	}
	player.removeProperty(sq)
	sq.removeOwner(player)
	return received, nil
}

// DrainTransactions returns and clears the bank's accumulated records.
func (ec *Economy) DrainTransactions() []Transaction {
	return ec.bank.DrainTransactions()
}
