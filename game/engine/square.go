package engine

import (
	"fmt"
	"math"
)

// SquareKind identifies the closed set of square variants.
type SquareKind string

const (
	KindPlain    SquareKind = "plain"
	KindChance   SquareKind = "chance"
	KindGoToJail SquareKind = "go_to_jail"
	KindMoney    SquareKind = "money"
	KindStreet   SquareKind = "street"
	KindCompany  SquareKind = "company"
)

// Construction limits for street squares.
const (
	MaxHouses = 4

	baseRentRate  = 0.10
	houseRentRate = 0.15
	hotelRentRate = 0.30
	houseCostRate = 0.50
)

// Square is one position on the board. The kind tag selects which payload
// fields are meaningful: amount for money squares, price/owner and the
// construction or multiplier state for ownables. Kind never changes after
// construction; ownership and construction state mutate only through the
// economy.
type Square struct {
	index int
	name  string
	kind  SquareKind

	// money squares: positive is income, negative a tax
	amount int

	// ownables (street, company)
	price      int
	owner      *Player
	houses     int
	hotel      bool
	multiplier int
}

// NewPlainSquare creates a visit-only square with no landing effect.
func NewPlainSquare(index int, name string) *Square {
	return &Square{index: index, name: name, kind: KindPlain}
}

// NewChanceSquare creates a square that draws and applies a chance card.
func NewChanceSquare(index int, name string) *Square {
	return &Square{index: index, name: name, kind: KindChance}
}

// NewGoToJailSquare creates a square that sends the visitor straight to jail.
func NewGoToJailSquare(index int, name string) *Square {
	return &Square{index: index, name: name, kind: KindGoToJail}
}

// NewMoneySquare creates a square paying (amount > 0) or charging
// (amount < 0) a fixed value on landing.
func NewMoneySquare(index int, name string, amount int) *Square {
	return &Square{index: index, name: name, kind: KindMoney, amount: amount}
}

// NewStreetSquare creates a purchasable street with house/hotel construction.
func NewStreetSquare(index int, name string, price int) (*Square, error) {
	if price < 0 {
		return nil, fmt.Errorf("street price must be >= 0, got %d", price)
	}
	return &Square{index: index, name: name, kind: KindStreet, price: price}, nil
}

// NewCompanySquare creates a purchasable company whose rent scales with the
// visitor's dice roll.
func NewCompanySquare(index int, name string, price, multiplier int) (*Square, error) {
	if price < 0 {
		return nil, fmt.Errorf("company price must be >= 0, got %d", price)
	}
	if multiplier <= 0 {
		return nil, fmt.Errorf("company multiplier must be positive, got %d", multiplier)
	}
	return &Square{index: index, name: name, kind: KindCompany, price: price, multiplier: multiplier}, nil
}

// Index returns the square's board position.
func (s *Square) Index() int { return s.index }

// Name returns the square's display name.
func (s *Square) Name() string { return s.name }

// Kind returns the square's variant tag.
func (s *Square) Kind() SquareKind { return s.kind }

// Amount returns the cash delta of a money square (0 for other kinds).
func (s *Square) Amount() int { return s.amount }

// IsOwnable reports whether the square can be purchased.
func (s *Square) IsOwnable() bool { return s.kind == KindStreet || s.kind == KindCompany }

// HasOwner reports whether an ownable square currently has an owner.
func (s *Square) HasOwner() bool { return s.owner != nil }

// Owner returns the owning player, or nil.
func (s *Square) Owner() *Player { return s.owner }

// Price returns the purchase price of an ownable square.
func (s *Square) Price() int { return s.price }

// Houses returns the house count of a street (0..4).
func (s *Square) Houses() int { return s.houses }

// HasHotel reports whether a street carries a hotel.
func (s *Square) HasHotel() bool { return s.hotel }

// Multiplier returns the rent multiplier of a company square.
func (s *Square) Multiplier() int { return s.multiplier }

// CanBuildHouse reports whether one more house fits on this street.
func (s *Square) CanBuildHouse() bool {
	return s.kind == KindStreet && s.houses < MaxHouses
}

// CanBuildHotel reports whether a hotel can be built. A hotel requires at
// least one house and only one hotel may exist.
func (s *Square) CanBuildHotel() bool {
	return s.kind == KindStreet && s.houses >= 1 && !s.hotel
}

// HouseCost is 50% of the street price, rounded half-up.
func (s *Square) HouseCost() int { return roundHalfUp(float64(s.price) * houseCostRate) }

// HotelCost is the full street price.
func (s *Square) HotelCost() int { return s.price }

// TotalInvestment is everything the current owner has sunk into the square:
// the price plus construction spend. Zero when unowned.
func (s *Square) TotalInvestment() int {
	if s.owner == nil {
		return 0
	}
	switch s.kind {
	case KindStreet:
		invested := s.price + s.houses*s.HouseCost()
		if s.hotel {
			invested += s.HotelCost()
		}
		return invested
	case KindCompany:
		return s.price
	default:
		return 0
	}
}

// Rent computes the rent a visitor owes. lastRollSum is only consulted by
// company squares, which charge multiplier x the visitor's roll.
func (s *Square) Rent(lastRollSum int) int {
	switch s.kind {
	case KindStreet:
		base := roundHalfUp(float64(s.price) * baseRentRate)
		perHouse := roundHalfUp(float64(s.price) * houseRentRate)
		rent := base + perHouse*s.houses
		if s.hotel {
			rent += roundHalfUp(float64(s.price) * hotelRentRate)
		}
		return rent
	case KindCompany:
		return s.multiplier * lastRollSum
	default:
		return 0
	}
}

func (s *Square) buildHouse() error {
	if !s.CanBuildHouse() {
		return fmt.Errorf("cannot build another house on %q", s.name)
	}
	s.houses++
	return nil
}

func (s *Square) buildHotel() error {
	if !s.CanBuildHotel() {
		return fmt.Errorf("cannot build a hotel on %q", s.name)
	}
	s.hotel = true
	return nil
}

func (s *Square) setOwner(p *Player) { s.owner = p }

// removeOwner clears ownership if held by target, resetting construction.
func (s *Square) removeOwner(target *Player) {
	if s.owner == nil || s.owner != target {
		return
	}
	if s.kind == KindStreet {
		s.houses = 0
		s.hotel = false
	}
	s.owner = nil
}

// onLand resolves the landing effect for the visiting player.
func (s *Square) onLand(p *Player, e *GameEngine) error {
	switch s.kind {
	case KindPlain:
		return nil
	case KindChance:
		return e.drawAndApplyCard(p)
	case KindGoToJail:
		return e.sendToJail(p)
	case KindMoney:
		switch {
		case s.amount > 0:
			return e.economy.ApplyIncome(p, s.amount)
		case s.amount < 0:
			return e.economy.ApplyPayment(p, -s.amount)
		default:
			return nil
		}
	case KindStreet, KindCompany:
		if s.owner == nil || s.owner == p {
			return nil
		}
		return e.economy.ChargeRent(p, s.owner, s.Rent(e.lastRollSum()))
	default:
		return fmt.Errorf("unknown square kind %q", s.kind)
	}
}

func roundHalfUp(v float64) int { return int(math.Round(v)) }
