package engine

import "testing"

func mustStreet(t *testing.T, index, price int) *Square {
	t.Helper()
	sq, err := NewStreetSquare(index, "Test Street", price)
	if err != nil {
		t.Fatalf("NewStreetSquare: %v", err)
	}
	return sq
}

func mustCompany(t *testing.T, index, price, multiplier int) *Square {
	t.Helper()
	sq, err := NewCompanySquare(index, "Test Company", price, multiplier)
	if err != nil {
		t.Fatalf("NewCompanySquare: %v", err)
	}
	return sq
}

func TestStreetRentFormula(t *testing.T) {
	sq := mustStreet(t, 0, 200)

	// base = round(20), per house = round(30), hotel = round(60)
	if rent := sq.Rent(0); rent != 20 {
		t.Errorf("expected bare rent 20, got %d", rent)
	}
	sq.houses = 1
	if rent := sq.Rent(0); rent != 50 {
		t.Errorf("expected 1-house rent 50, got %d", rent)
	}
	sq.houses = 4
	sq.hotel = true
	if rent := sq.Rent(0); rent != 200 {
		t.Errorf("expected full rent 200, got %d", rent)
	}
}

func TestStreetRentRoundsHalfUp(t *testing.T) {
	sq := mustStreet(t, 0, 125)

	// base = round(12.5) = 13, per house = round(18.75) = 19
	sq.houses = 1
	if rent := sq.Rent(0); rent != 32 {
		t.Errorf("expected rent 32, got %d", rent)
	}
}

func TestHouseAndHotelCost(t *testing.T) {
	sq := mustStreet(t, 0, 125)
	if cost := sq.HouseCost(); cost != 63 { // round(62.5)
		t.Errorf("expected house cost 63, got %d", cost)
	}
	if cost := sq.HotelCost(); cost != 125 {
		t.Errorf("expected hotel cost 125, got %d", cost)
	}
}

func TestConstructionLimits(t *testing.T) {
	sq := mustStreet(t, 0, 100)

	if sq.CanBuildHotel() {
		t.Error("hotel must require at least one house")
	}
	for i := 0; i < MaxHouses; i++ {
		if !sq.CanBuildHouse() {
			t.Fatalf("expected house %d to be allowed", i+1)
		}
		if err := sq.buildHouse(); err != nil {
			t.Fatalf("buildHouse: %v", err)
		}
	}
	if sq.CanBuildHouse() {
		t.Error("fifth house must be rejected")
	}
	if err := sq.buildHouse(); err == nil {
		t.Error("expected error building past the cap")
	}

	if !sq.CanBuildHotel() {
		t.Error("hotel should be allowed with houses present")
	}
	if err := sq.buildHotel(); err != nil {
		t.Fatalf("buildHotel: %v", err)
	}
	if sq.CanBuildHotel() {
		t.Error("second hotel must be rejected")
	}
}

func TestTotalInvestment(t *testing.T) {
	sq := mustStreet(t, 0, 200)
	if inv := sq.TotalInvestment(); inv != 0 {
		t.Errorf("unowned street investment must be 0, got %d", inv)
	}

	owner, _ := NewPlayer("P1", "Ana", ColorRed, 0)
	sq.setOwner(owner)
	sq.houses = 2
	sq.hotel = true
	// 200 + 2*100 + 200
	if inv := sq.TotalInvestment(); inv != 600 {
		t.Errorf("expected investment 600, got %d", inv)
	}

	company := mustCompany(t, 1, 150, 10)
	company.setOwner(owner)
	if inv := company.TotalInvestment(); inv != 150 {
		t.Errorf("company investment must equal price, got %d", inv)
	}
}

func TestCompanyRentScalesWithRoll(t *testing.T) {
	sq := mustCompany(t, 0, 150, 12)
	if rent := sq.Rent(7); rent != 84 {
		t.Errorf("expected rent 84, got %d", rent)
	}
	if rent := sq.Rent(0); rent != 0 {
		t.Errorf("expected rent 0 without a roll, got %d", rent)
	}
}

func TestRemoveOwnerResetsConstruction(t *testing.T) {
	sq := mustStreet(t, 0, 100)
	owner, _ := NewPlayer("P1", "Ana", ColorRed, 0)
	other, _ := NewPlayer("P2", "Bia", ColorBlue, 0)

	sq.setOwner(owner)
	sq.houses = 3
	sq.hotel = true

	sq.removeOwner(other) // not the owner, no effect
	if !sq.HasOwner() || sq.houses != 3 {
		t.Fatal("removeOwner must ignore non-owners")
	}

	sq.removeOwner(owner)
	if sq.HasOwner() || sq.houses != 0 || sq.hotel {
		t.Error("removeOwner must clear ownership and construction")
	}
}

func TestCompanyConstructorValidation(t *testing.T) {
	if _, err := NewCompanySquare(0, "C", 100, 0); err == nil {
		t.Error("expected error for non-positive multiplier")
	}
	if _, err := NewStreetSquare(0, "S", -5); err == nil {
		t.Error("expected error for negative price")
	}
}
