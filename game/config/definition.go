package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ocastro/magnate/game/engine"
)

// Board row types as they appear in the CSV.
const (
	RowStart    = "START"
	RowJail     = "JAIL"
	RowParking  = "PARKING"
	RowStreet   = "STREET"
	RowCompany  = "COMPANY"
	RowMoney    = "MONEY"
	RowGoToJail = "GOTOJAIL"
	RowChance   = "CHANCE"
)

// BoardRow is one parsed line of a board definition.
type BoardRow struct {
	Index      int
	Type       string
	Name       string
	Price      int
	Multiplier int
	Value      int
}

// DeckRow is one parsed line of a deck definition.
type DeckRow struct {
	Index int
	Kind  engine.CardKind
	Value int
}

// ParseBoardCSV reads board rows from r. Each record must carry the six
// columns index,type,name,price,multiplier,value; unused numeric columns
// may be left empty. Structural rules are checked by CheckBoardRows.
func ParseBoardCSV(r io.Reader) ([]BoardRow, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 6
	reader.TrimLeadingSpace = true

	var rows []BoardRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading board definition: %w", err)
		}

		index, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("board row %q: bad index: %w", record[0], err)
		}
		row := BoardRow{
			Index: index,
			Type:  strings.ToUpper(strings.TrimSpace(record[1])),
			Name:  strings.TrimSpace(record[2]),
		}
		if row.Price, err = optionalInt(record[3]); err != nil {
			return nil, fmt.Errorf("board row %d: bad price: %w", index, err)
		}
		if row.Multiplier, err = optionalInt(record[4]); err != nil {
			return nil, fmt.Errorf("board row %d: bad multiplier: %w", index, err)
		}
		if row.Value, err = optionalInt(record[5]); err != nil {
			return nil, fmt.Errorf("board row %d: bad value: %w", index, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseDeckCSV reads deck rows from r (columns index,type,value).
func ParseDeckCSV(r io.Reader) ([]DeckRow, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	var rows []DeckRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading deck definition: %w", err)
		}

		index, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("deck row %q: bad index: %w", record[0], err)
		}
		kind, err := engine.ParseCardKind(strings.ToUpper(strings.TrimSpace(record[1])))
		if err != nil {
			return nil, fmt.Errorf("deck row %d: %w", index, err)
		}
		value, err := optionalInt(record[2])
		if err != nil {
			return nil, fmt.Errorf("deck row %d: bad value: %w", index, err)
		}
		rows = append(rows, DeckRow{Index: index, Kind: kind, Value: value})
	}
	return rows, nil
}

func optionalInt(field string) (int, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil
	}
	return strconv.Atoi(field)
}

// CheckBoardRows returns every structural problem in a board definition.
// An empty slice means the rows build a valid board.
func CheckBoardRows(rows []BoardRow) []string {
	var problems []string
	if len(rows) == 0 {
		return append(problems, "board definition is empty")
	}

	jailCount := 0
	for i, row := range rows {
		if row.Index != i {
			problems = append(problems, fmt.Sprintf("row %d: indices must be contiguous from 0, got %d", i, row.Index))
		}
		if row.Name == "" {
			problems = append(problems, fmt.Sprintf("row %d: name is empty", row.Index))
		}
		switch row.Type {
		case RowStart:
			if i != 0 {
				problems = append(problems, fmt.Sprintf("row %d: START must be the first square", row.Index))
			}
		case RowJail:
			jailCount++
		case RowParking, RowGoToJail, RowChance:
		case RowMoney:
			if row.Value == 0 {
				problems = append(problems, fmt.Sprintf("row %d: MONEY square needs a non-zero value", row.Index))
			}
		case RowStreet:
			if row.Price <= 0 {
				problems = append(problems, fmt.Sprintf("row %d: STREET price must be positive, got %d", row.Index, row.Price))
			}
		case RowCompany:
			if row.Price <= 0 {
				problems = append(problems, fmt.Sprintf("row %d: COMPANY price must be positive, got %d", row.Index, row.Price))
			}
			if row.Multiplier <= 0 {
				problems = append(problems, fmt.Sprintf("row %d: COMPANY multiplier must be positive, got %d", row.Index, row.Multiplier))
			}
		default:
			problems = append(problems, fmt.Sprintf("row %d: unknown square type %q", row.Index, row.Type))
		}
	}
	if jailCount != 1 {
		problems = append(problems, fmt.Sprintf("board needs exactly one JAIL square, got %d", jailCount))
	}
	return problems
}

// CheckDeckRows returns every structural problem in a deck definition.
func CheckDeckRows(rows []DeckRow) []string {
	var problems []string
	if len(rows) == 0 {
		return append(problems, "deck definition is empty")
	}
	for i, row := range rows {
		if row.Index != i {
			problems = append(problems, fmt.Sprintf("row %d: indices must be contiguous from 0, got %d", i, row.Index))
		}
		switch row.Kind {
		case engine.CardPayBank, engine.CardReceiveBank, engine.CardPayAll, engine.CardReceiveAll:
			if row.Value <= 0 {
				problems = append(problems, fmt.Sprintf("row %d: %s card needs a positive value", row.Index, row.Kind))
			}
		case engine.CardGoToJail, engine.CardGetOutOfJail:
			if row.Value != 0 {
				problems = append(problems, fmt.Sprintf("row %d: %s card must not carry a value", row.Index, row.Kind))
			}
		}
	}
	return problems
}

// BuildBoard turns checked rows into a fresh engine board.
func BuildBoard(rows []BoardRow) (*engine.Board, error) {
	if problems := CheckBoardRows(rows); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(problems, "; "))
	}

	squares := make([]*engine.Square, 0, len(rows))
	jailIndex := -1
	for _, row := range rows {
		var (
			sq  *engine.Square
			err error
		)
		switch row.Type {
		case RowStart, RowParking:
			sq = engine.NewPlainSquare(row.Index, row.Name)
		case RowJail:
			sq = engine.NewPlainSquare(row.Index, row.Name)
			jailIndex = row.Index
		case RowGoToJail:
			sq = engine.NewGoToJailSquare(row.Index, row.Name)
		case RowChance:
			sq = engine.NewChanceSquare(row.Index, row.Name)
		case RowMoney:
			sq = engine.NewMoneySquare(row.Index, row.Name, row.Value)
		case RowStreet:
			sq, err = engine.NewStreetSquare(row.Index, row.Name, row.Price)
		case RowCompany:
			sq, err = engine.NewCompanySquare(row.Index, row.Name, row.Price, row.Multiplier)
		}
		if err != nil {
			return nil, fmt.Errorf("building square %d: %w", row.Index, err)
		}
		squares = append(squares, sq)
	}
	return engine.NewBoard(squares, jailIndex)
}

// BuildDeck turns checked rows into a fresh engine deck in definition order.
// Callers shuffle when starting a new game.
func BuildDeck(rows []DeckRow) (*engine.Deck, error) {
	if problems := CheckDeckRows(rows); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(problems, "; "))
	}
	cards := make([]engine.Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, engine.Card{ID: row.Index + 1, Kind: row.Kind, Value: row.Value})
	}
	return engine.NewDeck(cards)
}
