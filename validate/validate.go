// Command validate checks the board and deck CSV definitions in the
// ../configs directory. For every <name>.board.csv / <name>.deck.csv pair
// it verifies:
//   - CSV structure and column types
//   - Known square types (START, JAIL, PARKING, STREET, COMPANY, MONEY,
//     GOTOJAIL, CHANCE) and card kinds
//   - Exactly one JAIL square and contiguous indices from 0
//   - Positive prices and multipliers, non-zero money values
//   - That the pair actually builds a playable board and deck
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ocastro/magnate/game/config"
)

// ValidationResult captures the outcome of validating one definition pair.
// If Valid is true, Errors holds informational messages; otherwise it
// accumulates the problems that were found.
type ValidationResult struct {
	Name   string
	Valid  bool
	Errors []string
}

// validateDefinition loads and validates one board/deck pair by name.
func validateDefinition(configDir, name string) ValidationResult {
	result := ValidationResult{
		Name:   name,
		Valid:  true,
		Errors: []string{},
	}

	boardRows, err := parseBoard(filepath.Join(configDir, name+".board.csv"))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}
	deckRows, err := parseDeck(filepath.Join(configDir, name+".deck.csv"))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}
	if !result.Valid {
		return result
	}

	if problems := config.CheckBoardRows(boardRows); len(problems) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, problems...)
	}
	if problems := config.CheckDeckRows(deckRows); len(problems) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, problems...)
	}
	if !result.Valid {
		return result
	}

	board, err := config.BuildBoard(boardRows)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Board does not build: %v", err))
		return result
	}
	deck, err := config.BuildDeck(deckRows)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Deck does not build: %v", err))
		return result
	}

	streets, companies, chances := 0, 0, 0
	for _, row := range boardRows {
		switch row.Type {
		case config.RowStreet:
			streets++
		case config.RowCompany:
			companies++
		case config.RowChance:
			chances++
		}
	}
	if chances > 0 && deck.Size() == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "Board has CHANCE squares but the deck is empty")
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Squares: %d (jail at %d)", board.Size(), board.JailIndex()))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Streets: %d", streets))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Companies: %d", companies))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Chance squares: %d", chances))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Cards: %d", deck.Size()))
	return result
}

func parseBoard(path string) ([]config.BoardRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read board file: %v", err)
	}
	defer f.Close()
	rows, err := config.ParseBoardCSV(f)
	if err != nil {
		return nil, fmt.Errorf("Invalid board CSV: %v", err)
	}
	return rows, nil
}

func parseDeck(path string) ([]config.DeckRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Failed to read deck file: %v", err)
	}
	defer f.Close()
	rows, err := config.ParseDeckCSV(f)
	if err != nil {
		return nil, fmt.Errorf("Invalid deck CSV: %v", err)
	}
	return rows, nil
}

// main scans ../configs for *.board.csv files and validates each pair,
// printing a concise report and exiting non-zero if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	boards, err := filepath.Glob(filepath.Join(configDir, "*.board.csv"))
	if err != nil || len(boards) == 0 {
		fmt.Printf("No board definitions found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, boardFile := range boards {
		name := strings.TrimSuffix(filepath.Base(boardFile), ".board.csv")
		result := validateDefinition(configDir, name)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.Name)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, problem := range result.Errors {
				fmt.Println("  ❌ " + problem)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All definitions are valid!")
	} else {
		fmt.Println("❌ Some definitions have errors")
		os.Exit(1)
	}
}
