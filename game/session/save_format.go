package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ocastro/magnate/game/engine"
)

// Saves that predate the bankCash key fall back to this balance.
const legacyBankCash = 200000

// WriteSave writes a snapshot in the sectioned text save format.
func WriteSave(w io.Writer, saved engine.SavedGame, definition string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# GAME_INFO\n")
	fmt.Fprintf(bw, "definition,%s\n", definition)
	fmt.Fprintf(bw, "currentPlayerIndex,%d\n", saved.CurrentPlayerIndex)
	fmt.Fprintf(bw, "numberOfPlayers,%d\n", len(saved.Players))
	fmt.Fprintf(bw, "bankCash,%d\n", saved.BankCash)
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "# PLAYERS\n")
	fmt.Fprintf(bw, "# id,name,color,money,position,inJail,getOutOfJailCards,alive\n")
	for _, p := range saved.Players {
		fmt.Fprintf(bw, "%s,%s,%s,%d,%d,%t,%d,%t\n",
			p.ID, p.Name, p.Color, p.Cash, p.Position, p.InJail, p.ReleaseCards, p.Alive)
	}
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "# PROPERTIES_STREETS\n")
	fmt.Fprintf(bw, "# squareIndex,ownerId,houses,hasHotel\n")
	for _, s := range saved.Streets {
		fmt.Fprintf(bw, "%d,%s,%d,%t\n", s.SquareIndex, s.OwnerID, s.Houses, s.HasHotel)
	}
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "# PROPERTIES_COMPANIES\n")
	fmt.Fprintf(bw, "# squareIndex,ownerId\n")
	for _, c := range saved.Companies {
		fmt.Fprintf(bw, "%d,%s\n", c.SquareIndex, c.OwnerID)
	}
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "# DECK_STATE\n")
	fmt.Fprintf(bw, "# cardId,cardType,cardValue\n")
	for _, c := range saved.DeckCards {
		fmt.Fprintf(bw, "%d,%s,%d\n", c.ID, c.Kind, c.Value)
	}
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "# JAIL_CARDS_OUT\n")
	fmt.Fprintf(bw, "getOutOfJailCardsOut,%d\n", saved.ReleaseCardsOut)

	return bw.Flush()
}

// ParseSave reads a sectioned save file back into a snapshot plus the
// definition name it was played on. Unknown GAME_INFO keys and comment
// lines are ignored.
func ParseSave(r io.Reader) (engine.SavedGame, string, error) {
	var (
		saved      engine.SavedGame
		definition string
		section    string
	)
	saved.BankCash = legacyBankCash

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			switch header := strings.TrimSpace(strings.TrimPrefix(line, "#")); header {
			case "GAME_INFO", "PLAYERS", "PROPERTIES_STREETS", "PROPERTIES_COMPANIES", "DECK_STATE", "JAIL_CARDS_OUT":
				section = header
			}
			continue
		}

		parts := strings.Split(line, ",")
		switch section {
		case "GAME_INFO":
			if len(parts) != 2 {
				return saved, "", fmt.Errorf("malformed GAME_INFO line %q", line)
			}
			switch parts[0] {
			case "definition":
				definition = parts[1]
			case "currentPlayerIndex":
				v, err := strconv.Atoi(parts[1])
				if err != nil {
					return saved, "", fmt.Errorf("bad currentPlayerIndex: %w", err)
				}
				saved.CurrentPlayerIndex = v
			case "bankCash":
				v, err := strconv.Atoi(parts[1])
				if err != nil {
					return saved, "", fmt.Errorf("bad bankCash: %w", err)
				}
				saved.BankCash = v
			}

		case "PLAYERS":
			if len(parts) != 8 {
				return saved, "", fmt.Errorf("malformed player line %q", line)
			}
			color, err := engine.ParseColor(parts[2])
			if err != nil {
				return saved, "", err
			}
			cash, err := strconv.Atoi(parts[3])
			if err != nil {
				return saved, "", fmt.Errorf("bad player cash in %q: %w", line, err)
			}
			position, err := strconv.Atoi(parts[4])
			if err != nil {
				return saved, "", fmt.Errorf("bad player position in %q: %w", line, err)
			}
			releaseCards, err := strconv.Atoi(parts[6])
			if err != nil {
				return saved, "", fmt.Errorf("bad release card count in %q: %w", line, err)
			}
			saved.Players = append(saved.Players, engine.SavedPlayer{
				ID:           parts[0],
				Name:         parts[1],
				Color:        color,
				Cash:         cash,
				Position:     position,
				InJail:       parts[5] == "true",
				ReleaseCards: releaseCards,
				Alive:        parts[7] == "true",
			})

		case "PROPERTIES_STREETS":
			if len(parts) != 4 {
				return saved, "", fmt.Errorf("malformed street line %q", line)
			}
			index, err := strconv.Atoi(parts[0])
			if err != nil {
				return saved, "", fmt.Errorf("bad street index in %q: %w", line, err)
			}
			houses, err := strconv.Atoi(parts[2])
			if err != nil {
				return saved, "", fmt.Errorf("bad house count in %q: %w", line, err)
			}
			saved.Streets = append(saved.Streets, engine.SavedStreet{
				SquareIndex: index,
				OwnerID:     parts[1],
				Houses:      houses,
				HasHotel:    parts[3] == "true",
			})

		case "PROPERTIES_COMPANIES":
			if len(parts) != 2 {
				return saved, "", fmt.Errorf("malformed company line %q", line)
			}
			index, err := strconv.Atoi(parts[0])
			if err != nil {
				return saved, "", fmt.Errorf("bad company index in %q: %w", line, err)
			}
			saved.Companies = append(saved.Companies, engine.SavedCompany{
				SquareIndex: index,
				OwnerID:     parts[1],
			})

		case "DECK_STATE":
			if len(parts) != 3 {
				return saved, "", fmt.Errorf("malformed deck line %q", line)
			}
			id, err := strconv.Atoi(parts[0])
			if err != nil {
				return saved, "", fmt.Errorf("bad card id in %q: %w", line, err)
			}
			kind, err := engine.ParseCardKind(parts[1])
			if err != nil {
				return saved, "", err
			}
			value, err := strconv.Atoi(parts[2])
			if err != nil {
				return saved, "", fmt.Errorf("bad card value in %q: %w", line, err)
			}
			saved.DeckCards = append(saved.DeckCards, engine.Card{ID: id, Kind: kind, Value: value})

		case "JAIL_CARDS_OUT":
			if len(parts) == 2 && parts[0] == "getOutOfJailCardsOut" {
				v, err := strconv.Atoi(parts[1])
				if err != nil {
					return saved, "", fmt.Errorf("bad getOutOfJailCardsOut: %w", err)
				}
				saved.ReleaseCardsOut = v
			}

		default:
			return saved, "", fmt.Errorf("data line %q outside any section", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return saved, "", fmt.Errorf("reading save: %w", err)
	}
	if len(saved.Players) == 0 {
		return saved, "", fmt.Errorf("save contains no players")
	}
	return saved, definition, nil
}
