package engine

import (
	"fmt"
	"math/rand"
)

// CardKind identifies the effect a chance card applies.
type CardKind string

const (
	CardPayBank      CardKind = "PAY_BANK"
	CardReceiveBank  CardKind = "RECEIVE_BANK"
	CardPayAll       CardKind = "PAY_ALL"
	CardReceiveAll   CardKind = "RECEIVE_ALL"
	CardGoToJail     CardKind = "GO_TO_JAIL"
	CardGetOutOfJail CardKind = "GET_OUT_OF_JAIL"
)

// ParseCardKind validates a card kind name.
func ParseCardKind(s string) (CardKind, error) {
	switch CardKind(s) {
	case CardPayBank, CardReceiveBank, CardPayAll, CardReceiveAll, CardGoToJail, CardGetOutOfJail:
		return CardKind(s), nil
	}
	return "", fmt.Errorf("unknown card kind %q", s)
}

// Card is one immutable chance card. Value is only meaningful for the
// pay/receive kinds.
type Card struct {
	ID    int      `json:"id"`
	Kind  CardKind `json:"kind"`
	Value int      `json:"value"`
}

// apply dispatches the card's effect on the drawing player.
func (c Card) apply(p *Player, e *GameEngine) error {
	switch c.Kind {
	case CardPayBank:
		return e.economy.ApplyPayment(p, c.Value)
	case CardReceiveBank:
		return e.economy.ApplyIncome(p, c.Value)
	case CardPayAll:
		for _, other := range e.players {
			if other != p && other.alive {
				if err := e.economy.Transfer(p, other, c.Value); err != nil {
					return err
				}
			}
		}
		return nil
	case CardReceiveAll:
		for _, other := range e.players {
			if other != p && other.alive {
				if err := e.economy.Transfer(other, p, c.Value); err != nil {
					return err
				}
			}
		}
		return nil
	case CardGoToJail:
		return e.sendToJail(p)
	case CardGetOutOfJail:
		p.grantReleaseCard()
		return nil
	default:
		return fmt.Errorf("unknown card kind %q", c.Kind)
	}
}

// Deck is the cyclic chance card queue. Drawn cards return to the back,
// except release cards, which leave circulation while a player holds them.
type Deck struct {
	cards []Card
}

// NewDeck creates a deck from an ordered card list (front first).
func NewDeck(cards []Card) (*Deck, error) {
	if len(cards) == 0 {
		return nil, fmt.Errorf("deck cannot be empty")
	}
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d, nil
}

// Draw removes the front card. Release cards are not recycled; every other
// card goes to the back of the deck.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, fmt.Errorf("deck is exhausted")
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	if c.Kind != CardGetOutOfJail {
		d.cards = append(d.cards, c)
	}
	return c, nil
}

// ReturnReleaseCardToBottom re-inserts a release card at the back, called
// when a player spends one to leave jail.
func (d *Deck) ReturnReleaseCardToBottom() {
	d.cards = append(d.cards, Card{ID: 0, Kind: CardGetOutOfJail})
}

// Shuffle randomizes the deck order.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// CardsInOrder returns the deck content from front to back, for saving.
func (d *Deck) CardsInOrder() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Size returns the number of cards currently in the deck.
func (d *Deck) Size() int { return len(d.cards) }
