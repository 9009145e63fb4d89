package engine

import "fmt"

// Board is the immutable closed loop of squares the players walk on.
type Board struct {
	squares   []*Square
	jailIndex int
}

// NewBoard creates a board from an ordered square list and the jail position.
func NewBoard(squares []*Square, jailIndex int) (*Board, error) {
	if len(squares) == 0 {
		return nil, fmt.Errorf("board cannot be empty")
	}
	if jailIndex < 0 || jailIndex >= len(squares) {
		return nil, fmt.Errorf("jail index %d out of board range [0,%d)", jailIndex, len(squares))
	}
	for i, sq := range squares {
		if sq == nil {
			return nil, fmt.Errorf("square at position %d is nil", i)
		}
		if sq.index != i {
			return nil, fmt.Errorf("square at position %d carries index %d", i, sq.index)
		}
	}
	b := &Board{
		squares:   make([]*Square, len(squares)),
		jailIndex: jailIndex,
	}
	copy(b.squares, squares)
	return b, nil
}

// NextPosition computes the landing index when advancing steps from a
// position, wrapping around the board.
func (b *Board) NextPosition(from, steps int) (int, error) {
	if from < 0 || from >= len(b.squares) {
		return 0, fmt.Errorf("invalid from position %d", from)
	}
	if steps < 0 {
		return 0, fmt.Errorf("steps must be non-negative, got %d", steps)
	}
	return (from + steps) % len(b.squares), nil
}

// SquareAt returns the square at the given index.
func (b *Board) SquareAt(index int) (*Square, error) {
	if index < 0 || index >= len(b.squares) {
		return nil, fmt.Errorf("index %d out of board range [0,%d)", index, len(b.squares))
	}
	return b.squares[index], nil
}

// JailIndex returns the position of the jail square.
func (b *Board) JailIndex() int { return b.jailIndex }

// Size returns the number of squares on the board.
func (b *Board) Size() int { return len(b.squares) }
