package board

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
)

// Empty marks a cell without a ladder or snake.
const Empty = -1

// Cell is a single square of the board.
type Cell struct {
	Number   int `json:"number"`
	LadderTo int `json:"ladder_to"`
	SnakeTo  int `json:"snake_to"`
}

// Target returns the destination of the cell's ladder or snake, if any.
func (c Cell) Target() (int, bool) {
	if c.LadderTo != Empty {
		return c.LadderTo, true
	}
	if c.SnakeTo != Empty {
		return c.SnakeTo, true
	}
	return 0, false
}

// Behavior implements markov.Behavior for cells of a board with Size cells.
type Behavior struct {
	Size int
}

// Compare orders cells by number.
func (Behavior) Compare(a, b Cell) int { return cmp.Compare(a.Number, b.Number) }

// Copy returns the cell by value.
func (Behavior) Copy(p Cell) (Cell, error) { return p, nil }

// Release is a no-op.
func (Behavior) Release(Cell) {}

// Print writes the cell in walk notation.
func (b Behavior) Print(w io.Writer, p Cell) error {
	var err error
	switch {
	case p.LadderTo != Empty:
		_, err = fmt.Fprintf(w, "[%d]-ladder to %d ->", p.Number, p.LadderTo)
	case p.SnakeTo != Empty:
		_, err = fmt.Fprintf(w, "[%d]-snake to %d ->", p.Number, p.SnakeTo)
	case p.Number == b.Size:
		_, err = fmt.Fprintf(w, "[%d]", p.Number)
	default:
		_, err = fmt.Fprintf(w, "[%d] ->", p.Number)
	}
	return err
}

// IsTerminal reports whether p is the last cell of the board.
func (b Behavior) IsTerminal(p Cell) bool { return p.Number == b.Size }

// Codec stores cells as JSON objects.
type Codec struct{}

// Encode marshals the cell to JSON.
func (Codec) Encode(p Cell) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode unmarshals a cell from JSON.
func (Codec) Decode(s string) (Cell, error) {
	var c Cell
	if err := json.Unmarshal([]byte(s), &c); err != nil {
		return Cell{}, fmt.Errorf("failed to decode cell: %w", err)
	}
	if c.Number < 1 {
		return Cell{}, fmt.Errorf("invalid cell number %d", c.Number)
	}
	return c, nil
}
