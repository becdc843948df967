package board

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidLayout is returned by Validate for a board that cannot be built.
var ErrInvalidLayout = errors.New("board: invalid layout")

// Transition is a ladder (From < To) or a snake (From > To).
type Transition struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Layout describes a board.
type Layout struct {
	Size        int          `yaml:"size"`
	DiceMax     int          `yaml:"dice_max"`
	Transitions []Transition `yaml:"transitions"`
}

// DefaultLayout returns the classic 100-cell board with twenty ladders and
// snakes and a six-sided die.
func DefaultLayout() *Layout {
	return &Layout{
		Size:    100,
		DiceMax: 6,
		Transitions: []Transition{
			{13, 4}, {85, 17}, {95, 67}, {97, 58}, {66, 89},
			{87, 31}, {57, 83}, {91, 25}, {28, 50}, {35, 11},
			{8, 30}, {41, 62}, {81, 43}, {69, 32}, {20, 39},
			{33, 70}, {79, 99}, {23, 76}, {15, 47}, {61, 14},
		},
	}
}

// LoadLayout reads a YAML layout from path. Fields missing from the file keep
// their DefaultLayout values.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout file: %w", err)
	}
	layout := DefaultLayout()
	if err = yaml.Unmarshal(data, layout); err != nil {
		return nil, fmt.Errorf("failed to parse layout file: %w", err)
	}
	if err = layout.Validate(); err != nil {
		return nil, err
	}
	return layout, nil
}

// Validate checks that every transition stays on the board, that no cell has
// more than one transition and that the last cell has none.
func (l *Layout) Validate() error {
	if l.Size < 2 {
		return fmt.Errorf("%w: size %d, need at least 2 cells", ErrInvalidLayout, l.Size)
	}
	if l.DiceMax < 1 {
		return fmt.Errorf("%w: dice max %d", ErrInvalidLayout, l.DiceMax)
	}
	seen := make(map[int]struct{}, len(l.Transitions))
	for _, tr := range l.Transitions {
		if tr.From < 1 || tr.From > l.Size || tr.To < 1 || tr.To > l.Size {
			return fmt.Errorf("%w: transition %d -> %d leaves the board", ErrInvalidLayout, tr.From, tr.To)
		}
		if tr.From == tr.To {
			return fmt.Errorf("%w: transition %d -> %d goes nowhere", ErrInvalidLayout, tr.From, tr.To)
		}
		if tr.From == l.Size {
			return fmt.Errorf("%w: the last cell cannot start a transition", ErrInvalidLayout)
		}
		if _, ok := seen[tr.From]; ok {
			return fmt.Errorf("%w: cell %d has more than one transition", ErrInvalidLayout, tr.From)
		}
		seen[tr.From] = struct{}{}
	}
	return nil
}

// Cells returns the board's cells in order, numbered from 1.
func (l *Layout) Cells() []Cell {
	cells := make([]Cell, l.Size)
	for i := range cells {
		cells[i] = Cell{Number: i + 1, LadderTo: Empty, SnakeTo: Empty}
	}
	for _, tr := range l.Transitions {
		if tr.From < tr.To {
			cells[tr.From-1].LadderTo = tr.To
		} else {
			cells[tr.From-1].SnakeTo = tr.To
		}
	}
	return cells
}
