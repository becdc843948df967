package board

import (
	"fmt"
	"io"

	"github.com/CTAG07/markovwalk/pkg/markov"
)

// DefaultMaxLength is the longest path Generate produces by default.
const DefaultMaxLength = 60

// Build validates layout and returns a chain holding one node per cell, in
// board order. On failure the partially built chain is closed.
func Build(layout *Layout, opts ...markov.ChainOption) (*markov.Chain[Cell], error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}

	chain := markov.NewChain[Cell](Behavior{Size: layout.Size}, opts...)
	if err := fill(chain, layout); err != nil {
		chain.Close()
		return nil, err
	}
	return chain, nil
}

func fill(chain *markov.Chain[Cell], layout *Layout) error {
	cells := layout.Cells()
	ids := make([]markov.NodeID, len(cells))
	for i, c := range cells {
		id, err := chain.Add(c)
		if err != nil {
			return fmt.Errorf("could not add cell %d: %w", c.Number, err)
		}
		ids[i] = id
	}

	for i, c := range cells {
		if target, ok := c.Target(); ok {
			if err := chain.Link(ids[i], ids[target-1]); err != nil {
				return fmt.Errorf("could not link cell %d -> %d: %w", c.Number, target, err)
			}
			continue
		}
		for roll := 1; roll <= layout.DiceMax; roll++ {
			next := c.Number + roll
			if next > layout.Size {
				break
			}
			if err := chain.Link(ids[i], ids[next-1]); err != nil {
				return fmt.Errorf("could not link cell %d -> %d: %w", c.Number, next, err)
			}
		}
	}
	return nil
}

// Generate writes count random walks to w, one per line, as
// "Random Walk N: <cells>". Every walk starts at the first cell and visits at
// most maxLength cells.
func Generate(w io.Writer, walker *markov.Walker[Cell], count, maxLength int) error {
	if maxLength < 1 {
		return fmt.Errorf("max length must be at least 1, got %d", maxLength)
	}
	for i := 1; i <= count; i++ {
		if _, err := fmt.Fprintf(w, "Random Walk %d: ", i); err != nil {
			return err
		}
		if _, err := walker.Walk(w, markov.WithStart(0), markov.WithMaxSteps(maxLength-1)); err != nil {
			return fmt.Errorf("walk %d: %w", i, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
