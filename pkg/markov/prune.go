package markov

import (
	"fmt"
	"log/slog"
)

// Prune removes every edge whose count is less than or equal to minFreq and
// returns the number of edges removed. This is useful for dropping rare, and
// often noisy, transitions before generating. Vertices are never removed, so
// node ids stay valid; a vertex that loses all its edges becomes a dead end.
func (c *Chain[T]) Prune(minFreq int) (int, error) {
	if c.closed {
		return 0, ErrClosed
	}
	if minFreq < 1 {
		return 0, fmt.Errorf("prune with min frequency %d: %w", minFreq, ErrInvalidCount)
	}

	removed := 0
	for i := range c.nodes {
		kept := c.nodes[i].edges[:0]
		for _, e := range c.nodes[i].edges {
			if e.Count > minFreq {
				kept = append(kept, e)
			} else {
				removed++
			}
		}
		c.nodes[i].edges = kept
	}

	c.logger.Info("Chain pruned",
		slog.Int("min_frequency", minFreq),
		slog.Int("edges_removed", removed),
	)
	return removed, nil
}
