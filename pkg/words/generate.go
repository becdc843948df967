package words

import (
	"fmt"
	"io"

	"github.com/CTAG07/markovwalk/pkg/markov"
)

// DefaultMaxWords is the longest tweet Generate produces by default.
const DefaultMaxWords = 20

// Generate writes count tweets to w, one per line, as "Tweet N: <words>".
// Each tweet starts at a random non-terminal word and holds at most maxWords
// words.
func Generate(w io.Writer, walker *markov.Walker[string], count, maxWords int) error {
	if maxWords < 1 {
		return fmt.Errorf("max words must be at least 1, got %d", maxWords)
	}
	for i := 1; i <= count; i++ {
		if _, err := fmt.Fprintf(w, "Tweet %d: ", i); err != nil {
			return err
		}
		if _, err := walker.Walk(w, markov.WithMaxSteps(maxWords-1)); err != nil {
			return fmt.Errorf("tweet %d: %w", i, err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
