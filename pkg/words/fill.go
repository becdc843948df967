package words

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/CTAG07/markovwalk/pkg/markov"
)

// Fill tokenizes data and adds it to chain. Every token becomes a node;
// consecutive tokens on the same line are linked unless the first ends a
// sentence. If maxWords is positive, reading stops after that many tokens.
// It returns the number of tokens read.
//
// On error the chain may hold part of the input and should be closed by the
// caller.
func Fill(chain *markov.Chain[string], data io.Reader, maxWords int, logger *slog.Logger) (int, error) {
	stream := NewStream(data)

	var (
		wordsRead int
		prev      markov.NodeID
		prevLine  int
		prevText  string
	)

	for maxWords <= 0 || wordsRead < maxWords {
		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return wordsRead, fmt.Errorf("tokenizer error: %w", err)
		}
		wordsRead++

		id, err := chain.Add(token.Text)
		if err != nil {
			return wordsRead, fmt.Errorf("could not add word %q: %w", token.Text, err)
		}
		if prevLine == token.Line && !IsSentenceEnd(prevText) {
			if err = chain.Link(prev, id); err != nil {
				return wordsRead, fmt.Errorf("could not link %q -> %q: %w", prevText, token.Text, err)
			}
		}
		prev, prevLine, prevText = id, token.Line, token.Text
	}

	if logger != nil {
		logger.Info("Training completed",
			slog.Int("words_read", wordsRead),
			slog.Int("distinct_words", chain.Len()),
		)
	}
	return wordsRead, nil
}
