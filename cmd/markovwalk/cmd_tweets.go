package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/CTAG07/markovwalk/pkg/markov"
	"github.com/CTAG07/markovwalk/pkg/store"
	"github.com/CTAG07/markovwalk/pkg/words"
	"github.com/spf13/cobra"
)

func (a *app) tweetsCmd() *cobra.Command {
	var (
		saveName string
		minFreq  int
	)

	cmd := &cobra.Command{
		Use:   "tweets <seed> <count> <path> [words-to-read]",
		Short: "Generate tweets from a text corpus",
		Long: `Read a text file, build a word chain from it and print <count> tweets.

Words are split on whitespace. A word ending in '.' ends a tweet, and no
tweet holds more than the configured maximum number of words. When
[words-to-read] is given only that many words of the file are used.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := parseSeed(args[0])
			if err != nil {
				return err
			}
			count, err := parseCount("count", args[1])
			if err != nil {
				return err
			}
			maxWords := 0
			if len(args) == 4 {
				if maxWords, err = parseCount("words-to-read", args[3]); err != nil {
					return err
				}
			}
			if minFreq < 0 {
				return fmt.Errorf("invalid --prune %d: must not be negative", minFreq)
			}
			cmd.SilenceUsage = true
			return a.runTweets(cmd, seed, count, args[2], maxWords, minFreq, saveName)
		},
	}
	cmd.Flags().IntVar(&minFreq, "prune", 0, "drop transitions seen at most this many times before generating")
	cmd.Flags().StringVar(&saveName, "save", "", "save the built chain to the database under this name")
	return cmd
}

func (a *app) runTweets(cmd *cobra.Command, seed uint64, count int, path string, maxWords, minFreq int, saveName string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	chain := markov.NewChain[string](words.Behavior{},
		markov.WithNodeLimit(a.config.Tweets.NodeLimit),
		markov.WithLogger(a.logger),
	)
	defer chain.Close()

	read, err := words.Fill(chain, f, maxWords, a.logger)
	if err != nil {
		return fmt.Errorf("failed to build chain from %s: %w", path, err)
	}
	a.logger.Debug("Corpus loaded", slog.String("path", path), slog.Int("words_read", read))

	if minFreq > 0 {
		if _, err = chain.Prune(minFreq); err != nil {
			return err
		}
	}

	if err = words.Generate(a.out, markov.NewSeededWalker(chain, seed), count, a.config.Tweets.MaxWords); err != nil {
		return err
	}

	if saveName == "" {
		return nil
	}
	s, closeStore, err := a.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()
	_, err = store.SaveModel(cmd.Context(), s, saveName, store.KindWords, chain, words.Codec{})
	return err
}

func parseSeed(arg string) (uint64, error) {
	seed, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: must be a non-negative integer", arg)
	}
	return seed, nil
}

func parseCount(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative integer", name, arg)
	}
	return n, nil
}
