package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/CTAG07/markovwalk/pkg/board"
	"github.com/CTAG07/markovwalk/pkg/markov"
	"github.com/CTAG07/markovwalk/pkg/store"
	"github.com/CTAG07/markovwalk/pkg/words"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

func (a *app) modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage chains saved in the database",
		Long: `Manage chains saved with --save.

Available subcommands:
  list     - List saved models with their statistics
  remove   - Remove a saved model
  prune    - Remove rarely observed transitions from a model
  export   - Write a model to a JSON file
  import   - Read a model from a JSON file
  generate - Print walks over a saved model`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved models with their statistics",
			Args:  cobra.NoArgs,
			RunE:  a.withStore(a.runModelsList),
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove a saved model",
			Args:  cobra.ExactArgs(1),
			RunE:  a.withStore(a.runModelsRemove),
		},
		&cobra.Command{
			Use:   "prune <name> <min-frequency>",
			Short: "Remove transitions seen at most <min-frequency> times",
			Args:  cobra.ExactArgs(2),
			RunE:  a.withStore(a.runModelsPrune),
		},
		&cobra.Command{
			Use:   "export <name> <file>",
			Short: "Write a model to a JSON file",
			Args:  cobra.ExactArgs(2),
			RunE:  a.withStore(a.runModelsExport),
		},
		&cobra.Command{
			Use:   "import <name> <kind> <file>",
			Short: "Read a model of kind 'words' or 'board' from a JSON file",
			Args:  cobra.ExactArgs(3),
			RunE:  a.withStore(a.runModelsImport),
		},
		&cobra.Command{
			Use:   "generate <name> <seed> <count>",
			Short: "Print walks over a saved model",
			Args:  cobra.ExactArgs(3),
			RunE:  a.withStore(a.runModelsGenerate),
		},
	)
	return cmd
}

type storeRunFunc func(ctx context.Context, s *store.Store, args []string) error

// withStore opens the database around a models subcommand.
func (a *app) withStore(run storeRunFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		s, closeStore, err := a.openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return run(cmd.Context(), s, args)
	}
}

func (a *app) runModelsList(ctx context.Context, s *store.Store, _ []string) error {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return err
	}
	if len(stats.Models) == 0 {
		_, err = fmt.Fprintln(a.out, "No models saved.")
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tKIND\tNODES\tEDGES\tFREQUENCY")
	for _, m := range stats.Models {
		ms := stats.Stats[m.Id]
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", m.Name, m.Kind, ms.Nodes, ms.TotalEdges, ms.TotalFrequency)
	}
	return tw.Flush()
}

func (a *app) runModelsRemove(ctx context.Context, s *store.Store, args []string) error {
	info, err := getModel(ctx, s, args[0])
	if err != nil {
		return err
	}
	if err = s.RemoveModel(ctx, info); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Removed model %s.\n", info.Name)
	return err
}

func (a *app) runModelsPrune(ctx context.Context, s *store.Store, args []string) error {
	minFreq, err := strconv.Atoi(args[1])
	if err != nil || minFreq < 1 {
		return fmt.Errorf("invalid min-frequency %q: must be a positive integer", args[1])
	}
	info, err := getModel(ctx, s, args[0])
	if err != nil {
		return err
	}
	removed, err := s.PruneModel(ctx, info, minFreq)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Removed %d edges from model %s.\n", removed, info.Name)
	return err
}

func (a *app) runModelsExport(ctx context.Context, s *store.Store, args []string) error {
	info, err := getModel(ctx, s, args[0])
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch info.Kind {
	case store.KindWords:
		chain, loadErr := a.loadWords(ctx, s, info)
		if loadErr != nil {
			return loadErr
		}
		defer chain.Close()
		err = markov.ExportChain(&buf, chain, words.Codec{})
	case store.KindBoard:
		chain, loadErr := a.loadBoard(ctx, s, info)
		if loadErr != nil {
			return loadErr
		}
		defer chain.Close()
		err = markov.ExportChain(&buf, chain, board.Codec{})
	default:
		return fmt.Errorf("model %s has unknown kind %q", info.Name, info.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to export model %s: %w", info.Name, err)
	}

	if err = atomic.WriteFile(args[1], &buf); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	_, err = fmt.Fprintf(a.out, "Exported model %s to %s.\n", info.Name, args[1])
	return err
}

func (a *app) runModelsImport(ctx context.Context, s *store.Store, args []string) error {
	name, kind, path := args[0], args[1], args[2]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	var exported markov.ExportedChain
	if err = json.Unmarshal(data, &exported); err != nil {
		return fmt.Errorf("failed to decode json chain: %w", err)
	}

	var info store.ModelInfo
	switch kind {
	case store.KindWords:
		chain := markov.NewChain[string](words.Behavior{}, markov.WithLogger(a.logger))
		defer chain.Close()
		if err = markov.Restore(chain, words.Codec{}, &exported); err != nil {
			return err
		}
		info, err = store.SaveModel(ctx, s, name, kind, chain, words.Codec{})
	case store.KindBoard:
		chain := markov.NewChain[board.Cell](board.Behavior{Size: len(exported.Nodes)}, markov.WithLogger(a.logger))
		defer chain.Close()
		if err = markov.Restore(chain, board.Codec{}, &exported); err != nil {
			return err
		}
		info, err = store.SaveModel(ctx, s, name, kind, chain, board.Codec{})
	default:
		return fmt.Errorf("unknown model kind %q: must be %q or %q", kind, store.KindWords, store.KindBoard)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.out, "Imported model %s with %d nodes.\n", info.Name, info.Nodes)
	return err
}

func (a *app) runModelsGenerate(ctx context.Context, s *store.Store, args []string) error {
	seed, err := parseSeed(args[1])
	if err != nil {
		return err
	}
	count, err := parseCount("count", args[2])
	if err != nil {
		return err
	}
	info, err := getModel(ctx, s, args[0])
	if err != nil {
		return err
	}

	switch info.Kind {
	case store.KindWords:
		chain, err := a.loadWords(ctx, s, info)
		if err != nil {
			return err
		}
		defer chain.Close()
		return words.Generate(a.out, markov.NewSeededWalker(chain, seed), count, a.config.Tweets.MaxWords)
	case store.KindBoard:
		chain, err := a.loadBoard(ctx, s, info)
		if err != nil {
			return err
		}
		defer chain.Close()
		return board.Generate(a.out, markov.NewSeededWalker(chain, seed), count, a.config.Board.MaxLength)
	default:
		return fmt.Errorf("model %s has unknown kind %q", info.Name, info.Kind)
	}
}

func getModel(ctx context.Context, s *store.Store, name string) (store.ModelInfo, error) {
	info, err := s.GetModelInfo(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ModelInfo{}, fmt.Errorf("model %s not found", name)
	}
	return info, err
}

func (a *app) loadWords(ctx context.Context, s *store.Store, info store.ModelInfo) (*markov.Chain[string], error) {
	return store.LoadModel[string](ctx, s, info, words.Behavior{}, words.Codec{}, markov.WithLogger(a.logger))
}

// loadBoard assumes the final cell of a saved board is numbered like the
// board's size, which holds for every board Build produces.
func (a *app) loadBoard(ctx context.Context, s *store.Store, info store.ModelInfo) (*markov.Chain[board.Cell], error) {
	return store.LoadModel[board.Cell](ctx, s, info, board.Behavior{Size: info.Nodes}, board.Codec{}, markov.WithLogger(a.logger))
}
