package main

import (
	"github.com/CTAG07/markovwalk/pkg/board"
	"github.com/CTAG07/markovwalk/pkg/markov"
	"github.com/CTAG07/markovwalk/pkg/store"
	"github.com/spf13/cobra"
)

func (a *app) snakesCmd() *cobra.Command {
	var layoutPath, saveName string

	cmd := &cobra.Command{
		Use:   "snakes <seed> <count>",
		Short: "Generate snakes-and-ladders paths",
		Long: `Build a snakes-and-ladders board and print <count> random walks over it.

Every walk starts at the first cell and ends on the last cell or after the
configured maximum number of cells. The classic 100-cell board is used
unless a YAML layout is given with --layout or in the config file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := parseSeed(args[0])
			if err != nil {
				return err
			}
			count, err := parseCount("count", args[1])
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			if layoutPath == "" {
				layoutPath = a.config.Board.LayoutPath
			}
			return a.runSnakes(cmd, seed, count, layoutPath, saveName)
		},
	}
	cmd.Flags().StringVar(&layoutPath, "layout", "", "path to a YAML board layout")
	cmd.Flags().StringVar(&saveName, "save", "", "save the built chain to the database under this name")
	return cmd
}

func (a *app) runSnakes(cmd *cobra.Command, seed uint64, count int, layoutPath, saveName string) error {
	layout := board.DefaultLayout()
	if layoutPath != "" {
		var err error
		if layout, err = board.LoadLayout(layoutPath); err != nil {
			return err
		}
	}

	chain, err := board.Build(layout, markov.WithLogger(a.logger))
	if err != nil {
		return err
	}
	defer chain.Close()

	if err = board.Generate(a.out, markov.NewSeededWalker(chain, seed), count, a.config.Board.MaxLength); err != nil {
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
	_, err = store.SaveModel(cmd.Context(), s, saveName, store.KindBoard, chain, board.Codec{})
	return err
}
