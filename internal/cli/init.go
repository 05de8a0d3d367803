package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/happyhackingspace/tagseq"
	"github.com/spf13/cobra"
)

func (c *CLI) newInitCommand() *cobra.Command {
	var tags []string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "init <modelfile>",
		Short: "Create an untrained model with random transition scores",
		Args:  cobra.ExactArgs(1),
		Example: `  tagseq init model.json --tags B,I,O
  tagseq init model.json --tags B,I,O --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := args[0]
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			slog.Debug("Creating model", "tags", tags, "seed", seed)
			tg, err := tagseq.NewRandom(tags, seed)
			if err != nil {
				return err
			}
			if err := tg.Save(modelPath); err != nil {
				return err
			}
			slog.Info("Model saved", "path", modelPath, "tags", len(tags))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), modelPath)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", []string{"B", "I", "O"}, "Tag names, in ID order")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: current time)")
	return cmd
}
