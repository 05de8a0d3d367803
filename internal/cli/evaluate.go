package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/happyhackingspace/tagseq"
	"github.com/happyhackingspace/tagseq/internal/storage"
	"github.com/spf13/cobra"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	var modelPath string
	var workers int

	cmd := &cobra.Command{
		Use:     "evaluate <folder>",
		Short:   "Measure decoding accuracy against gold tags in sequence files",
		Args:    cobra.ExactArgs(1),
		Example: `  tagseq evaluate testdata --model model.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			folder := args[0]
			seqs, err := storage.NewStorage(folder).IterSequences()
			if err != nil {
				return err
			}
			labeled := make([]tagseq.Labeled, 0, len(seqs))
			for _, seq := range seqs {
				if len(seq.Tags) == 0 && len(seq.Emissions) > 0 {
					slog.Debug("Skipping sequence without gold tags", "id", seq.ID)
					continue
				}
				labeled = append(labeled, tagseq.Labeled{ID: seq.ID, Emissions: seq.Emissions, Tags: seq.Tags})
			}
			if len(labeled) == 0 {
				return fmt.Errorf("no labeled sequences found in %s", folder)
			}

			tg, err := c.loadTagger(modelPath, workers)
			if err != nil {
				return err
			}

			slog.Info("Evaluating", "sequences", len(labeled), "folder", folder)
			start := time.Now()
			result, err := tg.Evaluate(labeled)
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Tag accuracy: %.1f%% (%d/%d tags)\n",
				result.TagAccuracy*100, result.TagCorrect, result.TagTotal)
			_, _ = fmt.Fprintf(w, "Sequence accuracy: %.1f%% (%d/%d sequences)\n",
				result.SequenceAccuracy*100, result.SequenceCorrect, result.SequenceTotal)
			printConfusionMatrix(w, result.Confusion)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to model file (default: $TAGSEQ_MODEL or model.json search)")
	cmd.Flags().IntVar(&workers, "workers", c.cfg.Workers, "Goroutines per decoding step")
	return cmd
}

func printConfusionMatrix(w io.Writer, confusion map[string]map[string]int) {
	if len(confusion) == 0 {
		return
	}

	seen := make(map[string]bool)
	for gold, row := range confusion {
		seen[gold] = true
		for pred := range row {
			seen[pred] = true
		}
	}
	classes := make([]string, 0, len(seen))
	for cls := range seen {
		classes = append(classes, cls)
	}
	sort.Strings(classes)

	_, _ = fmt.Fprintf(w, "\nConfusion matrix (rows=true, cols=predicted):\n")
	_, _ = fmt.Fprintf(w, "%8s", "")
	for _, cls := range classes {
		_, _ = fmt.Fprintf(w, " %5s", cls)
	}
	_, _ = fmt.Fprintf(w, "  total  acc%%\n")

	for _, trueClass := range classes {
		_, _ = fmt.Fprintf(w, "%8s", trueClass)
		total := 0
		correct := 0
		for _, predClass := range classes {
			count := confusion[trueClass][predClass]
			total += count
			if trueClass == predClass {
				correct = count
			}
			if count == 0 {
				_, _ = fmt.Fprintf(w, " %5s", ".")
			} else {
				_, _ = fmt.Fprintf(w, " %5d", count)
			}
		}
		acc := 0.0
		if total > 0 {
			acc = float64(correct) / float64(total) * 100
		}
		_, _ = fmt.Fprintf(w, "  %5d %5.1f\n", total, acc)
	}
}
