package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/happyhackingspace/tagseq"
	"github.com/happyhackingspace/tagseq/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type decodeOutput struct {
	ID string `json:"id,omitempty"`
	*tagseq.Result
}

func (c *CLI) newDecodeCommand() *cobra.Command {
	var modelPath string
	var format string
	var workers int
	var jobs int

	cmd := &cobra.Command{
		Use:   "decode [file-or-folder]",
		Short: "Decode the best tag sequence for emission scores in a file, folder, or stdin",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Decode one sequence file
  tagseq decode sentence.json --model model.json

  # Decode every .json/.yaml file in a folder, 8 files at a time
  tagseq decode sequences/ --jobs 8

  # Pipe a YAML sequence through stdin
  cat sentence.yaml | tagseq decode --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var seqs []storage.Sequence
			single := true

			if len(args) == 0 {
				if isStdinTerminal(cmd) {
					return cmd.Help()
				}
				slog.Debug("Reading from stdin", "format", format)
				seq, err := storage.DecodeSequence(cmd.InOrStdin(), storage.Format(format))
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				seqs = append(seqs, *seq)
			} else {
				var err error
				seqs, single, err = readTarget(args[0])
				if err != nil {
					return err
				}
			}

			start := time.Now()
			tg, err := c.loadTagger(modelPath, workers)
			if err != nil {
				return err
			}
			slog.Debug("Model loaded", "duration", time.Since(start))

			start = time.Now()
			results, err := decodeAll(cmd.Context(), tg, seqs, jobs)
			if err != nil {
				return err
			}
			slog.Debug("Decoding completed", "sequences", len(results), "duration", time.Since(start))

			if single {
				return writeJSON(cmd.OutOrStdout(), results[0])
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to model file (default: $TAGSEQ_MODEL or model.json search)")
	cmd.Flags().StringVar(&format, "format", string(storage.FormatJSON), "Stdin format: json or yaml")
	cmd.Flags().IntVar(&workers, "workers", c.cfg.Workers, "Goroutines per decoding step")
	cmd.Flags().IntVar(&jobs, "jobs", c.cfg.Jobs, "Sequences decoded concurrently")
	return cmd
}

// readTarget reads a single sequence file, or every sequence file in a folder.
func readTarget(target string) ([]storage.Sequence, bool, error) {
	fi, err := os.Stat(target)
	if err != nil {
		return nil, false, err
	}
	if !fi.IsDir() {
		seq, err := storage.ReadSequence(target)
		if err != nil {
			return nil, false, err
		}
		return []storage.Sequence{*seq}, true, nil
	}
	seqs, err := storage.NewStorage(target).IterSequences()
	if err != nil {
		return nil, false, err
	}
	return seqs, false, nil
}

// decodeAll decodes the sequences concurrently against one shared model,
// keeping input order in the output.
func decodeAll(ctx context.Context, tg *tagseq.Tagger, seqs []storage.Sequence, jobs int) ([]decodeOutput, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	out := make([]decodeOutput, len(seqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, seq := range seqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := tg.Tag(seq.Emissions)
			if err != nil {
				return fmt.Errorf("sequence %q: %w", seq.ID, err)
			}
			out[i] = decodeOutput{ID: seq.ID, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

func isStdinTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
