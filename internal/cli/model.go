package cli

import (
	"log/slog"

	"github.com/happyhackingspace/tagseq"
)

// loadTagger loads the model named by the flag, falling back to TAGSEQ_MODEL
// and then to a model.json search from the working directory.
func (c *CLI) loadTagger(modelPath string, workers int) (*tagseq.Tagger, error) {
	if modelPath == "" {
		modelPath = c.cfg.Model
	}

	var tg *tagseq.Tagger
	var err error
	if modelPath != "" {
		slog.Debug("Loading model", "path", modelPath)
		tg, err = tagseq.Load(modelPath)
	} else {
		tg, err = tagseq.New()
	}
	if err != nil {
		return nil, err
	}
	return tg.WithWorkers(workers), nil
}
