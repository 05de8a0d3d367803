// Package tagseq decodes tag sequences with a linear-chain CRF.
//
// A Tagger pairs tag names with a transition matrix and finds the best tag
// sequence for externally supplied emission scores.
//
//	tg, _ := tagseq.Load("model.json")
//	res, _ := tg.Tag(emissions) // emissions: [L][T+2] scores
//	fmt.Println(res.Tags)       // [B I O B]
//	fmt.Println(res.Score)      // 21.8
package tagseq

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/happyhackingspace/tagseq/crf"
)

// Tagger wraps a CRF model for decoding.
type Tagger struct {
	model   *crf.Model
	decoder crf.Decoder
}

// Result holds the decoded sequence for one emission sequence.
type Result struct {
	Score float64  `json:"score"`
	Path  []int    `json:"path"`
	Tags  []string `json:"tags"`
}

// New loads the tagger from "model.json", searching the current directory
// and parent directories up to the module root (where go.mod lives).
func New() (*Tagger, error) {
	path, err := findModel("model.json")
	if err != nil {
		return nil, fmt.Errorf("tagseq: %w", err)
	}
	return Load(path)
}

func findModel(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		// Stop at module root
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found", name)
}

// Load loads a model file. Models whose END column or START row hold free
// scores are rejected.
func Load(path string) (*Tagger, error) {
	model, err := crf.LoadModel(path)
	if err != nil {
		return nil, fmt.Errorf("tagseq: %w", err)
	}
	if err := model.Transitions.CheckSentinels(); err != nil {
		return nil, fmt.Errorf("tagseq: %s: %w", path, err)
	}
	slog.Debug("Model loaded", "path", path, "tags", model.Tags.Len())
	return &Tagger{model: model}, nil
}

// NewRandom creates an untrained tagger with uniformly random free transitions.
func NewRandom(tags []string, seed uint64) (*Tagger, error) {
	ts := crf.NewTagset(tags...)
	if ts.Len() != len(tags) {
		return nil, fmt.Errorf("tagseq: duplicate tag names in %v", tags)
	}
	tr, err := crf.NewTransitions(ts.Len(), rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	if err != nil {
		return nil, fmt.Errorf("tagseq: %w", err)
	}
	return FromModel(&crf.Model{Tags: ts, Transitions: tr})
}

// FromModel wraps an existing model. The model is used as given, including a
// matrix that does not hold the sentinel invariant.
func FromModel(model *crf.Model) (*Tagger, error) {
	if model == nil || model.Tags == nil || model.Transitions == nil {
		return nil, fmt.Errorf("tagseq: model not initialized")
	}
	if _, err := crf.NewModel(model.Tags, model.Transitions); err != nil {
		return nil, fmt.Errorf("tagseq: %w", err)
	}
	return &Tagger{model: model}, nil
}

// WithWorkers returns a copy of the tagger that spreads each decoding step
// across the given number of goroutines.
func (tg *Tagger) WithWorkers(workers int) *Tagger {
	cp := *tg
	cp.decoder.Workers = workers
	return &cp
}

// Model returns the underlying model.
func (tg *Tagger) Model() *crf.Model {
	return tg.model
}

// Save writes the model to a file.
func (tg *Tagger) Save(path string) error {
	if tg.model == nil {
		return fmt.Errorf("tagseq: tagger not initialized")
	}
	if err := crf.SaveModel(tg.model, path); err != nil {
		return fmt.Errorf("tagseq: %w", err)
	}
	return nil
}

// Tag decodes the best tag sequence for the emissions using the conventional
// initial scores (START = 0, everything else Sentinel).
// Each emission row must have one score per tag plus the START and END slots.
func (tg *Tagger) Tag(emissions [][]float64) (*Result, error) {
	if tg.model == nil {
		return nil, fmt.Errorf("tagseq: tagger not initialized")
	}
	tr := tg.model.Transitions
	score, path, err := tg.decoder.Decode(tr, emissions, crf.InitialScores(tr.Size()))
	if err != nil {
		return nil, fmt.Errorf("tagseq: %w", err)
	}

	tags := make([]string, len(path))
	for i, id := range path {
		tags[i] = tg.model.Tags.Name(id)
	}
	return &Result{Score: score, Path: path, Tags: tags}, nil
}
