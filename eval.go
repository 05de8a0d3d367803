package tagseq

import "fmt"

// Labeled is an emission sequence with its gold tag names.
type Labeled struct {
	ID        string
	Emissions [][]float64
	Tags      []string
}

// EvalResult holds decoding accuracy against gold tags.
type EvalResult struct {
	TagAccuracy      float64
	SequenceAccuracy float64
	TagCorrect       int
	TagTotal         int
	SequenceCorrect  int
	SequenceTotal    int

	// Confusion counts gold (outer key) against decoded (inner key) tag names.
	Confusion map[string]map[string]int
}

// Evaluate decodes every sequence and compares the result with its gold tags.
func (tg *Tagger) Evaluate(seqs []Labeled) (*EvalResult, error) {
	res := EvalResult{Confusion: make(map[string]map[string]int)}
	for _, seq := range seqs {
		if len(seq.Tags) != len(seq.Emissions) {
			return nil, fmt.Errorf("tagseq: sequence %q has %d gold tags for %d steps",
				seq.ID, len(seq.Tags), len(seq.Emissions))
		}
		out, err := tg.Tag(seq.Emissions)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", seq.ID, err)
		}

		allCorrect := true
		for i, gold := range seq.Tags {
			if res.Confusion[gold] == nil {
				res.Confusion[gold] = make(map[string]int)
			}
			res.Confusion[gold][out.Tags[i]]++
			if out.Tags[i] == gold {
				res.TagCorrect++
			} else {
				allCorrect = false
			}
		}
		res.TagTotal += len(seq.Tags)
		if allCorrect {
			res.SequenceCorrect++
		}
		res.SequenceTotal++
	}

	if res.TagTotal > 0 {
		res.TagAccuracy = float64(res.TagCorrect) / float64(res.TagTotal)
	}
	if res.SequenceTotal > 0 {
		res.SequenceAccuracy = float64(res.SequenceCorrect) / float64(res.SequenceTotal)
	}
	return &res, nil
}
