package crf

import (
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// InitialScores returns the conventional starting vector for a model of the
// given size: Sentinel everywhere except 0 at START.
func InitialScores(size int) []float64 {
	scores := make([]float64, size)
	for i := range scores {
		scores[i] = Sentinel
	}
	if size >= 2 {
		scores[size-2] = 0
	}
	return scores
}

// Decoder runs Viterbi decoding. The zero value decodes sequentially.
type Decoder struct {
	// Workers splits the per-tag argmax of each step across this many
	// goroutines. Values below 2 disable the fan-out.
	Workers int
}

// Decode finds the best tag sequence with a sequential Decoder.
func Decode(tr *Transitions, emissions [][]float64, initial []float64) (float64, []int, error) {
	return Decoder{}.Decode(tr, emissions, initial)
}

// Decode finds the highest-scoring tag sequence for the emissions, starting
// from initial, and returns its score and the real tags in time order.
//
// Every emission row and initial must have tr.Size() entries. Argmax ties
// resolve to the lowest tag ID. An empty emission sequence yields an empty
// path scored by the direct START→END transition.
func (d Decoder) Decode(tr *Transitions, emissions [][]float64, initial []float64) (float64, []int, error) {
	n := tr.Size()
	if len(initial) != n {
		return 0, nil, fmt.Errorf("%w: initial scores have %d entries, want %d", ErrDimension, len(initial), n)
	}
	for t, emit := range emissions {
		if len(emit) != n {
			return 0, nil, fmt.Errorf("%w: emissions[%d] has %d entries, want %d", ErrDimension, t, len(emit), n)
		}
	}

	// forwardVar[k] = best score of any path ending in tag k so far
	forwardVar := slices.Clone(initial)
	// backpointers[t][k] = best previous tag for tag k at step t
	backpointers := make([][]int, len(emissions))
	viterbiVars := make([]float64, n)

	for t, emit := range emissions {
		bptrs := make([]int, n)
		if err := d.step(tr, forwardVar, bptrs, viterbiVars); err != nil {
			return 0, nil, err
		}
		floats.AddTo(forwardVar, viterbiVars, emit)
		backpointers[t] = bptrs
	}

	terminal := floats.AddTo(make([]float64, n), forwardVar, tr.Row(tr.End()))
	best := floats.MaxIdx(terminal)
	score := terminal[best]

	path := make([]int, 0, len(emissions)+1)
	path = append(path, best)
	for t := len(backpointers) - 1; t >= 0; t-- {
		best = backpointers[t][best]
		path = append(path, best)
	}
	// The last tag reached is the START sentinel.
	path = path[:len(path)-1]
	slices.Reverse(path)
	return score, path, nil
}

// step fills bptrs and maxes with the argmax and max of forwardVar + row(k)
// for every candidate tag k.
func (d Decoder) step(tr *Transitions, forwardVar []float64, bptrs []int, maxes []float64) error {
	n := tr.Size()
	if d.Workers < 2 || n < 2*d.Workers {
		bestPrev(tr, forwardVar, 0, n, bptrs, maxes, make([]float64, n))
		return nil
	}

	var g errgroup.Group
	chunk := (n + d.Workers - 1) / d.Workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			bestPrev(tr, forwardVar, lo, hi, bptrs, maxes, make([]float64, n))
			return nil
		})
	}
	return g.Wait()
}

// bestPrev handles candidate tags [lo, hi). Each call writes only its own slots.
func bestPrev(tr *Transitions, forwardVar []float64, lo, hi int, bptrs []int, maxes, scratch []float64) {
	for k := lo; k < hi; k++ {
		floats.AddTo(scratch, forwardVar, tr.Row(k))
		j := floats.MaxIdx(scratch)
		bptrs[k] = j
		maxes[k] = scratch[j]
	}
}
