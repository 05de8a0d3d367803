package crf

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Transitions holds the (T+2)×(T+2) transition score matrix, row-major.
// It is never mutated after construction.
type Transitions struct {
	n int
	w []float64
}

// NewTransitions creates transitions for numTags real tags with free scores drawn
// uniformly from [0, 1). A nil rng uses a time-seeded source.
//
// Column END and row START are set to Sentinel, so no path can leave END or
// enter START.
func NewTransitions(numTags int, rng *rand.Rand) (*Transitions, error) {
	if numTags < 0 {
		return nil, fmt.Errorf("%w: negative tag count %d", ErrDimension, numTags)
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	n := numTags + 2
	tr := &Transitions{n: n, w: make([]float64, n*n)}
	for i := range tr.w {
		tr.w[i] = rng.Float64()
	}

	start, end := tr.Start(), tr.End()
	for i := range n {
		tr.w[i*n+end] = Sentinel
		tr.w[start*n+i] = Sentinel
	}
	return tr, nil
}

// NewTransitionsFromMatrix wraps an explicit square matrix, copying it.
// The matrix is taken as-is; the sentinel invariant is the caller's concern
// (see CheckSentinels).
func NewTransitionsFromMatrix(m [][]float64) (*Transitions, error) {
	n := len(m)
	if n < 2 {
		return nil, fmt.Errorf("%w: matrix must be at least 2x2, got %d rows", ErrDimension, n)
	}
	tr := &Transitions{n: n, w: make([]float64, 0, n*n)}
	for i, row := range m {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrDimension, i, len(row), n)
		}
		tr.w = append(tr.w, row...)
	}
	return tr, nil
}

// NumTags returns the number of real tags T.
func (tr *Transitions) NumTags() int { return tr.n - 2 }

// Size returns T+2, the width of every score vector.
func (tr *Transitions) Size() int { return tr.n }

// Start returns the START tag ID.
func (tr *Transitions) Start() int { return tr.n - 2 }

// End returns the END tag ID.
func (tr *Transitions) End() int { return tr.n - 1 }

// At returns the score of transitioning into tag i from tag j.
func (tr *Transitions) At(i, j int) float64 {
	return tr.w[i*tr.n+j]
}

// Row returns the scores of transitioning into tag i from every tag.
// The returned slice aliases the matrix and must not be modified.
func (tr *Transitions) Row(i int) []float64 {
	return tr.w[i*tr.n : (i+1)*tr.n : (i+1)*tr.n]
}

// Matrix returns a copy of the matrix as nested rows.
func (tr *Transitions) Matrix() [][]float64 {
	m := make([][]float64, tr.n)
	for i := range tr.n {
		m[i] = append([]float64(nil), tr.Row(i)...)
	}
	return m
}

// CheckSentinels reports the first entry in the END column or START row that
// is not Sentinel.
func (tr *Transitions) CheckSentinels() error {
	start, end := tr.Start(), tr.End()
	for i := range tr.n {
		if v := tr.At(i, end); v != Sentinel {
			return fmt.Errorf("%w: [%d][%d] (from END) = %v", ErrSentinel, i, end, v)
		}
		if v := tr.At(start, i); v != Sentinel {
			return fmt.Errorf("%w: [%d][%d] (into START) = %v", ErrSentinel, start, i, v)
		}
	}
	return nil
}
