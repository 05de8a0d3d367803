// Package crf implements Viterbi decoding for a linear-chain Conditional Random Field.
//
// A model with T real tags uses a (T+2)×(T+2) transition matrix. Tag T is the
// START sentinel and tag T+1 is the END sentinel; entry [i][j] scores the
// transition into tag i from tag j.
package crf

import (
	"errors"
	"slices"
)

// Sentinel is the score assigned to forbidden transitions.
const Sentinel = -10000.0

const (
	StartName = "<START>"
	EndName   = "<END>"
)

var (
	// ErrDimension is returned when matrix, emission and initial-score widths disagree.
	ErrDimension = errors.New("crf: dimension mismatch")
	// ErrSentinel is returned when the END column or START row holds a free score.
	ErrSentinel = errors.New("crf: sentinel invariant violated")
)

// Tagset maps between tag names and tag IDs.
// The reserved START and END IDs follow the real tags.
type Tagset struct {
	toID  map[string]int
	names []string
}

// NewTagset creates a tagset with the given real tag names, in ID order.
// Duplicate names keep their first ID.
func NewTagset(names ...string) *Tagset {
	ts := &Tagset{toID: make(map[string]int, len(names))}
	for _, name := range names {
		if _, ok := ts.toID[name]; ok {
			continue
		}
		ts.toID[name] = len(ts.names)
		ts.names = append(ts.names, name)
	}
	return ts
}

// Len returns the number of real tags.
func (ts *Tagset) Len() int {
	return len(ts.names)
}

// Names returns a copy of the real tag names.
func (ts *Tagset) Names() []string {
	return slices.Clone(ts.names)
}

// ID returns the ID for a tag name, or -1 if not found.
func (ts *Tagset) ID(name string) int {
	switch name {
	case StartName:
		return len(ts.names)
	case EndName:
		return len(ts.names) + 1
	}
	if id, ok := ts.toID[name]; ok {
		return id
	}
	return -1
}

// Name returns the name for a tag ID, or "" if out of range.
func (ts *Tagset) Name(id int) string {
	switch {
	case id >= 0 && id < len(ts.names):
		return ts.names[id]
	case id == len(ts.names):
		return StartName
	case id == len(ts.names)+1:
		return EndName
	}
	return ""
}
