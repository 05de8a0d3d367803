// Package storage reads emission sequences from JSON and YAML files.
package storage

// Sequence is one emission sequence, optionally with gold tag names.
type Sequence struct {
	ID        string      `json:"id" yaml:"id"`
	Emissions [][]float64 `json:"emissions" yaml:"emissions"`
	Tags      []string    `json:"tags,omitempty" yaml:"tags,omitempty"` // gold labels, one per step

	// Path is the file the sequence was read from; empty for stdin.
	Path string `json:"-" yaml:"-"`
}

// Format is a sequence file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)
