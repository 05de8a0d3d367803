package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage wraps a folder of sequence files.
type Storage struct {
	Folder string
}

// NewStorage creates a Storage for the given folder.
func NewStorage(folder string) *Storage {
	return &Storage{Folder: folder}
}

// FormatOf picks the encoding from a file extension. Anything that is not
// .yaml or .yml is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Paths returns the sequence files in the folder in sorted order.
func (s *Storage) Paths() ([]string, error) {
	entries, err := os.ReadDir(s.Folder)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, filepath.Join(s.Folder, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// IterSequences reads every sequence file in the folder.
func (s *Storage) IterSequences() ([]Sequence, error) {
	paths, err := s.Paths()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.Folder, err)
	}
	seqs := make([]Sequence, 0, len(paths))
	for _, path := range paths {
		seq, err := ReadSequence(path)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, *seq)
	}
	slog.Debug("Sequences loaded", "folder", s.Folder, "count", len(seqs))
	return seqs, nil
}

// ReadSequence reads a single sequence file. A missing ID defaults to the
// file name without extension.
func ReadSequence(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	seq, err := DecodeSequence(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	seq.Path = path
	if seq.ID == "" {
		seq.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return seq, nil
}

// DecodeSequence parses one sequence from r.
func DecodeSequence(r io.Reader, format Format) (*Sequence, error) {
	var seq Sequence
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&seq); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&seq); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return &seq, nil
}
