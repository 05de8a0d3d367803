package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"seq.json", FormatJSON},
		{"seq.yaml", FormatYAML},
		{"dir/seq.YML", FormatYAML},
		{"seq", FormatJSON},
		{"seq.txt", FormatJSON},
	}
	for _, tt := range tests {
		if got := FormatOf(tt.path); got != tt.want {
			t.Errorf("FormatOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDecodeSequence(t *testing.T) {
	fromJSON, err := DecodeSequence(strings.NewReader(
		`{"id": "s1", "emissions": [[1, 2, 0, 0], [3, 4, 0, 0]], "tags": ["A", "B"]}`), FormatJSON)
	require.NoError(t, err)

	fromYAML, err := DecodeSequence(strings.NewReader(`
id: s1
emissions:
  - [1, 2, 0, 0]
  - [3, 4, 0, 0]
tags: [A, B]
`), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
	assert.Equal(t, [][]float64{{1, 2, 0, 0}, {3, 4, 0, 0}}, fromYAML.Emissions)

	_, err = DecodeSequence(strings.NewReader(`{`), FormatJSON)
	assert.Error(t, err)
	_, err = DecodeSequence(strings.NewReader(`{}`), Format("xml"))
	assert.Error(t, err)
}

func TestIterSequences(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.yaml":     "emissions:\n  - [0.5, 0, 0]\n",
		"a.json":     `{"id": "first", "emissions": [[1, 0, 0]]}`,
		"notes.txt":  "ignored",
		"c.json.bak": "ignored",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	seqs, err := NewStorage(dir).IterSequences()
	require.NoError(t, err)
	require.Len(t, seqs, 2)

	assert.Equal(t, "first", seqs[0].ID)
	assert.Equal(t, filepath.Join(dir, "a.json"), seqs[0].Path)
	assert.Equal(t, "b", seqs[1].ID)
	assert.Equal(t, [][]float64{{0.5, 0, 0}}, seqs[1].Emissions)
}

func TestIterSequencesBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644))

	_, err := NewStorage(dir).IterSequences()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}
