package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// B, I, O with the END column and START row forbidden.
const bioModel = `{
  "tags": ["B", "I", "O"],
  "transitions": [
    [-1.2, -1.1, 1.8, 2.2, -10000],
    [3.1, 2.0, -0.3, -0.4, -10000],
    [1.7, -0.2, 1.8, 1.1, -10000],
    [-10000, -10000, -10000, -10000, -10000],
    [1.1, 1.3, 2.1, -0.4, -10000]
  ]
}`

const bioSequence = `{"id": "s1", "emissions": [
  [3.7, 1.4, 1.2, -0.1, -1.2],
  [2.6, 4.1, 0.9, -0.7, -2.1],
  [0.2, 0.5, 2.4, -0.4, -0.8],
  [3.6, 0.4, 1.1, -0.2, -0.5]
], "tags": ["B", "I", "O", "B"]}`

const bioSequenceYAML = `emissions:
  - [3.7, 1.4, 1.2, -0.1, -1.2]
  - [2.6, 4.1, 0.9, -0.7, -2.1]
tags: [B, B]
`

type decoded struct {
	ID    string   `json:"id"`
	Score float64  `json:"score"`
	Path  []int    `json:"path"`
	Tags  []string `json:"tags"`
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"TAGSEQ_MODEL", "TAGSEQ_WORKERS", "TAGSEQ_JOBS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	c := New("test")
	var out bytes.Buffer
	c.rootCmd.SetOut(&out)
	c.rootCmd.SetErr(&out)
	c.rootCmd.SetIn(strings.NewReader(stdin))
	c.rootCmd.SetArgs(append([]string{"-s"}, args...))
	err := c.Run()
	return out.String(), err
}

func writeFixtures(t *testing.T) (modelPath, seqDir string) {
	t.Helper()
	dir := t.TempDir()
	modelPath = filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(bioModel), 0644))

	seqDir = filepath.Join(dir, "seqs")
	require.NoError(t, os.Mkdir(seqDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(seqDir, "a.json"), []byte(bioSequence), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(seqDir, "b.yaml"), []byte(bioSequenceYAML), 0644))
	return modelPath, seqDir
}

func TestDecodeFile(t *testing.T) {
	modelPath, seqDir := writeFixtures(t)

	out, err := execute(t, "", "decode", filepath.Join(seqDir, "a.json"), "--model", modelPath)
	require.NoError(t, err)

	var res decoded
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "s1", res.ID)
	assert.Equal(t, []int{0, 1, 2, 0}, res.Path)
	assert.Equal(t, []string{"B", "I", "O", "B"}, res.Tags)
	assert.InDelta(t, 21.8, res.Score, 1e-9)
}

func TestDecodeFolder(t *testing.T) {
	modelPath, seqDir := writeFixtures(t)

	out, err := execute(t, "", "decode", seqDir, "--model", modelPath, "--jobs", "2", "--workers", "2")
	require.NoError(t, err)

	var res []decoded
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res, 2)
	assert.Equal(t, "s1", res[0].ID)
	assert.Equal(t, []string{"B", "I", "O", "B"}, res[0].Tags)
	assert.Equal(t, "b", res[1].ID)
	assert.Equal(t, []string{"B", "I"}, res[1].Tags)
	assert.InDelta(t, 14.4, res[1].Score, 1e-9)
}

func TestDecodeStdin(t *testing.T) {
	modelPath, _ := writeFixtures(t)

	out, err := execute(t, bioSequenceYAML, "decode", "--model", modelPath, "--format", "yaml")
	require.NoError(t, err)

	var res decoded
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []int{0, 1}, res.Path)
}

func TestDecodeModelFromEnv(t *testing.T) {
	modelPath, seqDir := writeFixtures(t)
	target := filepath.Join(seqDir, "a.json")

	for _, key := range []string{"TAGSEQ_WORKERS", "TAGSEQ_JOBS"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	t.Setenv("TAGSEQ_MODEL", modelPath)

	c := New("test")
	var out bytes.Buffer
	c.rootCmd.SetOut(&out)
	c.rootCmd.SetArgs([]string{"-s", "decode", target})
	require.NoError(t, c.Run())
	assert.Contains(t, out.String(), `"s1"`)
}

func TestDecodeDimensionMismatch(t *testing.T) {
	modelPath, _ := writeFixtures(t)

	_, err := execute(t, `{"emissions": [[1, 2, 3]]}`, "decode", "--model", modelPath)
	assert.Error(t, err)
}

func TestInitThenDecode(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.json")

	_, err := execute(t, "", "init", modelPath, "--tags", "PER,LOC,ORG,O", "--seed", "7")
	require.NoError(t, err)

	seq := `{"emissions": [[0, 0, 9, 0, 0, 0], [0, 0, 0, 9, 0, 0], [9, 0, 0, 0, 0, 0]]}`
	out, err := execute(t, seq, "decode", "--model", modelPath)
	require.NoError(t, err)

	var res decoded
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"ORG", "O", "PER"}, res.Tags)
}

func TestEvaluate(t *testing.T) {
	modelPath, seqDir := writeFixtures(t)

	out, err := execute(t, "", "evaluate", seqDir, "--model", modelPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Tag accuracy: 83.3% (5/6 tags)")
	assert.Contains(t, out, "Sequence accuracy: 50.0% (1/2 sequences)")
	assert.Contains(t, out, "Confusion matrix")
}

func TestEvaluateNoLabels(t *testing.T) {
	modelPath, _ := writeFixtures(t)
	empty := t.TempDir()

	_, err := execute(t, "", "evaluate", empty, "--model", modelPath)
	assert.Error(t, err)
}
