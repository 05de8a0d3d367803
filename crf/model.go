package crf

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model pairs tag names with their transition scores.
type Model struct {
	Tags        *Tagset
	Transitions *Transitions
}

type modelJSON struct {
	Tags        []string    `json:"tags"`
	Transitions [][]float64 `json:"transitions"`
}

// NewModel checks that the tagset and transitions agree in size.
func NewModel(tags *Tagset, tr *Transitions) (*Model, error) {
	if tags.Len() != tr.NumTags() {
		return nil, fmt.Errorf("%w: %d tag names for %d tags", ErrDimension, tags.Len(), tr.NumTags())
	}
	return &Model{Tags: tags, Transitions: tr}, nil
}

// SaveModel serializes the model to JSON.
func SaveModel(model *Model, path string) error {
	data, err := json.MarshalIndent(toJSON(model), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadModel deserializes a model from JSON.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalModel(data)
}

// MarshalModel serializes the model to JSON bytes.
func MarshalModel(model *Model) ([]byte, error) {
	return json.Marshal(toJSON(model))
}

// UnmarshalModel deserializes a model from JSON bytes.
func UnmarshalModel(data []byte) (*Model, error) {
	var mj modelJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return nil, err
	}
	tr, err := NewTransitionsFromMatrix(mj.Transitions)
	if err != nil {
		return nil, err
	}
	return NewModel(NewTagset(mj.Tags...), tr)
}

func toJSON(model *Model) modelJSON {
	return modelJSON{
		Tags:        model.Tags.Names(),
		Transitions: model.Transitions.Matrix(),
	}
}
