package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ezoic/cutflow/pkg/errors"
)

// FormatVersion is the envelope version written by this package.
const FormatVersion = "1.0"

// ModelSpec is the envelope header identifying a persisted model.
type ModelSpec struct {
	Name          string `json:"name"`
	FormatVersion string `json:"format_version"`
}

// Envelope is the on-disk form of a persisted model.
type Envelope struct {
	ModelSpec ModelSpec       `json:"model_spec"`
	Params    json.RawMessage `json:"params"`
}

// SaveJSON writes params wrapped in an envelope named name to filename.
//
// Example:
//
//	err := model.SaveJSON("cuts.json", "CutClassifier", params)
func SaveJSON(filename, name string, params interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return SaveJSONToWriter(file, name, params)
}

// SaveJSONToWriter writes params wrapped in an envelope named name to w.
func SaveJSONToWriter(w io.Writer, name string, params interface{}) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	env := Envelope{
		ModelSpec: ModelSpec{Name: name, FormatVersion: FormatVersion},
		Params:    paramsJSON,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&env); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return nil
}

// LoadJSON reads an envelope from filename, checks that it was written for
// a model called name and decodes its params into params.
func LoadJSON(filename, name string, params interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return LoadJSONFromReader(file, name, params)
}

// LoadJSONFromReader is the io.Reader form of LoadJSON.
func LoadJSONFromReader(r io.Reader, name string, params interface{}) error {
	env, err := DecodeEnvelope(r)
	if err != nil {
		return err
	}
	if env.ModelSpec.Name != name {
		return errors.NewValueError("LoadJSON",
			fmt.Sprintf("expected %s, got %s", name, env.ModelSpec.Name))
	}
	if err := json.Unmarshal(env.Params, params); err != nil {
		return fmt.Errorf("failed to unmarshal params: %w", err)
	}
	return nil
}

// DecodeEnvelope reads and validates an envelope header without decoding
// the params.
func DecodeEnvelope(r io.Reader) (*Envelope, error) {
	var env Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if env.ModelSpec.FormatVersion == "" {
		return nil, errors.NewValueError("DecodeEnvelope", "format_version is required")
	}
	if env.ModelSpec.FormatVersion != FormatVersion {
		return nil, errors.NewValueError("DecodeEnvelope",
			fmt.Sprintf("unsupported format version: %s", env.ModelSpec.FormatVersion))
	}
	if env.ModelSpec.Name == "" {
		return nil, errors.NewValueError("DecodeEnvelope", "model name is required")
	}
	if len(env.Params) == 0 {
		return nil, errors.NewValueError("DecodeEnvelope", "params are required")
	}
	return &env, nil
}
