package model_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/cutflow/core/model"
	"github.com/ezoic/cutflow/pkg/errors"
)

type testParams struct {
	NBins int       `json:"n_bins"`
	Cuts  []float64 `json:"cuts"`
}

func TestSaveLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	in := testParams{NBins: 100, Cuts: []float64{-0.5, 1.25}}

	require.NoError(t, model.SaveJSON(path, "CutClassifier", in))

	var out testParams
	require.NoError(t, model.LoadJSON(path, "CutClassifier", &out))
	assert.Equal(t, in, out)
}

func TestSaveLoadJSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	in := testParams{NBins: 10, Cuts: []float64{3}}
	require.NoError(t, model.SaveJSONToWriter(&buf, "CutClassifier", in))
	assert.Contains(t, buf.String(), `"format_version": "1.0"`)

	var out testParams
	require.NoError(t, model.LoadJSONFromReader(&buf, "CutClassifier", &out))
	assert.Equal(t, in, out)
}

func TestLoadJSONWrongName(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, model.SaveJSONToWriter(&buf, "Other", testParams{}))

	var out testParams
	err := model.LoadJSONFromReader(&buf, "CutClassifier", &out)
	var valErr *errors.ValueError
	require.True(t, errors.As(err, &valErr))
	assert.Contains(t, valErr.Message, "expected CutClassifier, got Other")
}

func TestDecodeEnvelopeValidation(t *testing.T) {
	cases := map[string]string{
		"missing version": `{"model_spec":{"name":"x"},"params":{}}`,
		"bad version":     `{"model_spec":{"name":"x","format_version":"9"},"params":{}}`,
		"missing name":    `{"model_spec":{"format_version":"1.0"},"params":{}}`,
		"missing params":  `{"model_spec":{"name":"x","format_version":"1.0"}}`,
		"not json":        `{`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := model.DecodeEnvelope(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadJSONFileNotFound(t *testing.T) {
	var out testParams
	err := model.LoadJSON("nonexistent_file.json", "CutClassifier", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestSaveJSONInvalidPath(t *testing.T) {
	err := model.SaveJSON("/invalid/path/model.json", "CutClassifier", testParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create file")
}
