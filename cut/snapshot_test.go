package cut_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/cut"
	"github.com/ezoic/cutflow/datasets"
	"github.com/ezoic/cutflow/pkg/errors"
)

func fittedFourShapes(t *testing.T, topo cut.Topology) (*cut.Classifier, *datasets.Sample) {
	t.Helper()
	s, err := datasets.FourShapes(1000, 21)
	require.NoError(t, err)
	clf := cut.NewClassifier(4, 50, cut.WithTopology(topo), cut.WithName("shapes"), cut.WithLogger(quietLogger()))
	require.NoError(t, clf.FitColumns(s.Columns, s.Labels))
	return clf, s
}

func parameters(clf *cut.Classifier) []cut.Parameters {
	var out []cut.Parameters
	for _, s := range clf.Summary() {
		out = append(out, s.Parameters)
	}
	return out
}

func TestSnapshotRoundTrip(t *testing.T) {
	for _, topo := range []cut.Topology{cut.Parallel, cut.Sequential} {
		t.Run(topo.String(), func(t *testing.T) {
			clf, s := fittedFourShapes(t, topo)

			var buf bytes.Buffer
			require.NoError(t, clf.WriteSnapshot(&buf))
			loaded, err := cut.ReadSnapshot(&buf, cut.WithLogger(quietLogger()))
			require.NoError(t, err)

			assert.Equal(t, "shapes", loaded.Name())
			assert.Equal(t, topo, loaded.Topology())
			assert.Equal(t, 50, loaded.NBins())
			if diff := cmp.Diff(parameters(clf), parameters(loaded), cmpopts.EquateNaNs()); diff != "" {
				t.Errorf("parameters mismatch (-want +got):\n%s", diff)
			}

			want, err := clf.PredictColumns(s.Columns)
			require.NoError(t, err)
			got, err := loaded.PredictColumns(s.Columns)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSnapshotFile(t *testing.T) {
	clf, _ := fittedFourShapes(t, cut.Parallel)
	path := filepath.Join(t.TempDir(), "cuts.json")
	require.NoError(t, clf.SaveSnapshot(path))

	loaded, err := cut.LoadSnapshot(path, cut.WithLogger(quietLogger()))
	require.NoError(t, err)
	if diff := cmp.Diff(parameters(clf), parameters(loaded), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}

	_, err = cut.LoadSnapshot(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestSnapshotJSONLayout(t *testing.T) {
	x, y := leftSeparable()
	constant := make(dataset.FeatureColumn, len(x))
	clf := cut.NewClassifier(2, 10, cut.WithLogger(quietLogger()))
	require.NoError(t, clf.FitColumns([]dataset.FeatureColumn{x, constant}, y))

	data, err := json.Marshal(clf)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "parallel", raw["topology"])
	assert.Equal(t, []interface{}{"left", "pass"}, raw["signal_locations"])
	assert.Equal(t, []interface{}{
		[]interface{}{0.0, nil},
		[]interface{}{nil, nil},
	}, raw["cuts"])

	var restored cut.Classifier
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.True(t, restored.IsFitted())
	assert.True(t, restored.Units()[1].PassThrough())
	if diff := cmp.Diff(parameters(clf), parameters(&restored), cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotErrors(t *testing.T) {
	unfit := cut.NewClassifier(1, 10, cut.WithLogger(quietLogger()))
	_, err := json.Marshal(unfit)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
	assert.True(t, errors.Is(unfit.SaveSnapshot(filepath.Join(t.TempDir(), "x.json")), errors.ErrNotFitted))

	tests := map[string]string{
		"wrong model":   `{"model_spec":{"name":"Other","format_version":"1.0"},"params":{}}`,
		"wrong version": `{"model_spec":{"name":"CutClassifier","format_version":"0.1"},"params":{}}`,
		"unknown case": `{"model_spec":{"name":"CutClassifier","format_version":"1.0"},"params":
			{"feature_indices":[0],"signal_locations":["diagonal"],"cuts":[[1,null]]}}`,
		"missing upper": `{"model_spec":{"name":"CutClassifier","format_version":"1.0"},"params":
			{"feature_indices":[0],"signal_locations":["middle"],"cuts":[[1,null]]}}`,
		"length mismatch": `{"model_spec":{"name":"CutClassifier","format_version":"1.0"},"params":
			{"feature_indices":[0,1],"signal_locations":["left"],"cuts":[[1,null]]}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := cut.ReadSnapshot(strings.NewReader(body), cut.WithLogger(quietLogger()))
			assert.Error(t, err)
		})
	}
}

func TestSnapshotManualKeepsCounting(t *testing.T) {
	clf, err := cut.NewManualClassifier([]cut.Parameters{
		{Lower: -1, Upper: 1, Case: cut.Middle},
	}, cut.WithLogger(quietLogger()))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, clf.WriteSnapshot(&buf))
	loaded, err := cut.ReadSnapshot(&buf, cut.WithLogger(quietLogger()))
	require.NoError(t, err)

	_, err = loaded.PredictColumns([]dataset.FeatureColumn{{-2, 0, 0.5}})
	require.NoError(t, err)
	assert.True(t, loaded.Units()[0].Manual())
	assert.Equal(t, uint64(2), loaded.Units()[0].HitCount())
}
