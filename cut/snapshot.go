package cut

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/ezoic/cutflow/core/model"
	"github.com/ezoic/cutflow/pkg/errors"
	"github.com/ezoic/cutflow/preprocessing"
)

// SnapshotModelName is the model_spec name written in snapshot envelopes.
const SnapshotModelName = "CutClassifier"

// passLocation marks a pass-through unit in signal_locations.
const passLocation = "pass"

// snapshot is the persisted form of a fitted classifier. cuts holds
// [lower, upper] per feature, with upper null for one-sided cases and both
// null for pass-through units.
type snapshot struct {
	Name            string        `json:"name"`
	NBins           int           `json:"n_bins"`
	Topology        Topology      `json:"topology"`
	FeatureIndices  []int         `json:"feature_indices"`
	SignalLocations []string      `json:"signal_locations"`
	Cuts            [][2]*float64 `json:"cuts"`
	Manual          bool          `json:"manual,omitempty"`
	LabelFormat     string        `json:"label_format,omitempty"`
}

// MarshalJSON encodes the learned parameters of a fitted classifier.
func (c *Classifier) MarshalJSON() ([]byte, error) {
	snap, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	return json.Marshal(snap)
}

// UnmarshalJSON replaces the classifier's units with the encoded ones.
// Loss, logger and worker settings are kept.
func (c *Classifier) UnmarshalJSON(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return c.restore(&snap)
}

// SaveSnapshot writes the classifier to filename.
func (c *Classifier) SaveSnapshot(filename string) error {
	snap, err := c.snapshot()
	if err != nil {
		return err
	}
	return model.SaveJSON(filename, SnapshotModelName, snap)
}

// WriteSnapshot writes the classifier to w.
func (c *Classifier) WriteSnapshot(w io.Writer) error {
	snap, err := c.snapshot()
	if err != nil {
		return err
	}
	return model.SaveJSONToWriter(w, SnapshotModelName, snap)
}

// LoadSnapshot reads a classifier written by SaveSnapshot. opts configure
// what the snapshot does not carry, such as the loss and logger.
func LoadSnapshot(filename string, opts ...ClassifierOption) (*Classifier, error) {
	var snap snapshot
	if err := model.LoadJSON(filename, SnapshotModelName, &snap); err != nil {
		return nil, err
	}
	c := NewClassifier(0, 0, opts...)
	if err := c.restore(&snap); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadSnapshot reads a classifier written by WriteSnapshot.
func ReadSnapshot(r io.Reader, opts ...ClassifierOption) (*Classifier, error) {
	var snap snapshot
	if err := model.LoadJSONFromReader(r, SnapshotModelName, &snap); err != nil {
		return nil, err
	}
	c := NewClassifier(0, 0, opts...)
	if err := c.restore(&snap); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Classifier) snapshot() (*snapshot, error) {
	if !c.state.IsFitted() {
		return nil, errors.NewNotFittedError("Classifier", "Snapshot")
	}
	snap := &snapshot{
		Name:            c.name,
		NBins:           c.nBins,
		Topology:        c.topology,
		FeatureIndices:  make([]int, len(c.units)),
		SignalLocations: make([]string, len(c.units)),
		Cuts:            make([][2]*float64, len(c.units)),
		Manual:          c.manual,
		LabelFormat:     c.labelFormat.String(),
	}
	for j, u := range c.units {
		snap.FeatureIndices[j] = u.FeatureIndex
		p, ok := u.Parameters()
		if !ok {
			snap.SignalLocations[j] = passLocation
			continue
		}
		snap.SignalLocations[j] = p.Case.String()
		lower := p.Lower
		snap.Cuts[j][0] = &lower
		if p.Case.TwoSided() {
			upper := p.Upper
			snap.Cuts[j][1] = &upper
		}
	}
	return snap, nil
}

func (c *Classifier) restore(snap *snapshot) error {
	if c.state == nil {
		*c = *NewClassifier(0, 0)
	}
	n := len(snap.FeatureIndices)
	if len(snap.SignalLocations) != n {
		return errors.NewDimensionError("Classifier.Restore", n, len(snap.SignalLocations), 1)
	}
	if len(snap.Cuts) != n {
		return errors.NewDimensionError("Classifier.Restore", n, len(snap.Cuts), 1)
	}

	units := make([]*Unit, n)
	for j := 0; j < n; j++ {
		u := NewUnit(snap.FeatureIndices[j], snap.NBins, WithUnitLoss(c.loss))
		if snap.SignalLocations[j] == passLocation {
			u.fitResult(nil, "restored pass-through")
			units[j] = u
			continue
		}

		cs, err := ParseCase(snap.SignalLocations[j])
		if err != nil {
			return errors.Wrapf(err, "feature %d", j)
		}
		cutPair := snap.Cuts[j]
		if cutPair[0] == nil {
			return errors.NewValidationError("cuts", fmt.Sprintf("missing lower threshold for feature %d", j), nil)
		}
		p := Parameters{Lower: *cutPair[0], Upper: math.NaN(), Case: cs}
		if cs.TwoSided() {
			if cutPair[1] == nil {
				return errors.NewValidationError("cuts", fmt.Sprintf("missing upper threshold for feature %d", j), nil)
			}
			p.Upper = *cutPair[1]
		}
		if err := p.Validate(); err != nil {
			return errors.Wrapf(err, "feature %d", j)
		}
		u.fitResult(&Result{Parameters: p, Loss: math.NaN()}, "")
		u.manual = snap.Manual
		units[j] = u
	}

	c.name = snap.Name
	c.nBins = snap.NBins
	c.topology = snap.Topology
	c.units = units
	c.manual = snap.Manual
	c.warnings = nil
	c.labelFormat = preprocessing.Binary
	if snap.LabelFormat == preprocessing.Categorical.String() {
		c.labelFormat = preprocessing.Categorical
	}
	c.state.SetFitted()
	c.state.SetDimensions(n, 0)
	return nil
}
