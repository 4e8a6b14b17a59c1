// Package cut implements a histogram-driven cut-and-count classifier.
//
// For each scalar feature the search histograms the two classes, takes the
// bin edges where class dominance flips as threshold candidates, and scores
// every candidate pair under four region shapes (Left, Right, Middle,
// BothSides) with a pluggable loss. No gradients and no randomness are
// involved: identical inputs give bit-identical cuts.
//
// The pieces, leaves first:
//
//   - Histogram, Boundaries, BoundaryEdges: fixed-width binning and
//     dominance-flip detection
//   - CandidatePairs: deduplicated, ordered threshold pairs
//   - EvaluatePair: the four-case hypothesis test for one pair
//   - FitFeature: the exhaustive single-feature search
//   - Unit: the stateful per-feature cut
//   - Classifier: one Unit per feature combined in Parallel or Sequential
//     topology
//
// Example usage:
//
//	clf := cut.NewClassifier(4, 100, cut.WithTopology(cut.Sequential))
//	if err := clf.Fit(X, y); err != nil {
//		log.Fatal(err)
//	}
//	predictions, err := clf.Predict(XTest)
package cut

import (
	"context"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/core/model"
	"github.com/ezoic/cutflow/core/parallel"
	"github.com/ezoic/cutflow/metrics"
	"github.com/ezoic/cutflow/pkg/errors"
	"github.com/ezoic/cutflow/pkg/log"
	"github.com/ezoic/cutflow/preprocessing"
)

// DefaultName is the snapshot name of a classifier built without WithName.
const DefaultName = "cut_classifier"

// Classifier combines one Unit per feature into a single selection.
type Classifier struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	name     string
	nBins    int
	topology Topology
	loss     LossFunc
	workers  int

	units       []*Unit
	manual      bool
	warnings    []error
	labelFormat preprocessing.LabelFormat
}

// ClassifierOption is a functional option for Classifier.
type ClassifierOption func(*Classifier)

// WithTopology sets how the units are combined. The default is Parallel.
func WithTopology(t Topology) ClassifierOption {
	return func(c *Classifier) {
		c.topology = t
	}
}

// WithLoss sets the loss minimised by every unit. The default is
// metrics.BinaryCrossEntropy.
func WithLoss(loss LossFunc) ClassifierOption {
	return func(c *Classifier) {
		c.loss = loss
	}
}

// WithWorkers sets the number of goroutines used while fitting. In Parallel
// topology features are fitted concurrently; in Sequential topology the
// candidate pairs of each step are scored concurrently. Results do not
// depend on the worker count.
func WithWorkers(n int) ClassifierOption {
	return func(c *Classifier) {
		c.workers = n
	}
}

// WithLogger replaces the classifier's logger.
func WithLogger(l log.Logger) ClassifierOption {
	return func(c *Classifier) {
		c.logger = l
	}
}

// WithName sets the name stored in snapshots.
func WithName(name string) ClassifierOption {
	return func(c *Classifier) {
		c.name = name
	}
}

// NewClassifier creates an unfit classifier over nFeatures features with
// nBins histogram bins per feature.
func NewClassifier(nFeatures, nBins int, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		state:    model.NewStateManager(),
		name:     DefaultName,
		nBins:    nBins,
		topology: Parallel,
		loss:     DefaultLoss(),
		workers:  1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.loss == nil {
		c.loss = DefaultLoss()
	}
	if c.logger == nil {
		c.logger = log.GetLoggerWithName("cut").With(log.ModelNameKey, "Classifier")
	}

	c.units = make([]*Unit, max(nFeatures, 0))
	for j := range c.units {
		c.units[j] = c.newUnit(j)
	}
	return c
}

// NewManualClassifier builds a fitted classifier from hand-written cuts,
// one per feature in order. Its units count accepted samples in HitCount.
func NewManualClassifier(cuts []Parameters, opts ...ClassifierOption) (*Classifier, error) {
	if len(cuts) == 0 {
		return nil, errors.NewModelError("NewManualClassifier", "empty feature list", errors.ErrShapeMismatch)
	}
	c := NewClassifier(len(cuts), 0, opts...)
	for j, p := range cuts {
		u, err := NewManualUnit(j, p)
		if err != nil {
			return nil, err
		}
		c.units[j] = u
	}
	c.manual = true
	c.state.SetFitted()
	c.state.SetDimensions(len(cuts), 0)
	return c, nil
}

func (c *Classifier) newUnit(featureIndex int) *Unit {
	workers := 1
	if c.topology == Sequential {
		workers = c.workers
	}
	return NewUnit(featureIndex, c.nBins, WithUnitLoss(c.loss), WithUnitWorkers(workers))
}

// Fit trains the classifier on an (n_samples × n_features) matrix and a
// label matrix that is either a 0/1 column or a two-column one-hot pair.
func (c *Classifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "Classifier.Fit")

	format, err := preprocessing.DetectLabelFormat(y)
	if err != nil {
		return err
	}
	labels, err := preprocessing.EncodeLabels(y)
	if err != nil {
		return err
	}
	if err := c.FitColumns(dataset.Columns(X), labels); err != nil {
		return err
	}
	c.labelFormat = format
	return nil
}

// FitColumns trains every unit according to the classifier's topology.
//
// Shape and value errors are reported before any unit is touched.
// Degenerate features do not fail the fit: their units become
// pass-throughs and a DegenerateFeatureError is added to Warnings.
func (c *Classifier) FitColumns(cols []dataset.FeatureColumn, y *dataset.LabelVector) (err error) {
	defer errors.Recover(&err, "Classifier.FitColumns")

	const op = "Classifier.Fit"
	if c.manual {
		return errors.NewValueError(op, "manual classifiers cannot be fitted")
	}
	if c.nBins < MinBins {
		return errors.NewValidationError("n_bins", "must be at least 2", c.nBins)
	}
	if y == nil || y.Len() == 0 {
		return errors.NewModelError(op, "empty labels", errors.ErrEmptyData)
	}
	if len(cols) != len(c.units) {
		return errors.NewDimensionError(op, len(c.units), len(cols), 1)
	}
	if err := dataset.ValidateShape(op, cols, y.Len()); err != nil {
		return err
	}
	if err := y.Validate(op); err != nil {
		return err
	}

	start := time.Now()
	c.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, y.Len(),
		log.FeaturesKey, len(cols),
		log.BinsKey, c.nBins,
		log.TopologyKey, c.topology.String(),
	)

	c.state.Reset()
	c.warnings = nil
	for j := range c.units {
		c.units[j] = c.newUnit(j)
	}

	switch c.topology {
	case Sequential:
		err = c.fitSequential(cols, y)
	default:
		err = c.fitParallel(cols, y)
	}
	if err != nil {
		return err
	}

	for _, u := range c.units {
		if u.PassThrough() {
			w := errors.NewDegenerateFeatureError(u.FeatureIndex, u.Reason())
			c.warnings = append(c.warnings, w)
			c.logger.Warn("Feature left uncut", log.FeatureKey, u.FeatureIndex, "reason", u.Reason())
			continue
		}
		p, _ := u.Parameters()
		c.logger.Debug("Feature cut selected",
			log.FeatureKey, u.FeatureIndex,
			log.CaseKey, p.Case.String(),
			"lower", p.Lower,
			"upper", p.Upper,
			log.LossKey, u.Loss(),
			log.CandidatesKey, u.Candidates(),
		)
	}

	c.state.SetFitted()
	c.state.SetDimensions(len(cols), y.Len())
	c.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		"degenerate", len(c.warnings),
	)
	return nil
}

// fitParallel fits every unit on the full population. Units only write to
// themselves, so they may be fitted concurrently.
func (c *Classifier) fitParallel(cols []dataset.FeatureColumn, y *dataset.LabelVector) error {
	return parallel.ForEach(context.Background(), len(c.units), c.workers, func(_ context.Context, j int) error {
		return c.units[j].Fit(cols[j], y)
	})
}

// fitSequential fits the units in order, each on the samples that survived
// every earlier cut.
func (c *Classifier) fitSequential(cols []dataset.FeatureColumn, y *dataset.LabelVector) error {
	alive := make([]bool, y.Len())
	for i := range alive {
		alive[i] = true
	}

	for j, u := range c.units {
		idx := dataset.AliveIndices(alive)
		if len(idx) == 0 {
			u.fitResult(nil, "no samples survive earlier cuts")
			continue
		}
		x := cols[j].Restrict(idx)
		if err := u.Fit(x, y.Restrict(idx)); err != nil {
			return errors.Wrapf(err, "sequential step %d", j)
		}
		pred := u.predict(x)
		for k, i := range idx {
			if !pred[k] {
				alive[i] = false
			}
		}
		c.logger.Debug("Sequential step done", log.FeatureKey, j, log.AliveKey, len(idx))
	}
	return nil
}

// Predict returns an n×1 matrix of 0/1 decisions, or an n×2 one-hot matrix
// when the classifier was fitted on two-column labels.
func (c *Classifier) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "Classifier.Predict")

	pred, err := c.PredictColumns(dataset.Columns(X))
	if err != nil {
		return nil, err
	}
	return preprocessing.DecodePredictions(pred, c.labelFormat), nil
}

// PredictColumns returns one decision per sample, true meaning signal.
func (c *Classifier) PredictColumns(cols []dataset.FeatureColumn) (_ []bool, err error) {
	defer errors.Recover(&err, "Classifier.PredictColumns")

	if !c.state.IsFitted() {
		return nil, errors.NewNotFittedError("Classifier", "Predict")
	}
	const op = "Classifier.Predict"
	if len(cols) != len(c.units) {
		return nil, errors.NewDimensionError(op, len(c.units), len(cols), 1)
	}
	n := 0
	if len(cols) > 0 {
		n = len(cols[0])
	}
	if err := dataset.ValidateShape(op, cols, n); err != nil {
		return nil, err
	}

	alive := make([]bool, n)
	for i := range alive {
		alive[i] = true
	}

	for j, u := range c.units {
		if c.topology == Sequential {
			idx := dataset.AliveIndices(alive)
			pred := u.predict(cols[j].Restrict(idx))
			for k, i := range idx {
				alive[i] = pred[k]
			}
			continue
		}
		pred := u.predict(cols[j])
		for i, p := range pred {
			alive[i] = alive[i] && p
		}
	}

	c.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, n,
	)
	return alive, nil
}

// PredictLabels returns decisions as effective classes (1 = signal).
func (c *Classifier) PredictLabels(cols []dataset.FeatureColumn) ([]int, error) {
	pred, err := c.PredictColumns(cols)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(pred))
	for i, p := range pred {
		if p {
			out[i] = dataset.Signal
		}
	}
	return out, nil
}

// Evaluate returns the configured loss of the current predictions.
func (c *Classifier) Evaluate(cols []dataset.FeatureColumn, y *dataset.LabelVector) (_ float64, err error) {
	defer errors.Recover(&err, "Classifier.Evaluate")

	pred, err := c.predictFor(cols, y, "Classifier.Evaluate")
	if err != nil {
		return 0, err
	}
	loss := c.loss.Compute(y.Classes, pred, y.Weights)
	c.logger.Debug("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.SamplesKey, y.Len(),
		log.LossKey, loss,
	)
	return loss, nil
}

// ScoreColumns returns the selection metrics of the current predictions.
func (c *Classifier) ScoreColumns(cols []dataset.FeatureColumn, y *dataset.LabelVector) (_ metrics.ConfusionCounts, err error) {
	defer errors.Recover(&err, "Classifier.ScoreColumns")

	pred, err := c.predictFor(cols, y, "Classifier.Score")
	if err != nil {
		return metrics.ConfusionCounts{}, err
	}
	return metrics.Confusion(y.Classes, pred, y.Weights), nil
}

// Score returns the mean accuracy on the given data. Matrix labels carry no
// weights, so every sample counts once.
func (c *Classifier) Score(X, y mat.Matrix) (_ float64, err error) {
	defer errors.Recover(&err, "Classifier.Score")

	labels, err := preprocessing.EncodeLabels(y)
	if err != nil {
		return 0, err
	}
	pred, err := c.predictFor(dataset.Columns(X), labels, "Classifier.Score")
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyScore(labels.Classes, pred)
}

// predictFor predicts cols and checks y, weights included, against them.
func (c *Classifier) predictFor(cols []dataset.FeatureColumn, y *dataset.LabelVector, op string) ([]bool, error) {
	if y == nil {
		return nil, errors.NewModelError(op, "empty labels", errors.ErrEmptyData)
	}
	if err := y.Validate(op); err != nil {
		return nil, err
	}
	pred, err := c.PredictColumns(cols)
	if err != nil {
		return nil, err
	}
	if len(pred) != y.Len() {
		return nil, errors.NewDimensionError(op, len(pred), y.Len(), 0)
	}
	return pred, nil
}

// UnitSummary describes one unit after fitting.
type UnitSummary struct {
	FeatureIndex int
	Parameters   Parameters
	PassThrough  bool
	Loss         float64
}

// Summary lists every unit in feature order.
func (c *Classifier) Summary() []UnitSummary {
	out := make([]UnitSummary, len(c.units))
	for j, u := range c.units {
		p, ok := u.Parameters()
		out[j] = UnitSummary{
			FeatureIndex: u.FeatureIndex,
			Parameters:   p,
			PassThrough:  !ok,
			Loss:         u.Loss(),
		}
	}
	return out
}

// Units returns the classifier's units in feature order.
func (c *Classifier) Units() []*Unit {
	return c.units
}

// Warnings returns the DegenerateFeatureErrors of the last fit.
func (c *Classifier) Warnings() []error {
	return c.warnings
}

// IsFitted reports whether the classifier has been fitted or loaded.
func (c *Classifier) IsFitted() bool {
	return c.state.IsFitted()
}

// Topology returns the combination strategy.
func (c *Classifier) Topology() Topology {
	return c.topology
}

// NBins returns the per-feature bin count.
func (c *Classifier) NBins() int {
	return c.nBins
}

// Name returns the snapshot name.
func (c *Classifier) Name() string {
	return c.name
}

// GetParams returns the classifier hyperparameters.
func (c *Classifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"name":       c.name,
		"n_bins":     c.nBins,
		"n_features": len(c.units),
		"topology":   c.topology.String(),
		"workers":    c.workers,
	}
}
