// Package plotting draws the class histograms of a feature together with
// the cut a classifier learned on it.
package plotting

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/cut"
	"github.com/ezoic/cutflow/pkg/errors"
)

var (
	signalColor     = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0x90}
	backgroundColor = color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0x90}
	cutColor        = color.Black
)

// Width and Height of saved figures.
var (
	Width  = 8 * vg.Inch
	Height = 5 * vg.Inch
)

// FeatureHistogram returns a plot of the signal and background histograms
// of x over nBins shared bins. When params is non-nil its thresholds are
// drawn as vertical lines.
func FeatureHistogram(title string, x dataset.FeatureColumn, y *dataset.LabelVector, nBins int, params *cut.Parameters) (*plot.Plot, error) {
	if len(x) == 0 || y == nil {
		return nil, errors.NewModelError("FeatureHistogram", "empty data", errors.ErrEmptyData)
	}
	if len(x) != y.Len() {
		return nil, errors.NewDimensionError("FeatureHistogram", y.Len(), len(x), 0)
	}
	if nBins < cut.MinBins {
		return nil, errors.NewValidationError("n_bins", "must be at least 2", nBins)
	}
	if err := x.Validate("FeatureHistogram", 0); err != nil {
		return nil, err
	}

	lo, hi := floats.Min(x), floats.Max(x)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	var signal, background []float64
	for i, v := range x {
		if y.Classes[i] == dataset.Signal {
			signal = append(signal, v)
		} else {
			background = append(background, v)
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "value"
	p.Y.Label.Text = "count"

	for _, class := range []struct {
		name   string
		values []float64
		fill   color.Color
	}{
		{"background", background, backgroundColor},
		{"signal", signal, signalColor},
	} {
		if len(class.values) == 0 {
			continue
		}
		h := classHistogram(class.values, lo, hi, nBins, class.fill)
		p.Add(h)
		p.Legend.Add(class.name, h)
	}

	if params != nil {
		thresholds := []float64{params.Lower}
		if params.Case.TwoSided() {
			thresholds = append(thresholds, params.Upper)
		}
		for _, t := range thresholds {
			line, err := verticalLine(t, p.Y.Max)
			if err != nil {
				return nil, err
			}
			p.Add(line)
		}
		p.Legend.Add(fmt.Sprintf("cut: %s", params), verticalLineThumb())
	}
	return p, nil
}

func classHistogram(values []float64, lo, hi float64, nBins int, fill color.Color) *plotter.Histogram {
	counts, edges := cut.Histogram(values, lo, hi, nBins)
	bins := make([]plotter.HistogramBin, nBins)
	for i, c := range counts {
		bins[i] = plotter.HistogramBin{Min: edges[i], Max: edges[i+1], Weight: float64(c)}
	}
	return &plotter.Histogram{
		Bins:      bins,
		Width:     (hi - lo) / float64(nBins),
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	}
}

func verticalLine(x, yMax float64) (*plotter.Line, error) {
	if math.IsInf(yMax, 0) || yMax <= 0 {
		yMax = 1
	}
	line, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: yMax}})
	if err != nil {
		return nil, err
	}
	line.Color = cutColor
	line.Width = vg.Points(2)
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	return line, nil
}

func verticalLineThumb() plot.Thumbnailer {
	line := &plotter.Line{LineStyle: plotter.DefaultLineStyle}
	line.Color = cutColor
	line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
	return line
}

// SaveFeatureHistogram renders FeatureHistogram to path. The format follows
// the file extension (png, svg, pdf, ...).
func SaveFeatureHistogram(path, title string, x dataset.FeatureColumn, y *dataset.LabelVector, nBins int, params *cut.Parameters) error {
	p, err := FeatureHistogram(title, x, y, nBins, params)
	if err != nil {
		return err
	}
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// SaveClassifier writes one figure per feature of a fitted classifier into
// dir as feature_<index>.<ext> and returns the written paths.
func SaveClassifier(dir, ext string, clf *cut.Classifier, cols []dataset.FeatureColumn, y *dataset.LabelVector) ([]string, error) {
	if !clf.IsFitted() {
		return nil, errors.NewNotFittedError("Classifier", "SaveClassifier")
	}
	summary := clf.Summary()
	if len(cols) != len(summary) {
		return nil, errors.NewDimensionError("SaveClassifier", len(summary), len(cols), 1)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create plot directory: %w", err)
	}

	nBins := clf.NBins()
	if nBins < cut.MinBins {
		nBins = 50
	}
	paths := make([]string, 0, len(summary))
	for j, s := range summary {
		var params *cut.Parameters
		if !s.PassThrough {
			p := s.Parameters
			params = &p
		}
		path := filepath.Join(dir, fmt.Sprintf("feature_%d.%s", s.FeatureIndex, ext))
		title := fmt.Sprintf("feature %d", s.FeatureIndex)
		if err := SaveFeatureHistogram(path, title, cols[j], y, nBins, params); err != nil {
			return nil, errors.Wrapf(err, "feature %d", s.FeatureIndex)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
