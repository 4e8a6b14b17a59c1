package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/ezoic/cutflow/core/dataset"
	"github.com/ezoic/cutflow/cut"
	"github.com/ezoic/cutflow/datasets"
	"github.com/ezoic/cutflow/metrics"
	"github.com/ezoic/cutflow/pkg/config"
	"github.com/ezoic/cutflow/pkg/errors"
	"github.com/ezoic/cutflow/pkg/log"
	"github.com/ezoic/cutflow/plotting"
	"github.com/ezoic/cutflow/preprocessing"
)

func (a *app) newSynthCmd() *cobra.Command {
	var (
		n           int
		seed        uint64
		shape       string
		outFeatures string
		outLabels   string
	)
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic labelled sample as .npy files",
		Long: `Generates n signal and n background samples.
  gaussians: one feature, signal ~ N(-3, 2), background ~ N(3, 2)
  shapes:    four features separable by left, right, middle and both_sides cuts`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				s   *datasets.Sample
				err error
			)
			switch shape {
			case "gaussians":
				s, err = datasets.TwoGaussians(n, 3, 2, seed)
			case "shapes":
				s, err = datasets.FourShapes(n, seed)
			default:
				return errors.NewValidationError("shape", "must be gaussians or shapes", shape)
			}
			if err != nil {
				return err
			}

			X := mat.NewDense(s.Len(), len(s.Columns), nil)
			for j, col := range s.Columns {
				X.SetCol(j, col)
			}
			y := mat.NewDense(s.Len(), 1, nil)
			for i, c := range s.Labels.Classes {
				y.Set(i, 0, float64(c))
			}
			if err := writeNpy(outFeatures, X); err != nil {
				return err
			}
			if err := writeNpy(outLabels, y); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "wrote %d samples with %d features\n", s.Len(), len(s.Columns))
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "samples", "n", 5000, "samples per class")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().StringVar(&shape, "shape", "gaussians", "gaussians or shapes")
	cmd.Flags().StringVar(&outFeatures, "out-features", "features.npy", "feature matrix output")
	cmd.Flags().StringVar(&outLabels, "out-labels", "labels.npy", "label output")
	return cmd
}

func (a *app) newFitCmd() *cobra.Command {
	var features, labels, modelPath string
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Learn one cut per feature and write a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyFlags(cmd)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			X, err := readMatrix(features)
			if err != nil {
				return err
			}
			y, err := readMatrix(labels)
			if err != nil {
				return err
			}

			name := filepath.Base(modelPath)
			clf, err := a.newClassifier(X, strings.TrimSuffix(name, filepath.Ext(name)))
			if err != nil {
				return err
			}
			if err := clf.Fit(X, y); err != nil {
				return err
			}
			if err := clf.SaveSnapshot(modelPath); err != nil {
				return err
			}

			for _, s := range clf.Summary() {
				if s.PassThrough {
					fmt.Fprintf(a.out, "feature %d: pass\n", s.FeatureIndex)
					continue
				}
				fmt.Fprintf(a.out, "feature %d: %s loss=%.6g\n", s.FeatureIndex, s.Parameters, s.Loss)
			}

			if a.cfg.PlotDir != "" {
				encoded, err := preprocessing.EncodeLabels(y)
				if err != nil {
					return err
				}
				paths, err := plotting.SaveClassifier(a.cfg.PlotDir, "png", clf, dataset.Columns(X), encoded)
				if err != nil {
					return err
				}
				log.GetLoggerWithName("cli").Info("Plots written", "dir", a.cfg.PlotDir, "count", len(paths))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&features, "features", "features.npy", "feature matrix (.npy, n_samples x n_features)")
	cmd.Flags().StringVar(&labels, "labels", "labels.npy", "labels (.npy, 0/1 column or two-column one-hot)")
	cmd.Flags().StringVar(&modelPath, "model", "cuts.json", "snapshot output")
	cmd.Flags().Int("n-bins", 0, "histogram bins per feature")
	cmd.Flags().String("topology", "", "parallel or sequential")
	cmd.Flags().String("loss", "", "cross_entropy, error or balanced")
	cmd.Flags().Int("workers", 0, "fit goroutines")
	cmd.Flags().String("plot-dir", "", "write per-feature histograms here")
	return cmd
}

func (a *app) newPredictCmd() *cobra.Command {
	var features, modelPath, out string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Apply a snapshot to a feature matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			clf, err := cut.LoadSnapshot(modelPath)
			if err != nil {
				return err
			}
			X, err := readMatrix(features)
			if err != nil {
				return err
			}
			pred, err := clf.Predict(X)
			if err != nil {
				return err
			}
			if err := writeNpy(out, pred); err != nil {
				return err
			}
			r, _ := pred.Dims()
			fmt.Fprintf(a.out, "wrote %d predictions to %s\n", r, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&features, "features", "features.npy", "feature matrix (.npy)")
	cmd.Flags().StringVar(&modelPath, "model", "cuts.json", "snapshot")
	cmd.Flags().StringVar(&out, "out", "predictions.npy", "prediction output")
	return cmd
}

func (a *app) newEvaluateCmd() *cobra.Command {
	var features, labels, modelPath string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Report selection metrics of a snapshot on labelled data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyFlags(cmd)
			loss, err := lossByName(a.cfg.Loss)
			if err != nil {
				return err
			}
			clf, err := cut.LoadSnapshot(modelPath, cut.WithLoss(loss))
			if err != nil {
				return err
			}
			X, err := readMatrix(features)
			if err != nil {
				return err
			}
			y, err := readMatrix(labels)
			if err != nil {
				return err
			}
			encoded, err := preprocessing.EncodeLabels(y)
			if err != nil {
				return err
			}

			cols := dataset.Columns(X)
			counts, err := clf.ScoreColumns(cols, encoded)
			if err != nil {
				return err
			}
			value, err := clf.Evaluate(cols, encoded)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "loss (%s):           %.6g\n", a.cfg.Loss, value)
			fmt.Fprintf(a.out, "accuracy:             %.4f\n", counts.Accuracy())
			fmt.Fprintf(a.out, "signal efficiency:    %.4f\n", counts.SignalEfficiency())
			fmt.Fprintf(a.out, "background rejection: %.4f\n", counts.BackgroundRejection())
			fmt.Fprintf(a.out, "purity:               %.4f\n", counts.Purity())
			fmt.Fprintf(a.out, "significance:         %.4f\n", counts.Significance())
			return nil
		},
	}
	cmd.Flags().StringVar(&features, "features", "features.npy", "feature matrix (.npy)")
	cmd.Flags().StringVar(&labels, "labels", "labels.npy", "labels (.npy)")
	cmd.Flags().StringVar(&modelPath, "model", "cuts.json", "snapshot")
	cmd.Flags().String("loss", "", "cross_entropy, error or balanced")
	return cmd
}

// applyFlags copies explicitly set flags over the loaded configuration.
func (a *app) applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("n-bins") {
		a.cfg.NBins, _ = flags.GetInt("n-bins")
	}
	if flags.Changed("topology") {
		a.cfg.Topology, _ = flags.GetString("topology")
	}
	if flags.Changed("loss") {
		a.cfg.Loss, _ = flags.GetString("loss")
	}
	if flags.Changed("workers") {
		a.cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("plot-dir") {
		a.cfg.PlotDir, _ = flags.GetString("plot-dir")
	}
}

func (a *app) newClassifier(X mat.Matrix, name string) (*cut.Classifier, error) {
	topology, err := cut.ParseTopology(a.cfg.Topology)
	if err != nil {
		return nil, err
	}
	loss, err := lossByName(a.cfg.Loss)
	if err != nil {
		return nil, err
	}
	_, nFeatures := X.Dims()
	return cut.NewClassifier(nFeatures, a.cfg.NBins,
		cut.WithTopology(topology),
		cut.WithLoss(loss),
		cut.WithWorkers(a.cfg.Workers),
		cut.WithName(name),
	), nil
}

func lossByName(name string) (cut.LossFunc, error) {
	switch name {
	case config.LossCrossEntropy:
		return metrics.BinaryCrossEntropy{}, nil
	case config.LossError:
		return metrics.ClassificationErrorLoss{}, nil
	case config.LossBalanced:
		return metrics.BalancedErrorLoss{}, nil
	default:
		return nil, errors.NewValidationError("loss", fmt.Sprintf("must be one of %v", config.ValidLosses), name)
	}
}
