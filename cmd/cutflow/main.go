// Command cutflow fits, applies and evaluates cut-and-count classifiers on
// feature matrices stored as NumPy .npy files.
//
// Usage:
//
//	cutflow synth --out-features X.npy --out-labels y.npy
//	cutflow fit --features X.npy --labels y.npy --model cuts.json
//	cutflow predict --model cuts.json --features X.npy --out pred.npy
//	cutflow evaluate --model cuts.json --features X.npy --labels y.npy
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezoic/cutflow/pkg/config"
	"github.com/ezoic/cutflow/pkg/log"
)

// app carries the state shared by every subcommand.
type app struct {
	out        io.Writer
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "cutflow",
		Short:         "Histogram-driven cut-and-count classifier",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			log.SetupLogger(cfg.LogLevel)
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "debug, info, warn, error or off")

	root.AddCommand(
		a.newSynthCmd(),
		a.newFitCmd(),
		a.newPredictCmd(),
		a.newEvaluateCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		log.LogError(err, "cutflow failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
