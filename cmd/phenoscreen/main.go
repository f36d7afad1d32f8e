// Command phenoscreen runs the high-content screening analysis pipeline:
// plate annotation + phenotype counts in, PCA projection and treated-vs-
// control classification report out.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/phenoscreen/phenoscreen/config"
	"github.com/phenoscreen/phenoscreen/pipeline"
	"github.com/phenoscreen/phenoscreen/pkg/errors"
	"github.com/phenoscreen/phenoscreen/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "phenoscreen",
		Short:         "High-content screening analysis toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the analysis pipeline for a configured screen",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := log.SetupLogger(logLevel); err != nil {
				return err
			}
			installWarningSink()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(cfg, log.GetLoggerWithName("pipeline"))
			report, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "run.yaml", "run configuration file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

// installWarningSink routes pipeline warnings through zerolog so they carry
// their structured fields instead of a flat message.
func installWarningSink() {
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		event := zl.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event = event.EmbedObject(obj)
		}
		event.Msg(warning.Error())
	})
}

func printReport(w io.Writer, report *pipeline.Report) {
	fmt.Fprintf(w, "wells: %d  classes: %d  train/test: %d/%d\n",
		report.Wells, report.Classes, report.NTrain, report.NTest)

	fmt.Fprint(w, "explained variance:")
	for i, ratio := range report.ExplainedVarianceRatio {
		fmt.Fprintf(w, " PC%d=%.1f%%", i+1, ratio*100)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "confusion matrix (rows=true, cols=predicted):")
	for i, trueClass := range report.ConfusionClasses {
		fmt.Fprintf(w, "  %d:", trueClass)
		for j := range report.ConfusionClasses {
			fmt.Fprintf(w, " %4.0f", report.Confusion.At(i, j))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "misclassification rate: %.3f\n", report.ErrorRate)

	if report.Diagnostics.HasFindings() {
		fmt.Fprintf(w, "diagnostics: %d unmatched well(s), %d dropped row(s), %d degenerate cell(s)\n",
			len(report.Diagnostics.UnmatchedWells),
			report.Diagnostics.DroppedRows,
			len(report.Diagnostics.DegenerateCells),
		)
	}
}
