package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/disaster-response-service/internal/app"
	"github.com/couchcryptid/disaster-response-service/internal/config"
	"github.com/couchcryptid/disaster-response-service/internal/domain"
	"github.com/couchcryptid/disaster-response-service/internal/observability"
	"github.com/couchcryptid/disaster-response-service/internal/render"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type assessor interface {
	Run(ctx context.Context, imagePath string) (*domain.Assessment, error)
}

// assessorFactory builds the pipeline for one invocation. The returned
// function releases its resources.
type assessorFactory func(cfg *config.Config, logger *slog.Logger) (assessor, func() error)

func buildAssessor(cfg *config.Config, logger *slog.Logger) (assessor, func() error) {
	// Nothing scrapes a one-shot run, so the collectors stay unregistered.
	a := app.Build(cfg, logger, observability.NewMetricsForTesting())
	return a.Pipeline, a.Close
}

func newRootCommand(factory assessorFactory) *cobra.Command {
	var (
		reportPath string
		saveReport bool
		forceJSON  bool
	)

	cmd := &cobra.Command{
		Use:           "assess <image>",
		Short:         "Detect a wildfire or flood in an image and draft a response plan",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := observability.NewCLILogger(cfg, cmd.ErrOrStderr())

			runner, closeFn := factory(cfg, logger)
			defer func() {
				if err := closeFn(); err != nil {
					logger.Warn("close sinks", "error", err)
				}
			}()

			a, err := runner.Run(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("assess %s: %w", args[0], err)
			}

			now := domain.Now()
			report := render.Report(a, now)
			if reportPath == "" && saveReport {
				reportPath = render.ReportFilename(now)
			}
			if reportPath != "" {
				if err := os.WriteFile(reportPath, []byte(report), 0o644); err != nil { //nolint:gosec // reports are meant to be shared
					return fmt.Errorf("write report: %w", err)
				}
				logger.Info("report written", "path", reportPath)
			}

			out := cmd.OutOrStdout()
			if !forceJSON && isTerminal(out) {
				_, err := io.WriteString(out, report)
				return err
			}
			return writeJSON(cmd, a)
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "Also write the markdown report to this path")
	cmd.Flags().BoolVar(&saveReport, "save-report", false, "Write the report to disaster_report_<timestamp>.md in the working directory")
	cmd.Flags().BoolVar(&forceJSON, "json", false, "Print the assessment as JSON even on a terminal")
	return cmd
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
