package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resolution-diagnostic/internal/common/config"
	"resolution-diagnostic/internal/diagnostic"
	"resolution-diagnostic/internal/report"
)

var reportFlags struct {
	file       string
	output     string
	chromePath string
	timeout    time.Duration
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the diagnostic record as Markdown or PDF",
	Long:  "report evaluates a questionnaire and writes the printable record.\nThe output extension selects the format: .md or .pdf.",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportFlags.file, "file", "f", "", "Questionnaire file, YAML or JSON; - for stdin (required)")
	f.StringVarP(&reportFlags.output, "output", "o", "", "Output path ending in .md or .pdf (required)")
	f.StringVar(&reportFlags.chromePath, "chrome-path", "", "Chrome or Chromium binary for PDF output")
	f.DurationVar(&reportFlags.timeout, "timeout", 30*time.Second, "PDF render timeout")

	_ = reportCmd.MarkFlagRequired("file")
	_ = reportCmd.MarkFlagRequired("output")
}

func runReport(cmd *cobra.Command, _ []string) error {
	ext := strings.ToLower(filepath.Ext(reportFlags.output))
	if ext != ".md" && ext != ".pdf" {
		return fmt.Errorf("output must end in .md or .pdf, got %q", reportFlags.output)
	}

	in, err := loadInput(reportFlags.file, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res, err := diagnostic.Evaluate(in)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	var body []byte
	if ext == ".md" {
		body = []byte(report.Markdown(res, time.Now()))
	} else {
		r := report.NewRenderer(config.ReportConfig{
			ChromePath: reportFlags.chromePath,
			Timeout:    int(reportFlags.timeout.Milliseconds()),
		})
		if body, err = r.Render(cmd.Context(), res); err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
	}

	if err := os.WriteFile(reportFlags.output, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", reportFlags.output, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes): %s, %s\n", reportFlags.output, len(body), res.State.Label, res.Tier.Name)
	return nil
}
