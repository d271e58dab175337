package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"resolution-diagnostic/internal/diagnostic"
	"resolution-diagnostic/internal/report"
)

const (
	formatTable    = "table"
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

var evaluateFlags struct {
	file   string
	format string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a questionnaire and print the verdict",
	RunE:  runEvaluate,
}

func init() {
	f := evaluateCmd.Flags()
	f.StringVarP(&evaluateFlags.file, "file", "f", "", "Questionnaire file, YAML or JSON; - for stdin (required)")
	f.StringVar(&evaluateFlags.format, "format", formatTable, "Output format: table, markdown, json")

	_ = evaluateCmd.MarkFlagRequired("file")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	switch evaluateFlags.format {
	case formatTable, formatMarkdown, formatJSON:
	default:
		return fmt.Errorf("unknown format %q (table, markdown, json)", evaluateFlags.format)
	}

	in, err := loadInput(evaluateFlags.file, cmd.InOrStdin())
	if err != nil {
		return err
	}
	res, err := diagnostic.Evaluate(in)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	out := cmd.OutOrStdout()
	switch evaluateFlags.format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case formatMarkdown:
		_, err := io.WriteString(out, report.Markdown(res, time.Now()))
		return err
	default:
		printResult(out, res)
		return nil
	}
}

func printResult(out io.Writer, res *diagnostic.Result) {
	money := diagnostic.FormatCurrency

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("Diagnostic Verdict")
	t.AppendRow(table.Row{"State", res.State.Label})
	t.AppendRow(table.Row{"Engagement", res.Tier.Name})
	t.AppendRow(table.Row{"Tier rule", res.TierRule})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Annual cost", money(res.AnnualCostTotal)})
	t.AppendRow(table.Row{"Monthly burn", money(res.MonthlyBurn)})
	if res.ExecutionGap > 0 {
		t.AppendRow(table.Row{"Execution gap", money(res.ExecutionGap)})
	}
	t.AppendRow(table.Row{"Leak ratio", fmt.Sprintf("%.1f%%", res.LeakRatio*100)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, WidthMax: 60},
	})
	fmt.Fprintln(out, t.Render())

	if res.Crisis {
		fmt.Fprintf(out, "\nCRISIS: %s\n", res.CrisisMessage)
	}
	fmt.Fprintf(out, "\n%s\n", res.Narrative.Synthesis)

	if len(res.Recovery.Anchors) == 0 {
		return
	}
	rt := table.NewWriter()
	rt.SetStyle(table.StyleLight)
	rt.AppendHeader(table.Row{"Engagement", "Fee", "Months to ROI", "Return"})
	for _, a := range res.Recovery.Anchors {
		rt.AppendRow(table.Row{a.Name, money(a.Fee), fmt.Sprintf("%.1f", a.MonthsToROI), fmt.Sprintf("%.1fx", a.ReturnMultiple)})
	}
	rt.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	fmt.Fprintf(out, "\nRecovery at %s per month:\n%s\n", money(res.Recovery.MonthlyRecovery), rt.Render())
}
