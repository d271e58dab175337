// Package report renders a diagnostic result as the printable record: a
// Markdown ledger, its HTML form and an A4 PDF.
package report

import (
	"fmt"
	"strings"
	"time"

	"resolution-diagnostic/internal/diagnostic"
)

const recordVersion = "Record v3.1"

// Markdown lays out the ledger. issued is printed in the header; pass the
// zero time to omit it.
func Markdown(res *diagnostic.Result, issued time.Time) string {
	var b strings.Builder
	money := diagnostic.FormatCurrency

	fmt.Fprintf(&b, "# Diagnostic Record\n\n")
	fmt.Fprintf(&b, "*Confidential // %s", recordVersion)
	if !issued.IsZero() {
		fmt.Fprintf(&b, " // %s", issued.UTC().Format("January 2, 2006"))
	}
	b.WriteString("*\n\n")

	section(&b, "Institutional State")
	fmt.Fprintf(&b, "**%s.**\n\n%s\n\n", res.State.Label, res.State.Description)

	if res.Crisis {
		fmt.Fprintf(&b, "> **Crisis protocol.** %s\n\n", res.CrisisMessage)
	}

	section(&b, "Annual Institutional Cost")
	b.WriteString("| Measure | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Annual institutional cost | %s |\n", money(res.AnnualCostTotal))
	fmt.Fprintf(&b, "| Monthly burn | %s |\n", money(res.MonthlyBurn))
	if res.ExecutionGap > 0 {
		fmt.Fprintf(&b, "| Execution gap | %s |\n", money(res.ExecutionGap))
	}
	fmt.Fprintf(&b, "| Leak ratio | %.1f%% of monthly payroll |\n\n", res.LeakRatio*100)

	if res.Normalized.PayrollEstimated || res.Normalized.RevenueEstimated || res.Normalized.StalledEstimated {
		b.WriteString("Figures marked unknown in the questionnaire were estimated from sector benchmarks.\n\n")
	}

	section(&b, "Advisor Synthesis")
	fmt.Fprintf(&b, "%s\n\n", res.Narrative.Synthesis)

	if res.Narrative.Inference != nil {
		section(&b, "Advisor Inference")
		fmt.Fprintf(&b, "%s\n\n", *res.Narrative.Inference)
	}

	section(&b, "Recommended Engagement")
	fmt.Fprintf(&b, "**%s**\n\n%s\n\n", res.Tier.Name, res.Tier.Outcome)
	for _, o := range res.Tier.Outcomes {
		fmt.Fprintf(&b, "- %s\n", o)
	}
	if len(res.Tier.Outcomes) > 0 {
		b.WriteString("\n")
	}

	if res.Narrative.Rationale != nil {
		section(&b, "Why This Engagement")
		fmt.Fprintf(&b, "%s\n\n", *res.Narrative.Rationale)
	}

	section(&b, "The Case for Action")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Cost of inaction, per year | %s |\n", money(res.AnnualCostTotal))
	fmt.Fprintf(&b, "| Cost of resolution, %s | %s |\n", res.Tier.Name, res.Tier.FeeLabel)
	if m := res.Recovery.ReturnMultiple; m != nil {
		fmt.Fprintf(&b, "| Return on a 10%% friction reduction | %.1fx |\n", *m)
	}
	b.WriteString("\n")

	if len(res.Recovery.Anchors) > 0 {
		section(&b, "Recovery Projection")
		fmt.Fprintf(&b, "A 10%% reduction in monthly burn recovers %s a month, %s a year.\n\n",
			money(res.Recovery.MonthlyRecovery), money(res.Recovery.AnnualRecovery))
		b.WriteString("| Engagement | Fee | Months to ROI | Annual return |\n|---|---:|---:|---:|\n")
		for _, a := range res.Recovery.Anchors {
			fmt.Fprintf(&b, "| %s | %s | %.1f | %.1fx |\n", a.Name, money(a.Fee), a.MonthsToROI, a.ReturnMultiple)
		}
		b.WriteString("\n")
	}

	section(&b, "Glossary")
	fmt.Fprintf(&b, "**Silence Tax.** %s\n\n", res.Glossary.SilenceTax)
	fmt.Fprintf(&b, "**Friction Latency.** %s\n", res.Glossary.FrictionLatency)

	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "## %s\n\n", title)
}
