package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"resolution-diagnostic/internal/diagnostic"
	"resolution-diagnostic/internal/report"
)

type recordMail struct {
	Subject string
	HTML    string
	Text    string
}

// composeRecord renders the full record when the request carries a valid
// input, and a short summary of the posted figures otherwise.
func composeRecord(req Request, p Payload, issued time.Time) (recordMail, error) {
	var md string
	if req.Input != nil {
		if res, err := diagnostic.Evaluate(*req.Input); err == nil {
			md = report.Markdown(res, issued)
		}
	}
	if md == "" {
		md = summaryMarkdown(p, issued)
	}

	title := "Diagnostic Record: " + p.AuditVerdict
	html, err := report.HTMLDocument(md, title)
	if err != nil {
		return recordMail{}, err
	}
	return recordMail{Subject: "Your " + title, HTML: html, Text: md}, nil
}

func summaryMarkdown(p Payload, issued time.Time) string {
	var b strings.Builder
	b.WriteString("# Diagnostic Record\n\n")
	fmt.Fprintf(&b, "*Confidential // %s*\n\n", issued.UTC().Format("January 2, 2006"))
	fmt.Fprintf(&b, "## Institutional State\n\n**%s.**\n\n", p.AuditVerdict)
	b.WriteString("## Annual Institutional Cost\n\n| Measure | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Annual institutional cost | %s |\n", diagnostic.FormatCurrency(p.AnnualCost))
	fmt.Fprintf(&b, "| Monthly burn | %s |\n\n", diagnostic.FormatCurrency(p.MonthlyBurn))

	name := p.Recommended
	if t, ok := diagnostic.LookupTier(diagnostic.TierKey(p.Recommended)); ok {
		name = t.Name
	}
	fmt.Fprintf(&b, "## Recommended Engagement\n\n**%s**\n", name)
	return b.String()
}

func crisisAlertBody(p Payload) string {
	return fmt.Sprintf(
		"Verdict: %s\nRecommended: %s\nAnnual cost: %s\nMonthly burn: %s\nIndustry: %s\nCompany: %s\nContact: %s\nDispatch: %s\nSubmitted: %s\n",
		p.AuditVerdict, p.Recommended,
		diagnostic.FormatCurrency(p.AnnualCost), diagnostic.FormatCurrency(p.MonthlyBurn),
		p.Industry, p.ClientCompany, p.ClientEmail, p.DispatchID, p.Timestamp,
	)
}

func formatKey(key int64) string { return strconv.FormatInt(key, 10) }
