package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baselineYAML = `industry: TECH
headcountRange: SMALL
personnel:
  executives: 2
  managers: 3
  staff: 10
weeklyMeetingHours: 5
annualPayroll: unsure
currentMonthlyRevenue: unsure
`

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEvaluate_Table(t *testing.T) {
	path := writeInput(t, "in.yaml", baselineYAML)

	out, err := execute(t, "", "evaluate", "-f", path, "--format", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "Process Paralysis")
	assert.Contains(t, out, "The Roadmap")
	assert.Contains(t, out, "$2,151,373")
	assert.Contains(t, out, "$14,281")
	assert.Contains(t, out, "Recovery at")
}

func TestEvaluate_JSONFromStdin(t *testing.T) {
	body := `{"industry":"TECH","headcountRange":"SMALL","personnel":{"executives":2,"managers":3,"staff":10},` +
		`"weeklyMeetingHours":5,"annualPayroll":"unsure","currentMonthlyRevenue":"unsure"}`

	out, err := execute(t, body, "evaluate", "-f", "-", "--format", "json")
	require.NoError(t, err)

	var res struct {
		State struct {
			Key string `json:"key"`
		} `json:"institutionalState"`
		ResolvedTier    string  `json:"resolvedTier"`
		AnnualCostTotal float64 `json:"annualCostTotal"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "PROCESS_PARALYSIS", res.State.Key)
	assert.Equal(t, "ROADMAP", res.ResolvedTier)
	assert.InDelta(t, 2151373, res.AnnualCostTotal, 1)
}

func TestEvaluate_Markdown(t *testing.T) {
	path := writeInput(t, "in.yml", baselineYAML)

	out, err := execute(t, "", "evaluate", "-f", path, "--format", "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Diagnostic Record"))
	assert.Contains(t, out, "## Recommended Engagement")
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		format  string
		wantErr string
	}{
		{
			name:    "unknown format",
			body:    baselineYAML,
			format:  "xml",
			wantErr: "unknown format",
		},
		{
			name:    "unknown industry",
			body:    strings.Replace(baselineYAML, "TECH", "MINING", 1),
			format:  "table",
			wantErr: "industry",
		},
		{
			name:    "meeting hours out of range",
			body:    strings.Replace(baselineYAML, "weeklyMeetingHours: 5", "weeklyMeetingHours: 41", 1),
			format:  "table",
			wantErr: "weeklyMeetingHours",
		},
		{
			name:    "empty document",
			body:    "",
			format:  "table",
			wantErr: "empty document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInput(t, "in.yaml", tt.body)
			_, err := execute(t, "", "evaluate", "-f", path, "--format", tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReport_Markdown(t *testing.T) {
	in := writeInput(t, "in.yaml", baselineYAML)
	dest := filepath.Join(t.TempDir(), "record.md")

	out, err := execute(t, "", "report", "-f", in, "-o", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Process Paralysis, The Roadmap")

	body, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(body), "**Process Paralysis.**")
}

func TestReport_RejectsUnknownExtension(t *testing.T) {
	in := writeInput(t, "in.yaml", baselineYAML)

	_, err := execute(t, "", "report", "-f", in, "-o", filepath.Join(t.TempDir(), "record.docx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".md or .pdf")
}

func TestTiers(t *testing.T) {
	out, err := execute(t, "", "tiers")
	require.NoError(t, err)
	for _, name := range []string{"The Roadmap", "The Intervention", "Safe Harbor", "Stability Support"} {
		assert.Contains(t, out, name)
	}
}
