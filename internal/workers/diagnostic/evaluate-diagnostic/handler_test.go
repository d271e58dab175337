// internal/workers/diagnostic/evaluate-diagnostic/handler_test.go
package evaluatediagnostic

import (
	"context"
	"encoding/json"
	"testing"

	"resolution-diagnostic/internal/common/config"
	"resolution-diagnostic/internal/common/errors"
	"resolution-diagnostic/internal/common/logger"
	"resolution-diagnostic/internal/diagnostic"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "diagnostic-intake",
		ElementId:          "Activity_EvaluateDiagnostic",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func baselineVariables() map[string]interface{} {
	return map[string]interface{}{
		"industry":              "TECH",
		"headcountRange":        "SMALL",
		"personnel":             map[string]interface{}{"executives": 2, "managers": 3, "staff": 10},
		"weeklyMeetingHours":    5,
		"annualPayroll":         "unsure",
		"currentMonthlyRevenue": "unsure",
		"email":                 "cfo@acme.io",
		"companyName":           "Acme",
		"optSendRecord":         true,
	}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	return h
}

// ==========================
// Tests
// ==========================

func TestHandler_ParseAndExecute(t *testing.T) {
	h := newTestHandler(t)

	input, err := h.parseInput(createMockJob(1, baselineVariables()))
	require.NoError(t, err)
	assert.Equal(t, diagnostic.IndustryTech, input.Industry)
	assert.Equal(t, "cfo@acme.io", input.Email)

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, diagnostic.StateProcessParalysis, out.InstitutionalState)
	assert.False(t, out.Crisis)
	assert.Equal(t, "Process Paralysis", out.Verdict)
	assert.Equal(t, "ROADMAP", out.Tier)
	assert.Equal(t, "Acme", out.Context.CompanyName)
	assert.True(t, out.OptSendRecord)
	require.NotNil(t, out.Result)
	assert.InDelta(t, 14281.04, out.Result.MonthlyBurn, 0.01)
}

func TestOutput_FlattensDispatchVariables(t *testing.T) {
	h := newTestHandler(t)
	input, err := h.parseInput(createMockJob(2, baselineVariables()))
	require.NoError(t, err)
	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var vars map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &vars))
	for _, key := range []string{"verdict", "tier", "monthlyBurn", "total", "context", "email", "institutionalState", "diagnosticResult"} {
		assert.Contains(t, vars, key)
	}
	assert.Equal(t, 2151373.0, vars["total"])
}

func TestHandler_Rejections(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name     string
		mutate   func(v map[string]interface{})
		wantCode errors.ErrorCode
		wantBPMN string
		field    string
	}{
		{
			name:     "unknown industry",
			mutate:   func(v map[string]interface{}) { v["industry"] = "ALCHEMY" },
			wantCode: errors.ErrCodeInvalidEnumValue,
			wantBPMN: "INVALID_ENUM_VALUE",
			field:    "industry",
		},
		{
			name:     "unknown avoidance mechanism",
			mutate:   func(v map[string]interface{}) { v["avoidanceMechanism"] = "SHRUG" },
			wantCode: errors.ErrCodeInvalidEnumValue,
			wantBPMN: "INVALID_ENUM_VALUE",
			field:    "avoidanceMechanism",
		},
		{
			name:     "negative staff",
			mutate:   func(v map[string]interface{}) { v["personnel"] = map[string]interface{}{"staff": -1} },
			wantCode: errors.ErrCodeInvalidInput,
			wantBPMN: "INVALID_DIAGNOSTIC_INPUT",
			field:    "personnel.staff",
		},
		{
			name:     "non-finite stalled capital",
			mutate:   func(v map[string]interface{}) { v["stalledCapital"] = "Inf" },
			wantCode: errors.ErrCodeInvalidInput,
			wantBPMN: "INVALID_DIAGNOSTIC_INPUT",
			field:    "stalledCapital",
		},
		{
			name:     "payroll beyond ceiling",
			mutate:   func(v map[string]interface{}) { v["annualPayroll"] = 1.7e308 },
			wantCode: errors.ErrCodeInvalidInput,
			wantBPMN: "INVALID_DIAGNOSTIC_INPUT",
			field:    "annualPayroll",
		},
		{
			name:     "missing industry",
			mutate:   func(v map[string]interface{}) { delete(v, "industry") },
			wantCode: errors.ErrCodeInvalidInput,
			wantBPMN: "INVALID_DIAGNOSTIC_INPUT",
			field:    "industry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := baselineVariables()
			tt.mutate(vars)

			input, err := h.parseInput(createMockJob(3, vars))
			if err == nil {
				_, err = h.Execute(context.Background(), input)
			}
			require.Error(t, err)

			stdErr := errors.AsStandardError(err)
			assert.Equal(t, tt.wantCode, stdErr.Code)
			assert.Equal(t, tt.field, stdErr.Field())

			bpmn := errors.ConvertToBPMNError(stdErr)
			assert.Equal(t, tt.wantBPMN, bpmn.Code)
			assert.Zero(t, bpmn.Retries)
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	assert.Equal(t, DefaultConfig(), createConfigFromAppConfig(nil))

	app := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: false, MaxJobsActive: 12, Timeout: 5000},
	}}
	cfg := createConfigFromAppConfig(app)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 12, cfg.MaxJobsActive)
	assert.Equal(t, "5s", cfg.Timeout.String())

	assert.Error(t, (&Config{MaxJobsActive: 1}).Validate())
	assert.Error(t, (&Config{Timeout: 1}).Validate())
}
