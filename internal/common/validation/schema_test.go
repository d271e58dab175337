package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestLoad(t *testing.T) {
	for _, name := range []string{DispatchRequest, DiagnosticInput} {
		s, err := Load(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}

	_, err := Load("missing")
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad("missing") })
}

func TestDispatchRequestSchema(t *testing.T) {
	s := MustLoad(DispatchRequest)

	tests := []struct {
		name       string
		doc        string
		valid      bool
		wantFields []string
	}{
		{
			name:  "full record",
			doc:   `{"verdict":"Process Paralysis","tier":"The Roadmap","monthlyBurn":14281,"total":2151372,"email":null,"optSendRecord":false,"context":{"industry":"TECH","execCount":3,"leakRatio":"0.017"}}`,
			valid: true,
		},
		{
			name:  "empty object passes schema",
			doc:   `{}`,
			valid: true,
		},
		{
			name:       "wrong types",
			doc:        `{"verdict":7,"optSendRecord":"yes"}`,
			wantFields: []string{"optSendRecord", "verdict"},
		},
		{
			name:       "nested type error",
			doc:        `{"verdict":"x","tier":"y","context":{"execCount":1.5}}`,
			wantFields: []string{"context.execCount"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Validate(decode(t, tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid, res.GetErrorMessages())
			if !tt.valid {
				assert.Equal(t, tt.wantFields, res.Fields())
			}
		})
	}
}

func TestDiagnosticInputSchema(t *testing.T) {
	s := MustLoad(DiagnosticInput)

	res, err := s.ValidateJSON([]byte(`{"industry":"TECH","headcountRange":"MID","personnel":{"executives":2},"weeklyMeetingHours":12,"annualPayroll":"unsure"}`))
	require.NoError(t, err)
	assert.True(t, res.Valid, res.GetErrorMessages())

	res, err = s.ValidateJSON([]byte(`{"industry":"TECH","personnel":{"executives":-1},"weeklyMeetingHours":41}`))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("headcountRange"), res.GetErrorMessages())
	assert.True(t, res.HasErrors("personnel.executives"), res.GetErrorMessages())
	assert.True(t, res.HasErrors("weeklyMeetingHours"), res.GetErrorMessages())

	_, err = s.ValidateJSON([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDiagnosticInputSchema_Amounts(t *testing.T) {
	s := MustLoad(DiagnosticInput)
	const base = `"industry":"TECH","headcountRange":"SMALL","personnel":{"executives":2,"managers":3,"staff":10}`

	tests := []struct {
		name      string
		extra     string
		wantField string
	}{
		{name: "numeric string with separators", extra: `"annualPayroll":"1,250,000.50"`},
		{name: "unsure payroll", extra: `"annualPayroll":"Unsure"`},
		{name: "null stalled capital", extra: `"stalledCapital":null`},
		{name: "amount at ceiling", extra: `"stalledCapital":1000000000000`},
		{name: "NaN string", extra: `"targetMonthlyRevenue":"NaN"`, wantField: "targetMonthlyRevenue"},
		{name: "Inf string", extra: `"stalledCapital":"Inf"`, wantField: "stalledCapital"},
		{name: "near float max", extra: `"annualPayroll":1.7e308`, wantField: "annualPayroll"},
		{name: "negative number", extra: `"currentMonthlyRevenue":-5`, wantField: "currentMonthlyRevenue"},
		{name: "unsure target", extra: `"targetMonthlyRevenue":"unsure"`, wantField: "targetMonthlyRevenue"},
		{name: "unsure stalled capital", extra: `"stalledCapital":"unsure"`, wantField: "stalledCapital"},
		{name: "personnel above ceiling", extra: `"personnel":{"staff":100001}`, wantField: "personnel.staff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.ValidateJSON([]byte(`{` + base + `,` + tt.extra + `}`))
			require.NoError(t, err)
			if tt.wantField == "" {
				assert.True(t, res.Valid, res.GetErrorMessages())
				return
			}
			assert.False(t, res.Valid)
			assert.True(t, res.HasErrors(tt.wantField), res.GetErrorMessages())
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("cfo@example.com"))
	assert.False(t, ValidateEmail("diagnostic@"))
	assert.False(t, ValidateEmail(""))
}
