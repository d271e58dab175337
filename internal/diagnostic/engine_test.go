package diagnostic

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// baselineInput is the small technology company used as the regression fixture.
func baselineInput() Input {
	return Input{
		Industry:              IndustryTech,
		HeadcountRange:        HeadcountSmall,
		Personnel:             Personnel{Executives: 2, Managers: 3, Staff: 10},
		WeeklyMeetingHours:    5,
		AnnualPayroll:         UnsureAmount(),
		CurrentMonthlyRevenue: UnsureAmount(),
	}
}

// rigidInput lands in the elevated bucket through a large coordination tax.
func rigidInput() Input {
	return Input{
		Industry:           IndustryFinance,
		OrgStage:           StageEstablished,
		HeadcountRange:     HeadcountLarge,
		LeadershipTenure:   TenureThreeSeven,
		Personnel:          Personnel{Executives: 10},
		FrictionLocation:   FrictionTeam,
		AvoidanceMechanism: AvoidanceCostTooHigh,
		PriorAttempt:       PriorNone,
		PersonnelRisk:      RiskNone,
		ResolutionBlockage: BlockageNone,
		AnnualPayroll:      KnownAmount(2_000_000),
		WeeklyMeetingHours: 40,
	}
}

// ==========================
// Evaluate
// ==========================

func TestEvaluate_BaselineFixture(t *testing.T) {
	res, err := Evaluate(baselineInput())
	require.NoError(t, err)

	assert.Equal(t, 9_900_000.0, res.Normalized.Payroll)
	assert.True(t, res.Normalized.PayrollEstimated)
	assert.InDelta(t, 1.3556302500767288, res.CoordinationTax, 1e-12)
	assert.InDelta(t, 317.3076923076923, res.HourlyRate, 1e-9)
	assert.InDelta(t, 14281.04328830831, res.MonthlyBurn, 1e-6)
	assert.InDelta(t, 1_485_000.0, res.ExecutionGap, 1e-6)
	assert.InDelta(t, 1_980_000.0, res.HistoricalWaste, 1e-6)
	assert.InDelta(t, 2151372.5194596997, res.AnnualCostTotal, 1e-6)
	assert.InDelta(t, 0.01731035550097977, res.LeakRatio, 1e-12)

	assert.Equal(t, StateProcessParalysis, res.State.Key)
	assert.Equal(t, TierRoadmap, res.FinancialTier)
	assert.Equal(t, TierRoadmap, res.ResolvedTier)
	assert.Equal(t, financialTierRule, res.TierRule)
	assert.Equal(t, "The Roadmap", res.Tier.Name)
	assert.False(t, res.Crisis)
	assert.Empty(t, res.CrisisMessage)

	assert.Nil(t, res.Narrative.Inference)
	require.NotNil(t, res.Narrative.Rationale)
	assert.Contains(t, res.Narrative.Synthesis, "At $14,281 per month, the annual institutional cost is $2,151,373.")
}

func TestEvaluate_ElevatedScenario(t *testing.T) {
	res, err := Evaluate(rigidInput())
	require.NoError(t, err)

	assert.InDelta(t, 0.2923798, res.LeakRatio, 1e-6)
	assert.Equal(t, StateInstitutionalRigidity, res.State.Key)
	assert.Equal(t, TierSafeHarbor, res.FinancialTier)
	assert.Equal(t, TierSafeHarbor, res.ResolvedTier)
	assert.Nil(t, res.Tier.Fee)
	assert.Nil(t, res.Recovery.ReturnMultiple)
	assert.Len(t, res.Recovery.Anchors, 2)
}

func TestEvaluate_RejectsInvalidEnum(t *testing.T) {
	in := baselineInput()
	in.PriorAttempt = "SOMETIMES"

	res, err := Evaluate(in)
	require.Error(t, err)
	assert.Nil(t, res)

	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "priorAttempt", ve.Field)
	assert.True(t, ve.IsEnumViolation())
}

func TestEvaluate_Deterministic(t *testing.T) {
	inputs := []Input{baselineInput(), rigidInput()}
	for _, in := range inputs {
		first, err := Evaluate(in)
		require.NoError(t, err)
		firstJSON, err := json.Marshal(first)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			again, err := Evaluate(in)
			require.NoError(t, err)
			if diff := cmp.Diff(first, again); diff != "" {
				t.Fatalf("evaluation drifted (-first +again):\n%s", diff)
			}
			againJSON, err := json.Marshal(again)
			require.NoError(t, err)
			assert.Equal(t, string(firstJSON), string(againJSON))
		}
	}
}

func TestEvaluate_ConcurrentCallsAgree(t *testing.T) {
	want, err := Evaluate(rigidInput())
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*Result, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Evaluate(rigidInput())
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Empty(t, cmp.Diff(want, got))
	}
}

func TestEvaluate_NonNegativeFigures(t *testing.T) {
	for ind := range industries {
		for hc := range headcountMidpoints {
			for _, hours := range []int{0, 1, 17, 40} {
				in := Input{
					Industry:              ind,
					HeadcountRange:        hc,
					Personnel:             Personnel{Executives: 1, Managers: 2, Staff: 3},
					WeeklyMeetingHours:    hours,
					AnnualPayroll:         KnownAmount(750_000),
					TargetMonthlyRevenue:  KnownAmount(10_000),
					CurrentMonthlyRevenue: KnownAmount(90_000),
				}
				res, err := Evaluate(in)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, res.AnnualCostTotal, 0.0)
				assert.GreaterOrEqual(t, res.MonthlyBurn, 0.0)
				assert.GreaterOrEqual(t, res.HistoricalWaste, 0.0)
				assert.GreaterOrEqual(t, res.ExecutionGap, 0.0)
				assert.GreaterOrEqual(t, res.CoordinationTax, 1.0)
			}
		}
	}
}

func assertFiniteFigures(t *testing.T, f Figures) {
	t.Helper()
	for name, v := range map[string]float64{
		"weightedHeadcount": f.WeightedHeadcount,
		"coordinationTax":   f.CoordinationTax,
		"hourlyRate":        f.HourlyRate,
		"monthlyPayroll":    f.MonthlyPayroll,
		"monthlyBurn":       f.MonthlyBurn,
		"historicalWaste":   f.HistoricalWaste,
		"executionGap":      f.ExecutionGap,
		"annualCostTotal":   f.AnnualCostTotal,
		"leakRatio":         f.LeakRatio,
	} {
		assert.False(t, math.IsNaN(v), "%s is NaN", name)
		assert.False(t, math.IsInf(v, 0), "%s is infinite", name)
		assert.GreaterOrEqual(t, v, 0.0, name)
	}
}

func TestEvaluate_RejectsNonFiniteAmounts(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		value     string
		wantField string
	}{
		{name: "NaN target", field: "targetMonthlyRevenue", value: `"NaN"`},
		{name: "Inf stalled capital", field: "stalledCapital", value: `"Inf"`},
		{name: "Infinity payroll", field: "annualPayroll", value: `"Infinity"`},
		{name: "payroll near float max", field: "annualPayroll", value: `1.7e308`, wantField: "annualPayroll"},
		{name: "stalled capital near float max", field: "stalledCapital", value: `"1.7e308"`, wantField: "stalledCapital"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"industry":"TECH","headcountRange":"SMALL","personnel":{"executives":2,"managers":3,"staff":10},` +
				`"weeklyMeetingHours":5,"currentMonthlyRevenue":100000,"` + tt.field + `":` + tt.value + `}`

			var in Input
			if err := json.Unmarshal([]byte(body), &in); err != nil {
				assert.Empty(t, tt.wantField, "decode failed: %v", err)
				return
			}
			require.NotEmpty(t, tt.wantField, "decoded a non-finite amount")

			res, err := Evaluate(in)
			assert.Nil(t, res)
			ve, ok := AsValidationError(err)
			require.True(t, ok, "expected *ValidationError, got %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestEvaluate_FiguresStayFiniteAtCeilings(t *testing.T) {
	personnel := []Personnel{
		{},
		{Executives: maxPersonnelCount},
		{Executives: maxPersonnelCount, Managers: maxPersonnelCount, Staff: maxPersonnelCount},
	}
	amounts := []Amount{UnsetAmount(), KnownAmount(1), KnownAmount(maxAmount)}

	for _, p := range personnel {
		for _, payroll := range amounts {
			for _, money := range amounts {
				in := Input{
					Industry:              IndustryTech,
					HeadcountRange:        HeadcountLarge,
					Personnel:             p,
					WeeklyMeetingHours:    maxWeeklyMeetingHours,
					AnnualPayroll:         payroll,
					TargetMonthlyRevenue:  money,
					CurrentMonthlyRevenue: KnownAmount(0),
					StalledCapital:        money,
				}
				res, err := Evaluate(in)
				require.NoError(t, err)
				assertFiniteFigures(t, res.Figures)

				_, err = json.Marshal(res)
				assert.NoError(t, err)
			}
		}
	}
}

func TestEvaluate_EmptyPersonnelStaysFinite(t *testing.T) {
	in := baselineInput()
	in.Personnel = Personnel{}

	res, err := Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalAssessedHeadcount)
	assert.Zero(t, res.MonthlyBurn)
	assert.Equal(t, StateProcessParalysis, res.State.Key)
}

func TestResult_JSONShape(t *testing.T) {
	res, err := Evaluate(baselineInput())
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{
		"annualCostTotal", "monthlyBurn", "historicalWaste", "executionGap",
		"coordinationTaxFactor", "institutionalState", "resolvedTier", "narrative",
	} {
		assert.Contains(t, m, key)
	}
	narrative := m["narrative"].(map[string]interface{})
	assert.Nil(t, narrative["inference"])
}
