package diagnostic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func narrate(in Input, state StateKey, tier TierKey) Narrative {
	t, _ := LookupTier(tier)
	return BuildNarrative(in, LookupState(state), t, Figures{MonthlyBurn: 12_345.6, AnnualCostTotal: 1_234_567.4})
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0", FormatCurrency(0))
	assert.Equal(t, "$999", FormatCurrency(999.4))
	assert.Equal(t, "$1,000", FormatCurrency(999.5))
	assert.Equal(t, "$2,151,373", FormatCurrency(2151372.5194596997))
}

func TestSynthesis_FullProfile(t *testing.T) {
	in := Input{
		Industry:           IndustryFinance,
		OrgStage:           StageGrowth,
		LeadershipTenure:   TenureOneThree,
		FrictionLocation:   FrictionCrossFunctional,
		AvoidanceMechanism: AvoidanceCostTooHigh,
		PersonnelRisk:      RiskPossibly,
		ResolutionBlockage: BlockageSuspected,
		PriorAttempt:       PriorUnclear,
	}
	n := narrate(in, StateCaffeineCulture, TierIntervention)

	want := strings.Join([]string{
		"This growth stage Finance / Banking organization is presenting a Caffeine Culture pattern.",
		"The friction is concentrated across functions, with leadership in place for one to three years.",
		avoidanceLines[AvoidanceCostTooHigh],
		personnelRiskLines[RiskPossibly],
		blockageLines[BlockageSuspected],
		priorAttemptLines[PriorUnclear],
		"At $12,346 per month, the annual institutional cost is $1,234,567.",
		"Based on this profile, the recommended entry point is The Intervention.",
	}, " ")
	assert.Equal(t, want, n.Synthesis)
}

func TestSynthesis_OmitsUnmatchedFragments(t *testing.T) {
	in := Input{
		Industry:           IndustryRetail,
		AvoidanceMechanism: AvoidanceNotAnIssue,
		PersonnelRisk:      RiskNone,
		ResolutionBlockage: BlockageNone,
		PriorAttempt:       PriorNone,
	}
	n := narrate(in, StateStagnantStability, TierRoadmap)

	assert.Equal(t,
		"This Retail / E-Commerce organization is presenting a Stagnant Stability pattern. "+
			"The friction is concentrated an unlocated source, with leadership in place for an undisclosed period. "+
			"At $12,346 per month, the annual institutional cost is $1,234,567. "+
			"Based on this profile, the recommended entry point is The Roadmap.",
		n.Synthesis)
	assert.NotContains(t, n.Synthesis, "  ")
}

func TestNarrative_NoEmDashes(t *testing.T) {
	var all []string
	for _, r := range inferenceRules {
		all = append(all, r.text)
	}
	for _, m := range []map[AvoidanceMechanism]string{avoidanceLines} {
		for _, s := range m {
			all = append(all, s)
		}
	}
	for _, tier := range allTiers {
		all = append(all, rationaleFallbacks[tier](narrativeContext{state: LookupState(StateCaffeineCulture)}))
	}
	for _, s := range all {
		assert.NotContains(t, s, "—")
	}
}

func TestInference_Priority(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		state StateKey
		want  string
	}{
		{
			name: "external and attempted wins over startup rule",
			in:   Input{Industry: IndustryTech, OrgStage: StageStartup, PriorAttempt: PriorExternal, ResolutionBlockage: BlockageAttempted},
			want: "external-then-attempted",
		},
		{
			name: "external and known",
			in:   Input{PriorAttempt: PriorExternal, ResolutionBlockage: BlockageKnown},
			want: "external-then-known",
		},
		{
			name: "conversation cross functional",
			in:   Input{PriorAttempt: PriorConversation, FrictionLocation: FrictionCrossFunctional},
			want: "conversation-cross-functional",
		},
		{
			name: "conversation within leadership beats legacy rule",
			in:   Input{PriorAttempt: PriorConversation, FrictionLocation: FrictionWithinLeadership, OrgStage: StageLegacy, LeadershipTenure: TenureSevenPlus},
			want: "conversation-within-leadership",
		},
		{
			name: "leadership predetermined external",
			in:   Input{FrictionLocation: FrictionWithinLeadership, AvoidanceMechanism: AvoidancePredetermined, PriorAttempt: PriorExternal},
			want: "leadership-predetermined-external",
		},
		{
			name: "leadership no forum known",
			in:   Input{FrictionLocation: FrictionWithinLeadership, AvoidanceMechanism: AvoidanceNoForum, ResolutionBlockage: BlockageKnown, Industry: IndustryMedia},
			want: "leadership-no-forum-known",
		},
		{
			name: "legacy long tenure",
			in:   Input{FrictionLocation: FrictionWithinLeadership, OrgStage: StageLegacy, LeadershipTenure: TenureSevenPlus},
			want: "leadership-legacy-long-tenure",
		},
		{
			name:  "embargo known",
			in:    Input{ResolutionBlockage: BlockageKnown},
			state: StateExecutiveEmbargo,
			want:  "embargo-known",
		},
		{
			name:  "stalled known",
			in:    Input{ResolutionBlockage: BlockageKnown},
			state: StateStalledHegemony,
			want:  "stalled-known",
		},
		{
			name:  "caffeine first look",
			in:    Input{PriorAttempt: PriorNone},
			state: StateCaffeineCulture,
			want:  "caffeine-first-look",
		},
		{
			name:  "hemorrhage with lost",
			in:    Input{PersonnelRisk: RiskLost, Industry: IndustryNonprofit},
			state: StateTalentHemorrhage,
			want:  "hemorrhage-with-risk",
		},
		{
			name:  "sabotage first look",
			in:    Input{PriorAttempt: PriorNone},
			state: StateBrilliantSabotage,
			want:  "sabotage-first-look",
		},
		{
			name: "consulting predetermined",
			in:   Input{Industry: IndustryConsulting, AvoidanceMechanism: AvoidancePredetermined},
			want: "analytical-predetermined",
		},
		{
			name: "nonprofit lost",
			in:   Input{Industry: IndustryNonprofit, PersonnelRisk: RiskLost},
			want: "nonprofit-lost",
		},
		{
			name: "media leadership no forum",
			in:   Input{Industry: IndustryMedia, FrictionLocation: FrictionWithinLeadership, AvoidanceMechanism: AvoidanceNoForum},
			want: "media-leadership-no-forum",
		},
		{
			name: "tech startup external",
			in:   Input{Industry: IndustryTech, OrgStage: StageStartup, PriorAttempt: PriorExternal},
			want: "tech-startup-external",
		},
	}

	texts := map[string]string{}
	for _, r := range inferenceRules {
		texts[r.name] = r.text
	}
	require.Len(t, texts, 16)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state
			if state == "" {
				state = StateStrategicDrift
			}
			n := narrate(tt.in, state, TierRoadmap)
			require.NotNil(t, n.Inference)
			assert.Equal(t, texts[tt.want], *n.Inference)
		})
	}
}

func TestInference_NoMatchIsNil(t *testing.T) {
	in := Input{
		Industry:           IndustryRetail,
		OrgStage:           StageEstablished,
		LeadershipTenure:   TenureThreeSeven,
		FrictionLocation:   FrictionTeam,
		AvoidanceMechanism: AvoidanceCostTooHigh,
		PriorAttempt:       PriorUnclear,
		PersonnelRisk:      RiskPossibly,
		ResolutionBlockage: BlockageSuspected,
	}
	n := narrate(in, StateProcessParalysis, TierRoadmap)

	assert.Nil(t, n.Inference)
	assert.True(t, strings.HasPrefix(n.Synthesis, "This established Retail / E-Commerce organization is presenting a Process Paralysis pattern."))
	assert.Contains(t, n.Synthesis, "The friction is concentrated between leadership and the team, with leadership in place for three to seven years.")
}

func TestRationale(t *testing.T) {
	tests := []struct {
		name     string
		tier     TierKey
		in       Input
		contains string
	}{
		{"stability always", TierStability, Input{PriorAttempt: PriorNone}, "The math has turned on this one."},
		{"harbor two attempts", TierSafeHarbor, Input{PriorAttempt: PriorExternal, ResolutionBlockage: BlockageAttempted}, "two prior attempts"},
		{"harbor inherited", TierSafeHarbor, Input{LeadershipTenure: TenureUnderOne}, "a problem you inherited"},
		{"harbor predetermined", TierSafeHarbor, Input{FrictionLocation: FrictionWithinLeadership, AvoidanceMechanism: AvoidancePredetermined}, "named without consequence"},
		{"harbor consequences", TierSafeHarbor, Input{PersonnelRisk: RiskLost}, "already produced consequences"},
		{"harbor fallback", TierSafeHarbor, Input{}, "indefinite confidential relationship"},
		{"intervention at risk and known", TierIntervention, Input{Industry: IndustryHealth, PersonnelRisk: RiskYes, ResolutionBlockage: BlockageKnown}, "caffeine culture in a Healthcare / Pharma organization"},
		{"intervention conversation", TierIntervention, Input{PriorAttempt: PriorConversation}, "goes where the conversation did not"},
		{"intervention external", TierIntervention, Input{PriorAttempt: PriorExternal}, "in the room, with the people"},
		{"intervention leadership risk", TierIntervention, Input{FrictionLocation: FrictionWithinLeadership, PersonnelRisk: RiskPossibly}, "personnel consequence in play"},
		{"intervention leadership no risk falls back", TierIntervention, Input{FrictionLocation: FrictionWithinLeadership, PersonnelRisk: RiskNone}, "The Caffeine Culture pattern"},
		{"intervention legacy", TierIntervention, Input{OrgStage: StageLegacy, LeadershipTenure: TenureSevenPlus}, "move it, not map it"},
		{"roadmap first look", TierRoadmap, Input{PriorAttempt: PriorNone}, "first structured look"},
		{"roadmap cross functional", TierRoadmap, Input{FrictionLocation: FrictionCrossFunctional}, "hardest kind to resolve"},
		{"roadmap team", TierRoadmap, Input{FrictionLocation: FrictionTeam}, "specific origin point"},
		{"roadmap fallback", TierRoadmap, Input{}, "deliberately rather than urgently"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := narrate(tt.in, StateCaffeineCulture, tt.tier)
			require.NotNil(t, n.Rationale)
			assert.Contains(t, *n.Rationale, tt.contains)
		})
	}
}

func TestRationale_UnknownTierIsNil(t *testing.T) {
	n := BuildNarrative(Input{Industry: IndustryOther}, LookupState(StateStrategicDrift), Tier{Key: "PLATINUM"}, Figures{})
	assert.Nil(t, n.Rationale)
	assert.NotContains(t, n.Synthesis, "recommended entry point")
}

func TestInferenceRuleNames(t *testing.T) {
	names := InferenceRuleNames()
	assert.Len(t, names, 16)
	assert.Equal(t, "external-then-attempted", names[0])
}
