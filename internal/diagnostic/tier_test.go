package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTiers = []TierKey{TierRoadmap, TierIntervention, TierSafeHarbor, TierStability}

func TestResolveTier_Rules(t *testing.T) {
	tests := []struct {
		name     string
		fin      TierKey
		in       Input
		want     TierKey
		wantRule string
	}{
		{
			name:     "attempted after external lifts roadmap to safe harbor",
			fin:      TierRoadmap,
			in:       Input{ResolutionBlockage: BlockageAttempted, PriorAttempt: PriorExternal},
			want:     TierSafeHarbor,
			wantRule: "attempted-after-external",
		},
		{
			name:     "attempted after external keeps stability",
			fin:      TierStability,
			in:       Input{ResolutionBlockage: BlockageAttempted, PriorAttempt: PriorExternal},
			want:     TierStability,
			wantRule: "attempted-after-external",
		},
		{
			name:     "known blockage on roadmap",
			fin:      TierRoadmap,
			in:       Input{ResolutionBlockage: BlockageKnown},
			want:     TierIntervention,
			wantRule: "known-blockage-or-lost",
		},
		{
			name:     "lost someone keeps safe harbor",
			fin:      TierSafeHarbor,
			in:       Input{PersonnelRisk: RiskLost},
			want:     TierSafeHarbor,
			wantRule: "known-blockage-or-lost",
		},
		{
			name:     "known blockage outranks no forum",
			fin:      TierRoadmap,
			in:       Input{ResolutionBlockage: BlockageKnown, AvoidanceMechanism: AvoidanceNoForum},
			want:     TierIntervention,
			wantRule: "known-blockage-or-lost",
		},
		{
			name:     "personnel at risk",
			fin:      TierIntervention,
			in:       Input{PersonnelRisk: RiskYes},
			want:     TierIntervention,
			wantRule: "personnel-at-risk",
		},
		{
			name:     "no forum",
			fin:      TierIntervention,
			in:       Input{AvoidanceMechanism: AvoidanceNoForum},
			want:     TierSafeHarbor,
			wantRule: "no-forum",
		},
		{
			name:     "no forum preserves stability",
			fin:      TierStability,
			in:       Input{AvoidanceMechanism: AvoidanceNoForum},
			want:     TierStability,
			wantRule: "no-forum",
		},
		{
			name:     "within leadership",
			fin:      TierRoadmap,
			in:       Input{FrictionLocation: FrictionWithinLeadership},
			want:     TierSafeHarbor,
			wantRule: "friction-location",
		},
		{
			name:     "cross functional on roadmap",
			fin:      TierRoadmap,
			in:       Input{FrictionLocation: FrictionCrossFunctional},
			want:     TierIntervention,
			wantRule: "friction-location",
		},
		{
			name:     "cross functional above roadmap falls through",
			fin:      TierIntervention,
			in:       Input{FrictionLocation: FrictionCrossFunctional},
			want:     TierIntervention,
			wantRule: financialTierRule,
		},
		{
			name:     "prior conversation on roadmap",
			fin:      TierRoadmap,
			in:       Input{PriorAttempt: PriorConversation},
			want:     TierIntervention,
			wantRule: "prior-attempt-on-roadmap",
		},
		{
			name:     "entrenched legacy",
			fin:      TierRoadmap,
			in:       Input{OrgStage: StageLegacy, LeadershipTenure: TenureSevenPlus},
			want:     TierIntervention,
			wantRule: "entrenched-legacy",
		},
		{
			name:     "inherited leadership",
			fin:      TierIntervention,
			in:       Input{LeadershipTenure: TenureUnderOne},
			want:     TierSafeHarbor,
			wantRule: "inherited-leadership",
		},
		{
			name:     "inherited leadership does not touch stability",
			fin:      TierStability,
			in:       Input{LeadershipTenure: TenureUnderOne},
			want:     TierStability,
			wantRule: financialTierRule,
		},
		{
			name:     "quiet profile keeps financial tier",
			fin:      TierRoadmap,
			in:       Input{PriorAttempt: PriorNone, FrictionLocation: FrictionTeam},
			want:     TierRoadmap,
			wantRule: financialTierRule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := ResolveTier(tt.fin, tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRule, rule)
		})
	}
}

func TestResolveTier_NeverDowngrades(t *testing.T) {
	stages := []OrgStage{"", StageStartup, StageGrowth, StageEstablished, StageLegacy}
	tenures := []LeadershipTenure{"", TenureUnderOne, TenureOneThree, TenureThreeSeven, TenureSevenPlus}
	frictions := []FrictionLocation{"", FrictionTeam, FrictionCrossFunctional, FrictionWithinLeadership, FrictionUnknown}
	avoidances := append([]AvoidanceMechanism{""}, avoidanceMechanisms...)
	priors := append([]PriorAttempt{""}, priorAttempts...)
	risks := append([]PersonnelRisk{""}, personnelRisks...)
	blockages := append([]ResolutionBlockage{""}, resolutionBlockages...)

	for _, fin := range allTiers {
		for _, st := range stages {
			for _, te := range tenures {
				for _, fr := range frictions {
					for _, av := range avoidances {
						for _, pr := range priors {
							for _, ri := range risks {
								for _, bl := range blockages {
									in := Input{
										OrgStage: st, LeadershipTenure: te, FrictionLocation: fr,
										AvoidanceMechanism: av, PriorAttempt: pr, PersonnelRisk: ri, ResolutionBlockage: bl,
									}
									got, _ := ResolveTier(fin, in)
									if got.Rank() < fin.Rank() {
										t.Fatalf("downgraded %s to %s for %+v", fin, got, in)
									}
									if fin == TierStability && got != TierStability {
										t.Fatalf("stability resolved to %s for %+v", got, in)
									}
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestTierRuleNames(t *testing.T) {
	names := TierRuleNames()
	require.Len(t, names, 9)
	assert.Equal(t, "attempted-after-external", names[0])
	assert.Equal(t, financialTierRule, names[len(names)-1])
}

func TestTierRank(t *testing.T) {
	for i := 1; i < len(allTiers); i++ {
		assert.Less(t, allTiers[i-1].Rank(), allTiers[i].Rank())
	}
	assert.Zero(t, TierKey("PLATINUM").Rank())
}
