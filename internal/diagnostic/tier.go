package diagnostic

// tierRule is one row of the escalation table. match sees the financial tier
// and the raw answers; resolve picks the tier when match holds.
type tierRule struct {
	name    string
	match   func(fin TierKey, in Input) bool
	resolve func(fin TierKey, in Input) TierKey
}

// ladder keeps STABILITY and SAFE_HARBOR, lifting anything lower to INTERVENTION.
func ladder(fin TierKey, _ Input) TierKey {
	switch fin {
	case TierStability, TierSafeHarbor:
		return fin
	default:
		return TierIntervention
	}
}

// harbor lifts anything below STABILITY to SAFE_HARBOR.
func harbor(fin TierKey, _ Input) TierKey {
	if fin == TierStability {
		return TierStability
	}
	return TierSafeHarbor
}

func intervention(TierKey, Input) TierKey { return TierIntervention }

var tierRules = []tierRule{
	{
		name: "attempted-after-external",
		match: func(_ TierKey, in Input) bool {
			return in.ResolutionBlockage == BlockageAttempted && in.PriorAttempt == PriorExternal
		},
		resolve: harbor,
	},
	{
		name: "known-blockage-or-lost",
		match: func(_ TierKey, in Input) bool {
			return in.ResolutionBlockage == BlockageKnown || in.PersonnelRisk == RiskLost
		},
		resolve: ladder,
	},
	{
		name: "personnel-at-risk",
		match: func(_ TierKey, in Input) bool {
			return in.PersonnelRisk == RiskYes
		},
		resolve: ladder,
	},
	{
		name: "no-forum",
		match: func(_ TierKey, in Input) bool {
			return in.AvoidanceMechanism == AvoidanceNoForum
		},
		resolve: harbor,
	},
	{
		name: "friction-location",
		match: func(fin TierKey, in Input) bool {
			return in.FrictionLocation == FrictionWithinLeadership ||
				(in.FrictionLocation == FrictionCrossFunctional && fin == TierRoadmap)
		},
		resolve: func(fin TierKey, in Input) TierKey {
			if in.FrictionLocation == FrictionWithinLeadership {
				return harbor(fin, in)
			}
			return TierIntervention
		},
	},
	{
		name: "prior-attempt-on-roadmap",
		match: func(fin TierKey, in Input) bool {
			return fin == TierRoadmap && (in.PriorAttempt == PriorExternal || in.PriorAttempt == PriorConversation)
		},
		resolve: intervention,
	},
	{
		name: "entrenched-legacy",
		match: func(fin TierKey, in Input) bool {
			return fin == TierRoadmap && in.OrgStage == StageLegacy && in.LeadershipTenure == TenureSevenPlus
		},
		resolve: intervention,
	},
	{
		name: "inherited-leadership",
		match: func(fin TierKey, in Input) bool {
			return fin != TierStability && in.LeadershipTenure == TenureUnderOne
		},
		resolve: harbor,
	},
}

const financialTierRule = "financial-tier"

// ResolveTier layers the qualitative escalation rules over the financial
// tier. The first matching rule wins; the returned name identifies it.
func ResolveTier(fin TierKey, in Input) (TierKey, string) {
	for _, r := range tierRules {
		if r.match(fin, in) {
			return r.resolve(fin, in), r.name
		}
	}
	return fin, financialTierRule
}

// TierRuleNames lists the escalation rules in priority order.
func TierRuleNames() []string {
	names := make([]string, 0, len(tierRules)+1)
	for _, r := range tierRules {
		names = append(names, r.name)
	}
	return append(names, financialTierRule)
}
