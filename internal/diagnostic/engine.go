// Package diagnostic turns a completed questionnaire into a friction cost
// estimate, an institutional state, a recommended service tier and the
// template-selected narrative that explains them.
//
// Evaluate is pure: no I/O, no clock, no shared mutable state. It is safe to
// call from any number of goroutines.
package diagnostic

// Evaluate validates, normalizes, scores, classifies and narrates one input.
// The only error it returns is a *ValidationError.
func Evaluate(in Input) (*Result, error) {
	n, err := Normalize(in)
	if err != nil {
		return nil, err
	}

	f := Score(n)
	state := LookupState(Classify(f, n))
	resolved, rule := ResolveTier(state.FinancialTier, in)
	tier, _ := LookupTier(resolved)

	res := &Result{
		Figures:       f,
		Normalized:    n,
		State:         state,
		FinancialTier: state.FinancialTier,
		ResolvedTier:  resolved,
		TierRule:      rule,
		Tier:          tier,
		Narrative:     BuildNarrative(in, state, tier, f),
		Recovery:      ProjectRecovery(f.MonthlyBurn, tier),
		Crisis:        IsCrisis(state.Key),
		Glossary:      glossary,
		Context: Context{
			Industry:           in.Industry,
			OrgStage:           in.OrgStage,
			HeadcountRange:     in.HeadcountRange,
			LeadershipTenure:   in.LeadershipTenure,
			FrictionLocation:   in.FrictionLocation,
			AvoidanceMechanism: in.AvoidanceMechanism,
			PriorAttempt:       in.PriorAttempt,
			PersonnelRisk:      in.PersonnelRisk,
			ResolutionBlockage: in.ResolutionBlockage,
			ResolutionVision:   in.ResolutionVision,
			Executives:         in.Personnel.Executives,
		},
	}
	if res.Crisis {
		res.CrisisMessage = crisisMessage
	}
	return res, nil
}
