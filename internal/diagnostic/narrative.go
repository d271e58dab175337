package diagnostic

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type narrativeContext struct {
	in      Input
	state   State
	tier    Tier
	figures Figures
}

// FormatCurrency renders whole US dollars with thousands separators.
func FormatCurrency(v float64) string {
	p := message.NewPrinter(language.AmericanEnglish)
	return p.Sprintf("$%d", int64(math.Round(v)))
}

func lower(s string) string { return strings.ToLower(s) }

func industryLabel(i Industry) string {
	if l := i.Label(); l != "" {
		return l
	}
	return string(i)
}

// BuildNarrative assembles the synthesis, the optional inference and the
// tier rationale. It never fails: unmatched slots are omitted or nil.
func BuildNarrative(in Input, state State, tier Tier, f Figures) Narrative {
	c := narrativeContext{in: in, state: state, tier: tier, figures: f}
	return Narrative{
		Synthesis: synthesis(c),
		Inference: inference(c),
		Rationale: rationale(c),
	}
}

func synthesis(c narrativeContext) string {
	subject := industryLabel(c.in.Industry)
	if stage := c.in.OrgStage.Label(); stage != "" {
		subject = lower(stage) + " " + subject
	}

	friction := fallbackFriction
	if l := c.in.FrictionLocation.Label(); l != "" {
		friction = lower(l)
	}
	tenure := fallbackTenure
	if l := c.in.LeadershipTenure.Label(); l != "" {
		tenure = lower(l)
	}

	fragments := []string{
		fmt.Sprintf("This %s organization is presenting a %s pattern.", subject, c.state.Label),
		fmt.Sprintf("The friction is concentrated %s, with leadership in place for %s.", friction, tenure),
		avoidanceLines[c.in.AvoidanceMechanism],
		personnelRiskLines[c.in.PersonnelRisk],
		blockageLines[c.in.ResolutionBlockage],
		priorAttemptLines[c.in.PriorAttempt],
		fmt.Sprintf("At %s per month, the annual institutional cost is %s.",
			FormatCurrency(c.figures.MonthlyBurn), FormatCurrency(c.figures.AnnualCostTotal)),
	}
	if c.tier.Name != "" {
		fragments = append(fragments, fmt.Sprintf("Based on this profile, the recommended entry point is %s.", c.tier.Name))
	}

	out := fragments[:0]
	for _, f := range fragments {
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}

func inference(c narrativeContext) *string {
	for _, r := range inferenceRules {
		if r.match(c) {
			text := r.text
			return &text
		}
	}
	return nil
}

func rationale(c narrativeContext) *string {
	fallback, ok := rationaleFallbacks[c.tier.Key]
	if !ok {
		return nil
	}
	for _, r := range rationaleRules[c.tier.Key] {
		if r.match(c) {
			text := r.text(c)
			return &text
		}
	}
	text := fallback(c)
	return &text
}

// InferenceRuleNames lists the inference predicates in priority order.
func InferenceRuleNames() []string {
	names := make([]string, len(inferenceRules))
	for i, r := range inferenceRules {
		names[i] = r.name
	}
	return names
}
