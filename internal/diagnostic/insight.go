package diagnostic

import "math"

// Step is the questionnaire module currently being filled in.
type Step int

const (
	StepIndustry Step = iota
	StepPersonnel
	StepRevenue
	StepStalled
)

// PartialInput is whatever the respondent has entered so far.
type PartialInput struct {
	Industry              Industry  `json:"industry,omitempty"`
	AnnualPayroll         Amount    `json:"annualPayroll"`
	Personnel             Personnel `json:"personnel"`
	TargetMonthlyRevenue  Amount    `json:"targetMonthlyRevenue"`
	CurrentMonthlyRevenue Amount    `json:"currentMonthlyRevenue"`
	StalledCapital        Amount    `json:"stalledCapital"`
}

const (
	genericInsight       = "Analyzing the human variable"
	payrollScaleEdge     = 5_000_000
	personnelGroupEdge   = 20
	revenueGapEdge       = 500_000
	stalledCapitalEdge   = 100_000
	intensityCeiling     = 10_000_000
	intensityPayrollPart = 0.1
)

// Each slot lists alternate phrasings; the caller's sequence number picks one.
var (
	industryInsights = map[Industry][]string{
		IndustryTech: {
			"In Technology high speed often masks a lack of institutional memory. You move fast but you might be repeating the same expensive mistakes.",
			"Technology teams ship quickly and forget quickly. The same argument is often being paid for twice.",
		},
		IndustryMedia: {
			"The human variable in Media is highly sensitive to atmospheric safety. If truth is punished your creative output becomes derivative.",
		},
		IndustryFinance: {
			"In Finance correctness is your baseline but it often becomes a bottleneck. Efficiency dies in the shadows of over compliance.",
		},
	}
	noPayrollInsights = []string{
		"Institutional Truth. Numbers do not lie but culture often hides them.",
		"Every institution has a number it would rather not say out loud. This is where we find it.",
	}
	largePayrollInsights = []string{
		"At this scale a 5 percent friction rate equals a full executive salary lost to silence every year.",
	}
	baselinePayrollInsights = []string{
		"The baseline payroll sets the hourly friction rate. This is the literal price of indecision.",
		"Payroll is the meter. Every hour spent avoiding a conversation runs on it.",
	}
	executiveDensityInsights = []string{
		"Executive density increases decision latency. Too many captains often leave the ship in port.",
	}
	largeGroupInsights = []string{
		"At this group size information decay is inevitable without absolute candor.",
	}
	defaultPersonnelInsights = []string{
		"Who is in the room dictates the cost of the conversation.",
		"The price of a meeting is set by who attends it.",
	}
	largeGapInsights = []string{
		"A gap of this size is rarely a strategy problem. It is almost always a people variable problem.",
	}
	gapInsights = []string{
		"The execution gap is the delta between potential and reality. Friction lives in that space.",
	}
	noGapInsights = []string{
		"Direct Reality. If there is no gap there is no need for intervention.",
	}
	largeStalledInsights = []string{
		"Stalled capital is the ghost of dead projects. Stop letting the past dictate your 2026 strategy.",
	}
	stalledInsights = []string{
		"Stalled costs are gone. The goal is to stop the bleed moving forward.",
		"What is already spent cannot be recovered. What is still moving can be.",
	}
)

func pick(variants []string, seq uint64) string {
	if len(variants) == 0 {
		return genericInsight
	}
	return variants[seq%uint64(len(variants))]
}

// observedGap is target minus current for whatever has been typed so far.
func (p PartialInput) observedGap() float64 {
	target, _ := p.TargetMonthlyRevenue.Value()
	current, _ := p.CurrentMonthlyRevenue.Value()
	return target - current
}

// LiveInsight returns the advisor note for the step being filled in. It is
// a pure function of its arguments; seq rotates between alternate phrasings.
func LiveInsight(step Step, p PartialInput, seq uint64) string {
	switch step {
	case StepIndustry:
		payroll, ok := p.AnnualPayroll.Positive()
		if !ok {
			if lines, found := industryInsights[p.Industry]; found {
				return pick(lines, seq)
			}
			return pick(noPayrollInsights, seq)
		}
		if payroll > payrollScaleEdge {
			return pick(largePayrollInsights, seq)
		}
		return pick(baselinePayrollInsights, seq)

	case StepPersonnel:
		switch {
		case p.Personnel.Executives > execsRelations:
			return pick(executiveDensityInsights, seq)
		case p.Personnel.Total() > personnelGroupEdge:
			return pick(largeGroupInsights, seq)
		default:
			return pick(defaultPersonnelInsights, seq)
		}

	case StepRevenue:
		gap := p.observedGap()
		switch {
		case gap > revenueGapEdge:
			return pick(largeGapInsights, seq)
		case gap > 0:
			return pick(gapInsights, seq)
		default:
			return pick(noGapInsights, seq)
		}

	case StepStalled:
		if v, _ := p.StalledCapital.Value(); v > stalledCapitalEdge {
			return pick(largeStalledInsights, seq)
		}
		return pick(stalledInsights, seq)
	}

	return genericInsight
}

// BurnIntensity scales the visible weight of the problem into [0, 1].
func BurnIntensity(p PartialInput) float64 {
	payroll, _ := p.AnnualPayroll.Value()
	stalled, _ := p.StalledCapital.Value()
	weight := math.Max(0, p.observedGap()) + math.Max(0, stalled) + math.Max(0, payroll)*intensityPayrollPart
	return math.Min(weight/intensityCeiling, 1)
}
