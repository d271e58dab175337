package diagnostic

import "strings"

// Reference tables. They are read-only after package init and shared by
// every evaluation without copying.

// IndustryBenchmark is the reference tuple bound to a sector code.
type IndustryBenchmark struct {
	Label             string  `json:"label"`
	CostMultiplier    float64 `json:"costMultiplier"`
	AvgAnnualSalary   float64 `json:"avgAnnualSalary"`
	RevenueVolatility float64 `json:"revenueVolatility"`
}

var industries = map[Industry]IndustryBenchmark{
	IndustryTech:          {"Technology / SaaS", 2.2, 165000, 0.15},
	IndustryFinance:       {"Finance / Banking", 1.8, 185000, 0.12},
	IndustryConsulting:    {"Consulting / Agency", 1.6, 155000, 0.20},
	IndustryHealth:        {"Healthcare / Pharma", 1.8, 145000, 0.10},
	IndustryManufacturing: {"Manufacturing / Industrial", 1.2, 95000, 0.08},
	IndustryRetail:        {"Retail / E-Commerce", 0.9, 85000, 0.15},
	IndustryEnergy:        {"Energy / Utilities", 1.4, 135000, 0.10},
	IndustryMedia:         {"Media / Entertainment", 1.4, 125000, 0.18},
	IndustryConstruction:  {"Construction / Real Estate", 1.1, 110000, 0.12},
	IndustryNonprofit:     {"Non Profit / Education", 1.0, 90000, 0.05},
	IndustryLogistics:     {"Logistics / Transport", 1.1, 100000, 0.10},
	IndustryOther:         {"Other / Diversified", 1.0, 120000, 0.15},
}

var headcountMidpoints = map[HeadcountRange]float64{
	HeadcountMicro: 10,
	HeadcountSmall: 60,
	HeadcountMid:   300,
	HeadcountLarge: 1500,
}

var orgStageLabels = map[OrgStage]string{
	StageStartup:     "Startup",
	StageGrowth:      "Growth Stage",
	StageEstablished: "Established",
	StageLegacy:      "Legacy",
}

var tenureLabels = map[LeadershipTenure]string{
	TenureUnderOne:   "Under One Year",
	TenureOneThree:   "One to Three Years",
	TenureThreeSeven: "Three to Seven Years",
	TenureSevenPlus:  "Seven Plus Years",
}

var frictionLabels = map[FrictionLocation]string{
	FrictionTeam:             "Between Leadership and the Team",
	FrictionCrossFunctional:  "Across Functions",
	FrictionWithinLeadership: "Within the Leadership Team",
	FrictionUnknown:          "In an Unlocated Source",
}

var (
	avoidanceMechanisms = []AvoidanceMechanism{AvoidanceNoForum, AvoidancePredetermined, AvoidanceCostTooHigh, AvoidanceNotAnIssue}
	priorAttempts       = []PriorAttempt{PriorNone, PriorConversation, PriorExternal, PriorUnclear}
	personnelRisks      = []PersonnelRisk{RiskNone, RiskPossibly, RiskYes, RiskLost}
	resolutionBlockages = []ResolutionBlockage{BlockageNone, BlockageSuspected, BlockageKnown, BlockageAttempted}
)

// State is one of the twelve institutional diagnoses.
type State struct {
	Key           StateKey `json:"key"`
	Label         string   `json:"label"`
	Description   string   `json:"description"`
	FinancialTier TierKey  `json:"financialTier"`
}

var states = map[StateKey]State{
	StateStagnantStability: {
		StateStagnantStability, "Stagnant Stability",
		"Low burn but zero velocity. You are not leaking money but you are not gaining ground. The system is safe but silent.",
		TierRoadmap,
	},
	StateProcessParalysis: {
		StateProcessParalysis, "Process Paralysis",
		"Burn is controlled but coordination tax is high. You are over governed and under executed. Permission is the primary bottleneck.",
		TierRoadmap,
	},
	StateSiloIsolation: {
		StateSiloIsolation, "Silo Isolation",
		"Individual units are efficient but connective tissue is missing. Information is trapped within departments creating strategic blindness.",
		TierRoadmap,
	},
	StateStrategicDrift: {
		StateStrategicDrift, "Strategic Drift",
		"Minor leaks in alignment are causing you to miss targets by degrees. Fixable via direct adjustment of leadership truth telling.",
		TierRoadmap,
	},
	StateCaffeineCulture: {
		StateCaffeineCulture, "Caffeine Culture",
		"High burn masked by high activity. You are moving fast but much of that energy is spent overcoming internal friction rather than market challenges.",
		TierIntervention,
	},
	StateRelationalFriction: {
		StateRelationalFriction, "Relational Friction",
		"Personnel density is high and conflict is avoided. You are paying a heavy politeness tax that keeps the real issues off the agenda.",
		TierIntervention,
	},
	StateTalentHemorrhage: {
		StateTalentHemorrhage, "Talent Hemorrhage",
		"Low meeting burn but high retention leak. Your culture is rejecting your best people because it cannot accommodate their excellence.",
		TierIntervention,
	},
	StateBrilliantSabotage: {
		StateBrilliantSabotage, "Brilliant Sabotage",
		"High performers are working against the collective. Individual brilliance is capping group ROI and creating a net negative impact on culture.",
		TierIntervention,
	},
	StateStalledHegemony: {
		StateStalledHegemony, "Stalled Hegemony",
		"Historical drag and stalled projects are dictating future strategy. You are governed by projects that no one has the stomach to kill.",
		TierIntervention,
	},
	StateExecutiveEmbargo: {
		StateExecutiveEmbargo, "Executive Embargo",
		"Decision velocity is zero. The leadership team has become the primary bottleneck and holds the rest of the organization hostage to their indecision.",
		TierSafeHarbor,
	},
	StateInstitutionalRigidity: {
		StateInstitutionalRigidity, "Institutional Rigidity",
		"Maximum coordination tax. The system has become so complex and truth averse that it can no longer support its own weight or adapt to change.",
		TierSafeHarbor,
	},
	StateTotalFrictionCollapse: {
		StateTotalFrictionCollapse, "Total Friction Collapse",
		"Burn exceeds 35 percent of payroll. The cost of remaining the same is now mathematically higher than the cost of a total institutional reset.",
		TierStability,
	},
}

// Tier is the static record for a service engagement level. Fee is nil for
// tiers priced by arrangement.
type Tier struct {
	Key         TierKey  `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Fee         *float64 `json:"fee"`
	FeeLabel    string   `json:"feeLabel"`
	CTALabel    string   `json:"ctaLabel"`
	Outcome     string   `json:"outcomeStatement"`
	Outcomes    []string `json:"outcomes"`
}

func fee(v float64) *float64 { return &v }

var tiers = map[TierKey]Tier{
	TierRoadmap: {
		Key:         TierRoadmap,
		Name:        "The Roadmap",
		Description: "30 days to find out why your team is exhausted. We look at how your people talk to each other and identify exactly what needs to be said to clear the air.",
		Fee:         fee(9500),
		FeeLabel:    "$9,500 fixed engagement",
		CTALabel:    "Begin The Roadmap",
		Outcome:     "A precise diagnosis of where the friction lives and a 30-day resolution plan your team can execute.",
		Outcomes:    []string{"The Human Variable Audit", "Identifying the unsaid", "30-day resolution plan"},
	},
	TierIntervention: {
		Key:         TierIntervention,
		Name:        "The Intervention",
		Description: "Direct tactical support for the hard stuff. We step into the room to handle high-stakes conversations and structural resets that internal teams are often too polite to suggest.",
		Fee:         fee(29500),
		FeeLabel:    "$29,500 fixed engagement",
		CTALabel:    "Request The Intervention",
		Outcome:     "The resolution delivered in the room, with the people who need to be part of it.",
		Outcomes:    []string{"The cultural reset", "Tactical room mediation", "Removing institutional friction"},
	},
	TierSafeHarbor: {
		Key:         TierSafeHarbor,
		Name:        "Safe Harbor",
		Description: "Confidential advisory for the Principal. A quiet, unvarnished space for a second opinion where you can prioritize the mission over office politics.",
		FeeLabel:    "By private arrangement",
		CTALabel:    "Open a Confidential Line",
		Outcome:     "A sustained confidential relationship that operates where a formal process cannot.",
		Outcomes:    []string{"Blind spot detection", "Trust stewardship", "The ROI of Truth"},
	},
	TierStability: {
		Key:         TierStability,
		Name:        "Stability Support",
		Description: "When the wheels are coming off. A steady hand during leadership pivots, mass exits, or organizational trauma to keep the mission safe while you find your footing.",
		FeeLabel:    "Scoped on first call",
		CTALabel:    "Direct Connection",
		Outcome:     "Immediate stabilization before the window for a deliberate process closes.",
		Outcomes:    []string{"Emergency transition care", "Cultural stabilization", "Interim leadership support"},
	},
}

// Glossary defines the two terms the ledger surfaces next to its figures.
type Glossary struct {
	SilenceTax      string `json:"silenceTax"`
	FrictionLatency string `json:"frictionLatency"`
}

var glossary = Glossary{
	SilenceTax:      "The cost of withheld truth. Avoided conflict leads to expensive repairs instead of cheap preventions.",
	FrictionLatency: "The time cost between identifying a problem and acting on it. High latency equals a higher monthly burn.",
}

const crisisMessage = "Your current burn rate exceeds institutional safety limits. Standard roadmaps are not enough to fix this. Stability Support is required to stop the immediate bleed and protect the mission."

// LookupIndustry returns the benchmark for a sector code.
func LookupIndustry(i Industry) (IndustryBenchmark, bool) {
	b, ok := industries[i]
	return b, ok
}

// HeadcountMidpoint returns the population proxy for a headcount range.
func HeadcountMidpoint(h HeadcountRange) (float64, bool) {
	m, ok := headcountMidpoints[h]
	return m, ok
}

// LookupState returns the record for a state key. Unknown keys resolve to
// Strategic Drift.
func LookupState(k StateKey) State {
	if s, ok := states[k]; ok {
		return s
	}
	return states[StateStrategicDrift]
}

// StateByVerdict matches a dispatched verdict, which may be either the state
// key or its display label, ignoring case.
func StateByVerdict(v string) (State, bool) {
	v = strings.TrimSpace(v)
	for _, s := range states {
		if strings.EqualFold(v, string(s.Key)) || strings.EqualFold(v, s.Label) {
			return s, true
		}
	}
	return State{}, false
}

// LookupTier returns the record for a tier key and whether it exists.
func LookupTier(k TierKey) (Tier, bool) {
	t, ok := tiers[k]
	return t, ok
}

// Tiers lists every tier record in urgency order.
func Tiers() []Tier {
	return []Tier{tiers[TierRoadmap], tiers[TierIntervention], tiers[TierSafeHarbor], tiers[TierStability]}
}

// Label helpers fall back to "" for keys outside their tables.

func (i Industry) Label() string           { return industries[i].Label }
func (s OrgStage) Label() string           { return orgStageLabels[s] }
func (t LeadershipTenure) Label() string   { return tenureLabels[t] }
func (f FrictionLocation) Label() string   { return frictionLabels[f] }
func (s StateKey) Label() string           { return LookupState(s).Label }
func (t TierKey) Name() string             { return tiers[t].Name }
func (h HeadcountRange) Midpoint() float64 { return headcountMidpoints[h] }
