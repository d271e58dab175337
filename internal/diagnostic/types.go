package diagnostic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type (
	Industry           string
	OrgStage           string
	HeadcountRange     string
	LeadershipTenure   string
	FrictionLocation   string
	AvoidanceMechanism string
	PriorAttempt       string
	PersonnelRisk      string
	ResolutionBlockage string
	StateKey           string
	TierKey            string
)

const (
	IndustryTech          Industry = "TECH"
	IndustryFinance       Industry = "FINANCE"
	IndustryConsulting    Industry = "CONSULTING"
	IndustryHealth        Industry = "HEALTH"
	IndustryManufacturing Industry = "MANUFACTURING"
	IndustryRetail        Industry = "RETAIL"
	IndustryEnergy        Industry = "ENERGY"
	IndustryMedia         Industry = "MEDIA"
	IndustryConstruction  Industry = "CONSTRUCTION"
	IndustryNonprofit     Industry = "NONPROFIT"
	IndustryLogistics     Industry = "LOGISTICS"
	IndustryOther         Industry = "OTHER"
)

const (
	StageStartup     OrgStage = "STARTUP"
	StageGrowth      OrgStage = "GROWTH"
	StageEstablished OrgStage = "ESTABLISHED"
	StageLegacy      OrgStage = "LEGACY"
)

const (
	HeadcountMicro HeadcountRange = "MICRO"
	HeadcountSmall HeadcountRange = "SMALL"
	HeadcountMid   HeadcountRange = "MID"
	HeadcountLarge HeadcountRange = "LARGE"
)

const (
	TenureUnderOne   LeadershipTenure = "UNDER_ONE"
	TenureOneThree   LeadershipTenure = "ONE_THREE"
	TenureThreeSeven LeadershipTenure = "THREE_SEVEN"
	TenureSevenPlus  LeadershipTenure = "SEVEN_PLUS"
)

const (
	FrictionTeam             FrictionLocation = "TEAM"
	FrictionCrossFunctional  FrictionLocation = "CROSS_FUNCTIONAL"
	FrictionWithinLeadership FrictionLocation = "WITHIN_LEADERSHIP"
	FrictionUnknown          FrictionLocation = "UNKNOWN"
)

const (
	AvoidanceNoForum       AvoidanceMechanism = "NO_FORUM"
	AvoidancePredetermined AvoidanceMechanism = "PREDETERMINED_OUTCOME"
	AvoidanceCostTooHigh   AvoidanceMechanism = "COST_TOO_HIGH"
	AvoidanceNotAnIssue    AvoidanceMechanism = "NOT_AN_ISSUE"
)

const (
	PriorNone         PriorAttempt = "NONE"
	PriorConversation PriorAttempt = "CONVERSATION"
	PriorExternal     PriorAttempt = "EXTERNAL"
	PriorUnclear      PriorAttempt = "UNCLEAR"
)

const (
	RiskNone     PersonnelRisk = "NONE"
	RiskPossibly PersonnelRisk = "POSSIBLY"
	RiskYes      PersonnelRisk = "YES"
	RiskLost     PersonnelRisk = "LOST"
)

const (
	BlockageNone      ResolutionBlockage = "NONE"
	BlockageSuspected ResolutionBlockage = "SUSPECTED"
	BlockageKnown     ResolutionBlockage = "KNOWN"
	BlockageAttempted ResolutionBlockage = "ATTEMPTED"
)

const (
	StateStagnantStability     StateKey = "STAGNANT_STABILITY"
	StateProcessParalysis      StateKey = "PROCESS_PARALYSIS"
	StateSiloIsolation         StateKey = "SILO_ISOLATION"
	StateStrategicDrift        StateKey = "STRATEGIC_DRIFT"
	StateCaffeineCulture       StateKey = "CAFFEINE_CULTURE"
	StateRelationalFriction    StateKey = "RELATIONAL_FRICTION"
	StateTalentHemorrhage      StateKey = "TALENT_HEMORRHAGE"
	StateBrilliantSabotage     StateKey = "BRILLIANT_SABOTAGE"
	StateStalledHegemony       StateKey = "STALLED_HEGEMONY"
	StateExecutiveEmbargo      StateKey = "EXECUTIVE_EMBARGO"
	StateInstitutionalRigidity StateKey = "INSTITUTIONAL_RIGIDITY"
	StateTotalFrictionCollapse StateKey = "TOTAL_FRICTION_COLLAPSE"
)

// Tiers are ordered by urgency; Rank compares them.
const (
	TierRoadmap      TierKey = "ROADMAP"
	TierIntervention TierKey = "INTERVENTION"
	TierSafeHarbor   TierKey = "SAFE_HARBOR"
	TierStability    TierKey = "STABILITY"
)

// Rank orders tiers ROADMAP < INTERVENTION < SAFE_HARBOR < STABILITY.
// Unknown keys rank below ROADMAP.
func (t TierKey) Rank() int {
	switch t {
	case TierRoadmap:
		return 1
	case TierIntervention:
		return 2
	case TierSafeHarbor:
		return 3
	case TierStability:
		return 4
	}
	return 0
}

// AmountKind tags the three shapes a self-reported money figure can take.
type AmountKind uint8

const (
	Unset AmountKind = iota
	Known
	Unsure
)

func (k AmountKind) String() string {
	switch k {
	case Known:
		return "known"
	case Unsure:
		return "unsure"
	default:
		return "unset"
	}
}

const unsureLiteral = "unsure"

// Amount is a money answer: a known number, an explicit "unsure", or no
// answer at all. The zero value is Unset.
type Amount struct {
	kind  AmountKind
	value float64
}

func KnownAmount(v float64) Amount { return Amount{kind: Known, value: v} }
func UnsureAmount() Amount         { return Amount{kind: Unsure} }
func UnsetAmount() Amount          { return Amount{} }

func (a Amount) Kind() AmountKind { return a.kind }

// Value returns the number and true only for Known amounts.
func (a Amount) Value() (float64, bool) {
	if a.kind != Known {
		return 0, false
	}
	return a.value, true
}

// Positive reports a Known amount greater than zero.
func (a Amount) Positive() (float64, bool) {
	v, ok := a.Value()
	return v, ok && v > 0
}

func (a Amount) String() string {
	if a.kind == Known {
		return strconv.FormatFloat(a.value, 'f', -1, 64)
	}
	return a.kind.String()
}

// MarshalJSON encodes Known as a number, Unsure as "unsure" and Unset as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case Known:
		return json.Marshal(a.value)
	case Unsure:
		return json.Marshal(unsureLiteral)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a number, a numeric string, "unsure", "" or null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = UnsetAmount()
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return a.parseString(s)
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("amount must be a number, \"unsure\" or null: %w", err)
	}
	*a = KnownAmount(v)
	return nil
}

func (a *Amount) parseString(s string) error {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		*a = UnsetAmount()
	case strings.EqualFold(s, unsureLiteral):
		*a = UnsureAmount()
	default:
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("amount %q is not a finite number", s)
		}
		*a = KnownAmount(v)
	}
	return nil
}

// Personnel is the assessed decision-making group, not total company headcount.
type Personnel struct {
	Executives int `json:"executives"`
	Managers   int `json:"managers"`
	Staff      int `json:"staff"`
}

func (p Personnel) Total() int { return p.Executives + p.Managers + p.Staff }

// Input is one completed questionnaire. Categorical fields other than
// Industry and HeadcountRange may be left empty when the respondent skipped
// the question.
type Input struct {
	Industry           Industry           `json:"industry"`
	OrgStage           OrgStage           `json:"orgStage,omitempty"`
	HeadcountRange     HeadcountRange     `json:"headcountRange"`
	LeadershipTenure   LeadershipTenure   `json:"leadershipTenure,omitempty"`
	Personnel          Personnel          `json:"personnel"`
	FrictionLocation   FrictionLocation   `json:"frictionLocation,omitempty"`
	AvoidanceMechanism AvoidanceMechanism `json:"avoidanceMechanism,omitempty"`
	PriorAttempt       PriorAttempt       `json:"priorAttempt,omitempty"`
	PersonnelRisk      PersonnelRisk      `json:"personnelRisk,omitempty"`
	ResolutionBlockage ResolutionBlockage `json:"resolutionBlockage,omitempty"`

	AnnualPayroll         Amount `json:"annualPayroll"`
	TargetMonthlyRevenue  Amount `json:"targetMonthlyRevenue"`
	CurrentMonthlyRevenue Amount `json:"currentMonthlyRevenue"`
	StalledCapital        Amount `json:"stalledCapital"`
	WeeklyMeetingHours    int    `json:"weeklyMeetingHours"`

	// ResolutionVision is free text carried through to exports untouched.
	ResolutionVision string `json:"resolutionVision,omitempty"`
}

// Normalized is the fully populated numeric view of an Input.
type Normalized struct {
	Payroll            float64   `json:"payroll"`
	RevenueGap         float64   `json:"revenueGap"`
	StalledCapital     float64   `json:"stalledCapital"`
	HeadcountMidpoint  float64   `json:"headcountMidpoint"`
	Personnel          Personnel `json:"personnel"`
	WeeklyMeetingHours int       `json:"weeklyMeetingHours"`

	PayrollEstimated bool `json:"payrollEstimated"`
	RevenueEstimated bool `json:"revenueEstimated"`
	StalledEstimated bool `json:"stalledEstimated"`
}

// Figures are unrounded monetary outputs of the cost model.
type Figures struct {
	TotalAssessedHeadcount int     `json:"totalAssessedHeadcount"`
	WeightedHeadcount      float64 `json:"weightedHeadcount"`
	CoordinationTax        float64 `json:"coordinationTaxFactor"`
	HourlyRate             float64 `json:"hourlyRate"`
	MonthlyPayroll         float64 `json:"monthlyPayroll"`
	MonthlyBurn            float64 `json:"monthlyBurn"`
	HistoricalWaste        float64 `json:"historicalWaste"`
	ExecutionGap           float64 `json:"executionGap"`
	AnnualCostTotal        float64 `json:"annualCostTotal"`
	LeakRatio              float64 `json:"leakRatio"`
}

// Narrative is the template-selected prose attached to a result.
type Narrative struct {
	Synthesis string  `json:"synthesis"`
	Inference *string `json:"inference"`
	Rationale *string `json:"rationale"`
}

// Context echoes the categorical answers for exports.
type Context struct {
	Industry           Industry           `json:"industry"`
	OrgStage           OrgStage           `json:"orgStage,omitempty"`
	HeadcountRange     HeadcountRange     `json:"headcountRange"`
	LeadershipTenure   LeadershipTenure   `json:"leadershipTenure,omitempty"`
	FrictionLocation   FrictionLocation   `json:"frictionLocation,omitempty"`
	AvoidanceMechanism AvoidanceMechanism `json:"avoidanceMechanism,omitempty"`
	PriorAttempt       PriorAttempt       `json:"priorAttempt,omitempty"`
	PersonnelRisk      PersonnelRisk      `json:"personnelRisk,omitempty"`
	ResolutionBlockage ResolutionBlockage `json:"resolutionBlockage,omitempty"`
	ResolutionVision   string             `json:"resolutionVision,omitempty"`
	Executives         int                `json:"executives"`
}

// Result is the immutable output of one evaluation.
type Result struct {
	Figures
	Normalized    Normalized `json:"normalized"`
	State         State      `json:"institutionalState"`
	FinancialTier TierKey    `json:"financialTier"`
	ResolvedTier  TierKey    `json:"resolvedTier"`
	TierRule      string     `json:"tierRule"`
	Tier          Tier       `json:"tier"`
	Narrative     Narrative  `json:"narrative"`
	Recovery      Recovery   `json:"recovery"`
	Crisis        bool       `json:"crisis"`
	CrisisMessage string     `json:"crisisMessage,omitempty"`
	Glossary      Glossary   `json:"glossary"`
	Context       Context    `json:"context"`
}
