package dispatch

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"resolution-diagnostic/internal/diagnostic"
)

// Request is the body the results page posts once a record is downloaded.
// Snake-case keys are kept for the questionnaire answers the page forwards
// verbatim.
type Request struct {
	Verdict            string            `json:"verdict"`
	Tier               string            `json:"tier"`
	MonthlyBurn        Number            `json:"monthlyBurn"`
	Total              Number            `json:"total"`
	Context            RequestContext    `json:"context"`
	Email              string            `json:"email"`
	OptSendRecord      bool              `json:"optSendRecord"`
	OptIntelligence    bool              `json:"optIntelligence"`
	PriorAttempt       string            `json:"prior_attempt"`
	PersonnelRisk      string            `json:"personnel_risk"`
	ResolutionBlockage string            `json:"resolution_blockage"`
	ResolutionVision   string            `json:"resolution_vision"`
	Input              *diagnostic.Input `json:"input,omitempty"`
}

type RequestContext struct {
	Industry           string `json:"industry"`
	OrgStage           string `json:"orgStage"`
	LeadershipTenure   string `json:"leadershipTenure"`
	FrictionLocation   string `json:"frictionLocation"`
	AvoidanceMechanism string `json:"avoidanceMechanism"`
	ExecCount          Number `json:"execCount"`
	LeakRatio          Number `json:"leakRatio"`
	CompanyName        string `json:"companyName"`
}

// Contact carries the identity fields a respondent may volunteer.
type Contact struct {
	Email         string
	Company       string
	OptSendRecord bool
	OptInMemos    bool
}

// FromResult builds the request a results page would post for res. The
// full input travels along so the record e-mail can carry the whole ledger.
func FromResult(in diagnostic.Input, res *diagnostic.Result, c Contact) Request {
	return Request{
		Verdict:     res.State.Label,
		Tier:        string(res.ResolvedTier),
		MonthlyBurn: Number(math.Round(res.MonthlyBurn)),
		Total:       Number(math.Round(res.AnnualCostTotal)),
		Context: RequestContext{
			Industry:           string(res.Context.Industry),
			OrgStage:           string(res.Context.OrgStage),
			LeadershipTenure:   string(res.Context.LeadershipTenure),
			FrictionLocation:   string(res.Context.FrictionLocation),
			AvoidanceMechanism: string(res.Context.AvoidanceMechanism),
			ExecCount:          Number(res.Context.Executives),
			LeakRatio:          Number(res.LeakRatio),
			CompanyName:        c.Company,
		},
		Email:              c.Email,
		OptSendRecord:      c.OptSendRecord,
		OptIntelligence:    c.OptInMemos,
		PriorAttempt:       string(res.Context.PriorAttempt),
		PersonnelRisk:      string(res.Context.PersonnelRisk),
		ResolutionBlockage: string(res.Context.ResolutionBlockage),
		ResolutionVision:   res.Context.ResolutionVision,
		Input:              &in,
	}
}

// Number accepts a JSON number, a numeric string such as "14,281" or
// "$14,281", or null. Strings that do not parse read as zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		*n = Number(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}
