package dispatch

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const unknown = "Unknown"

// Defaults fills payload fields the request does not carry.
type Defaults struct {
	Email    string
	Source   string
	Workflow string
}

// Payload is the flat record the automation hook forwards to the CRM.
// Field names are fixed by the downstream Zap.
type Payload struct {
	AuditVerdict string  `json:"Audit_Verdict"`
	Recommended  string  `json:"Recommended"`
	AnnualCost   float64 `json:"Annual_Cost"`
	MonthlyBurn  float64 `json:"Monthly_Burn"`

	Industry           string `json:"Industry"`
	OrgStage           string `json:"Org_Stage"`
	LeadershipTenure   string `json:"Leadership_Tenure"`
	Friction           string `json:"Friction"`
	Avoidance          string `json:"Avoidance"`
	PriorAttempt       string `json:"Prior_Attempt"`
	PersonnelRisk      string `json:"Personnel_Risk"`
	ResolutionBlockage string `json:"Resolution_Blockage"`
	ResolutionVision   string `json:"Resolution_Vision"`
	ExecCount          int    `json:"Exec_Count"`
	LeakRatio          string `json:"Leak_Ratio"`

	ClientEmail   string `json:"Client_Email"`
	OptSendRecord bool   `json:"Opt_Send_Record"`
	OptInMemos    bool   `json:"Opt_In_Memos"`

	Timestamp       string `json:"Timestamp"`
	Source          string `json:"Source"`
	ProjectWorkflow string `json:"Project_Workflow"`
	ProjectTitle    string `json:"Project_Title"`
	ClientCompany   string `json:"Client_Company"`
	DispatchID      string `json:"Dispatch_ID"`
}

// MissingFields names the required request fields that are blank.
func (r Request) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(r.Verdict) == "" {
		missing = append(missing, "verdict")
	}
	if strings.TrimSpace(r.Tier) == "" {
		missing = append(missing, "tier")
	}
	return missing
}

// BuildPayload maps a request onto the hook record. It does not validate;
// callers check MissingFields first.
func BuildPayload(r Request, d Defaults, now time.Time, dispatchID string) Payload {
	email := strings.TrimSpace(r.Email)
	if email == "" {
		email = d.Email
	}

	return Payload{
		AuditVerdict: r.Verdict,
		Recommended:  r.Tier,
		AnnualCost:   math.Round(float64(r.Total)),
		MonthlyBurn:  math.Round(float64(r.MonthlyBurn)),

		Industry:           orUnknown(r.Context.Industry),
		OrgStage:           orUnknown(r.Context.OrgStage),
		LeadershipTenure:   orUnknown(r.Context.LeadershipTenure),
		Friction:           orUnknown(r.Context.FrictionLocation),
		Avoidance:          orUnknown(r.Context.AvoidanceMechanism),
		PriorAttempt:       orUnknown(r.PriorAttempt),
		PersonnelRisk:      orUnknown(r.PersonnelRisk),
		ResolutionBlockage: orUnknown(r.ResolutionBlockage),
		ResolutionVision:   r.ResolutionVision,
		ExecCount:          int(math.Max(0, float64(r.Context.ExecCount))),
		LeakRatio:          fmt.Sprintf("%.3f", float64(r.Context.LeakRatio)),

		ClientEmail:   email,
		OptSendRecord: r.OptSendRecord,
		OptInMemos:    r.OptIntelligence,

		Timestamp:       now.UTC().Format(time.RFC3339),
		Source:          d.Source,
		ProjectWorkflow: d.Workflow,
		ProjectTitle:    "Diagnostic Audit: " + r.Verdict,
		ClientCompany:   orUnknown(r.Context.CompanyName),
		DispatchID:      dispatchID,
	}
}

// Variables flattens the payload for a process instance.
func (p Payload) Variables() map[string]interface{} {
	return map[string]interface{}{
		"dispatchId":    p.DispatchID,
		"auditVerdict":  p.AuditVerdict,
		"recommended":   p.Recommended,
		"annualCost":    p.AnnualCost,
		"monthlyBurn":   p.MonthlyBurn,
		"industry":      p.Industry,
		"clientEmail":   p.ClientEmail,
		"clientCompany": p.ClientCompany,
		"optSendRecord": p.OptSendRecord,
		"optInMemos":    p.OptInMemos,
		"leakRatio":     p.LeakRatio,
		"submittedAt":   p.Timestamp,
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unknown
	}
	return s
}
