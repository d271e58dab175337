// internal/workers/diagnostic/evaluate-diagnostic/models.go
package evaluatediagnostic

import (
	"resolution-diagnostic/internal/diagnostic"
	"resolution-diagnostic/internal/dispatch"
)

// Input is the questionnaire as process variables, plus the contact fields
// the site collected alongside it.
type Input struct {
	diagnostic.Input
	Email           string `json:"email"`
	CompanyName     string `json:"companyName"`
	OptSendRecord   bool   `json:"optSendRecord"`
	OptIntelligence bool   `json:"optIntelligence"`
}

// Output flattens into the variables dispatch-diagnostic reads, so the two
// service tasks can be chained without an I/O mapping.
type Output struct {
	dispatch.Request
	InstitutionalState diagnostic.StateKey `json:"institutionalState"`
	Crisis             bool                `json:"crisis"`
	Result             *diagnostic.Result  `json:"diagnosticResult"`
}
