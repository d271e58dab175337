// internal/workers/diagnostic/dispatch-diagnostic/models.go
package dispatchdiagnostic

import "resolution-diagnostic/internal/dispatch"

type Input = dispatch.Request

type Output struct {
	DispatchID    string            `json:"dispatchId"`
	DispatchSinks map[string]string `json:"dispatchSinks"`
}
