package diagnostic

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Amounts and counts are capped so every derived figure stays finite.
const (
	maxWeeklyMeetingHours = 40
	maxPersonnelCount     = 100_000
	maxAmount             = 1e12
	stalledDefaultShare   = 0.05
)

// ValidationError identifies the first input field that is structurally invalid.
type ValidationError struct {
	Field   string   `json:"field"`
	Value   string   `json:"value"`
	Reason  string   `json:"reason"`
	Allowed []string `json:"allowed,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid %s %q: must be one of %v", e.Field, e.Value, e.Allowed)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// IsEnumViolation reports whether the error names a value outside a closed set.
func (e *ValidationError) IsEnumViolation() bool { return len(e.Allowed) > 0 }

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func keysOf[K ~string, V any](m map[K]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

func strs[T ~string](vs []T) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

func enumError(field, value string, allowed []string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: "not a member of its declared set", Allowed: allowed}
}

func checkMapped[K ~string, V any](field string, v K, table map[K]V, required bool) error {
	if v == "" {
		if required {
			return &ValidationError{Field: field, Reason: "is required", Allowed: keysOf(table)}
		}
		return nil
	}
	if _, ok := table[v]; !ok {
		return enumError(field, string(v), keysOf(table))
	}
	return nil
}

func checkListed[T ~string](field string, v T, set []T) error {
	if v == "" {
		return nil
	}
	for _, s := range set {
		if s == v {
			return nil
		}
	}
	return enumError(field, string(v), strs(set))
}

func checkAmount(field string, a Amount, allowUnsure bool) error {
	if a.Kind() == Unsure && !allowUnsure {
		return &ValidationError{Field: field, Value: a.String(), Reason: "cannot be unsure"}
	}
	v, ok := a.Value()
	switch {
	case !ok:
		return nil
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &ValidationError{Field: field, Value: a.String(), Reason: "must be a finite number"}
	case v < 0:
		return &ValidationError{Field: field, Value: a.String(), Reason: "must not be negative"}
	case v > maxAmount:
		return &ValidationError{Field: field, Value: a.String(), Reason: fmt.Sprintf("must not exceed %.0f", maxAmount)}
	}
	return nil
}

// Validate rejects any field that would otherwise fall through the closed
// lookup tables. It returns the first violation in declaration order.
func (in Input) Validate() error {
	checks := []func() error{
		func() error { return checkMapped("industry", in.Industry, industries, true) },
		func() error { return checkMapped("orgStage", in.OrgStage, orgStageLabels, false) },
		func() error { return checkMapped("headcountRange", in.HeadcountRange, headcountMidpoints, true) },
		func() error { return checkMapped("leadershipTenure", in.LeadershipTenure, tenureLabels, false) },
		func() error { return checkPersonnel(in.Personnel) },
		func() error { return checkMapped("frictionLocation", in.FrictionLocation, frictionLabels, false) },
		func() error { return checkListed("avoidanceMechanism", in.AvoidanceMechanism, avoidanceMechanisms) },
		func() error { return checkListed("priorAttempt", in.PriorAttempt, priorAttempts) },
		func() error { return checkListed("personnelRisk", in.PersonnelRisk, personnelRisks) },
		func() error { return checkListed("resolutionBlockage", in.ResolutionBlockage, resolutionBlockages) },
		func() error { return checkAmount("annualPayroll", in.AnnualPayroll, true) },
		func() error { return checkAmount("targetMonthlyRevenue", in.TargetMonthlyRevenue, false) },
		func() error { return checkAmount("currentMonthlyRevenue", in.CurrentMonthlyRevenue, true) },
		func() error { return checkAmount("stalledCapital", in.StalledCapital, false) },
		func() error {
			if in.WeeklyMeetingHours < 0 || in.WeeklyMeetingHours > maxWeeklyMeetingHours {
				return &ValidationError{
					Field:  "weeklyMeetingHours",
					Value:  fmt.Sprint(in.WeeklyMeetingHours),
					Reason: fmt.Sprintf("must be between 0 and %d", maxWeeklyMeetingHours),
				}
			}
			return nil
		},
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func checkPersonnel(p Personnel) error {
	for _, c := range []struct {
		field string
		n     int
	}{
		{"personnel.executives", p.Executives},
		{"personnel.managers", p.Managers},
		{"personnel.staff", p.Staff},
	} {
		if c.n < 0 {
			return &ValidationError{Field: c.field, Value: fmt.Sprint(c.n), Reason: "must not be negative"}
		}
		if c.n > maxPersonnelCount {
			return &ValidationError{Field: c.field, Value: fmt.Sprint(c.n), Reason: fmt.Sprintf("must not exceed %d", maxPersonnelCount)}
		}
	}
	return nil
}

// Normalize validates the input and fills every missing or unsure figure
// from the industry benchmarks. The result depends only on the input.
func Normalize(in Input) (Normalized, error) {
	if err := in.Validate(); err != nil {
		return Normalized{}, err
	}

	bench := industries[in.Industry]
	midpoint := headcountMidpoints[in.HeadcountRange]

	n := Normalized{
		HeadcountMidpoint:  midpoint,
		Personnel:          in.Personnel,
		WeeklyMeetingHours: in.WeeklyMeetingHours,
	}

	if v, ok := in.AnnualPayroll.Positive(); ok {
		n.Payroll = v
	} else {
		n.Payroll = midpoint * bench.AvgAnnualSalary
		n.PayrollEstimated = true
	}

	current, currentKnown := in.CurrentMonthlyRevenue.Value()
	if !currentKnown {
		n.RevenueGap = n.Payroll * bench.RevenueVolatility
		n.RevenueEstimated = true
	} else {
		target, _ := in.TargetMonthlyRevenue.Value()
		n.RevenueGap = max(0, target-current)
	}

	if v, ok := in.StalledCapital.Positive(); ok {
		n.StalledCapital = v
	} else {
		n.StalledCapital = stalledDefaultShare * n.Payroll
		n.StalledEstimated = true
	}

	return n, nil
}
