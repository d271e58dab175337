package diagnostic

import "math"

const recoveryShare = 0.10

// RecoveryAnchor projects payback for one fee-bearing tier.
type RecoveryAnchor struct {
	Tier           TierKey `json:"tier"`
	Name           string  `json:"name"`
	Fee            float64 `json:"fee"`
	MonthsToROI    float64 `json:"monthsToROI"`
	ReturnMultiple float64 `json:"returnMultiple"`
}

// Recovery assumes a conservative ten percent reduction in monthly burn.
type Recovery struct {
	MonthlyRecovery float64          `json:"monthlyRecovery"`
	AnnualRecovery  float64          `json:"annualRecovery"`
	ReturnMultiple  *float64         `json:"returnMultiple"`
	Anchors         []RecoveryAnchor `json:"anchors"`
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ProjectRecovery computes payback against every fee-bearing tier and the
// return multiple of the recommended tier when it carries a fee.
func ProjectRecovery(monthlyBurn float64, recommended Tier) Recovery {
	monthly := math.Round(monthlyBurn * recoveryShare)
	annual := monthly * 12

	r := Recovery{MonthlyRecovery: monthly, AnnualRecovery: annual}
	for _, t := range Tiers() {
		if t.Fee == nil {
			continue
		}
		r.Anchors = append(r.Anchors, RecoveryAnchor{
			Tier:           t.Key,
			Name:           t.Name,
			Fee:            *t.Fee,
			MonthsToROI:    roundTo(*t.Fee/math.Max(1, monthly), 1),
			ReturnMultiple: roundTo(annual / *t.Fee, 1),
		})
	}
	if recommended.Fee != nil {
		m := roundTo(annual / *recommended.Fee, 1)
		r.ReturnMultiple = &m
	}
	return r
}

// IsCrisis reports states that trigger the stabilization protocol.
func IsCrisis(k StateKey) bool {
	return k == StateTotalFrictionCollapse || k == StateExecutiveEmbargo
}
