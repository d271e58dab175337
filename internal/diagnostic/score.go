package diagnostic

import "math"

const (
	executiveWeight    = 1.5
	managerWeight      = 1.2
	staffWeight        = 1.0
	annualWorkHours    = 2080
	weeksPerMonth      = 4
	largeOrgThreshold  = 500
	largeOrgScaling    = 0.35
	defaultOrgScaling  = 0.20
	headcountDivisor   = 10
	monthsPerYear      = 12
	minimumDenominator = 1
)

// CoordinationTax is the log-scaled overhead multiplier for an organization
// whose population proxy is midpoint.
func CoordinationTax(midpoint float64) float64 {
	scaling := defaultOrgScaling
	if midpoint > largeOrgThreshold {
		scaling = largeOrgScaling
	}
	return 1 + math.Log10(math.Max(minimumDenominator, midpoint))*scaling
}

// Score runs the cost model on normalized input. Nothing is rounded here.
func Score(n Normalized) Figures {
	p := n.Personnel
	total := max(minimumDenominator, p.Total())
	weighted := float64(p.Executives)*executiveWeight +
		float64(p.Managers)*managerWeight +
		float64(p.Staff)*staffWeight

	cTax := CoordinationTax(n.HeadcountMidpoint)
	hourly := n.Payroll / float64(total) / annualWorkHours
	burn := float64(n.WeeklyMeetingHours) * weeksPerMonth * hourly * cTax * (weighted / headcountDivisor)

	waste := n.StalledCapital + n.RevenueGap
	monthlyPayroll := math.Max(minimumDenominator, n.Payroll/monthsPerYear)

	return Figures{
		TotalAssessedHeadcount: total,
		WeightedHeadcount:      weighted,
		CoordinationTax:        cTax,
		HourlyRate:             hourly,
		MonthlyPayroll:         monthlyPayroll,
		MonthlyBurn:            burn,
		HistoricalWaste:        waste,
		ExecutionGap:           n.RevenueGap,
		AnnualCostTotal:        burn*monthsPerYear + waste,
		LeakRatio:              burn / monthlyPayroll,
	}
}
