package diagnostic

// Leak ratio bucket edges. Each bucket is closed below and open above.
const (
	ratioSilo      = 0.05
	ratioLow       = 0.10
	ratioElevated  = 0.20
	ratioCollapse  = 0.35
	taxSilo        = 1.1
	taxParalysis   = 1.2
	taxRigidity    = 1.3
	execsRelations = 4
	execsEmbargo   = 5
	payrollShare   = 0.1
)

// Classify maps a scored snapshot onto one institutional state in a single
// pass. A leak ratio at or above the collapse edge wins outright; a ratio
// that fits no bucket (NaN) falls back to Strategic Drift.
func Classify(f Figures, n Normalized) StateKey {
	r, c := f.LeakRatio, f.CoordinationTax
	execs := n.Personnel.Executives

	switch {
	case r >= ratioCollapse:
		return StateTotalFrictionCollapse

	case r >= ratioElevated:
		switch {
		case c > taxRigidity:
			return StateInstitutionalRigidity
		case execs > execsEmbargo:
			return StateExecutiveEmbargo
		case n.StalledCapital > n.Payroll*payrollShare:
			return StateStalledHegemony
		default:
			return StateBrilliantSabotage
		}

	case r >= ratioLow:
		switch {
		case execs > execsRelations:
			return StateRelationalFriction
		case n.RevenueGap > n.Payroll*payrollShare:
			return StateTalentHemorrhage
		default:
			return StateCaffeineCulture
		}

	case r < ratioSilo && c < taxSilo:
		return StateSiloIsolation
	case r < ratioLow && c > taxParalysis:
		return StateProcessParalysis
	case r < ratioLow:
		return StateStagnantStability
	}

	return StateStrategicDrift
}
