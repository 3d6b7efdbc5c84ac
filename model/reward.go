package model

import "math"

const (
	// consFloor replaces a non-positive consumption proposal when computing
	// utility mid-search; CRRA utility is undefined at zero.
	consFloor = 1e-5

	// terminalConsFloor keeps the terminal-period budget identity strictly
	// positive.
	terminalConsFloor = 1e-8

	// penaltyWeight scales the linear penalty on infeasible proposals.
	penaltyWeight = 1000.0
)

// Wage returns the after-tax hourly wage at the given human capital level in
// period t. Monotonically increasing in capital, never negative for
// non-negative inputs.
func (p *Params) Wage(capital float64, t int) float64 {
	return (1.0 - p.Tau) * p.BaseWage(t) * (1.0 + p.Alpha*capital)
}

// SpouseIncome returns the spouse's period-t income contribution. Zero when
// the spouse feature is disabled or no spouse is present.
func (p *Params) SpouseIncome(spouse int, t int) float64 {
	if p.SpouseDummy == 0 {
		return 0.0
	}
	return float64(spouse) * (0.1 + 0.01*float64(t))
}

// ChildcareCost returns the per-period childcare cost for the given number
// of children.
func (p *Params) ChildcareCost(children int) float64 {
	return p.Theta * float64(children)
}

// Utility is CRRA utility of consumption minus a convex disutility of hours
// whose weight rises with the number of children. Consumption must be
// strictly positive; callers enforce the floor.
func (p *Params) Utility(cons, hours float64, children int) float64 {
	beta := p.Beta0 + p.Beta1*float64(children)
	return math.Pow(cons, 1.0+p.Eta)/(1.0+p.Eta) -
		beta*math.Pow(hours, 1.0+p.Gamma)/(1.0+p.Gamma)
}

// penalizeChoice maps an infeasible (consumption, hours) proposal to a
// feasible pair plus a non-positive penalty proportional to the violation.
// The penalty is added to the value of the choice, so unconstrained search
// steps into the infeasible region see a steep but smooth downhill slope
// instead of a hard wall.
func penalizeChoice(cons, hours float64) (c, h, penalty float64) {
	c, h = cons, hours
	if c < 0 {
		penalty += c * penaltyWeight
		c = consFloor
	}
	if h < 0 {
		penalty += h * penaltyWeight
		h = 0
	}
	return c, h, penalty
}
