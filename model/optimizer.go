package model

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// minTerminalHours floors the cold-start hours guess in the terminal period.
const minTerminalHours = 2.0

// cellResult is the outcome of one per-state optimization.
type cellResult struct {
	cons      float64
	hours     float64
	value     float64 // attained value, maximization sign
	converged bool
}

// settings builds the per-cell optimizer settings. A zero iteration budget
// means the method default; a positive budget keeps one difficult cell from
// stalling the whole recursion.
func (s *Solver) settings() *optimize.Settings {
	if s.par.MaxIterations <= 0 {
		return nil
	}
	return &optimize.Settings{MajorIterations: s.par.MaxIterations}
}

// accepted reports whether the optimizer reached a stopping tolerance
// within budget. The result is recorded for diagnosability but never aborts
// the pass: the last iterate is stored either way.
func accepted(res *optimize.Result, err error) bool {
	if err != nil || res == nil {
		return false
	}
	switch res.Status {
	case optimize.Failure, optimize.IterationLimit, optimize.FunctionEvaluationLimit:
		return false
	}
	return true
}

// terminalConsumption is the static terminal-period budget identity:
// everything on hand is consumed, floored at a small positive value.
func (s *Solver) terminalConsumption(hours float64, ix StateIndex) float64 {
	par := s.par
	t := par.T - 1
	income := par.Wage(s.grids.K[ix.Capital], t)*hours + par.SpouseIncome(ix.Spouse, t)
	return math.Max(s.grids.A[ix.Asset]+income-par.ChildcareCost(ix.Child), terminalConsFloor)
}

// solveTerminal chooses hours for one terminal-period state. Consumption is
// pinned down by the budget identity; negative hours and negative pre-floor
// consumption are penalized rather than clipped so the search is steered
// away from infeasible regions.
func (s *Solver) solveTerminal(ix StateIndex, initHours float64) cellResult {
	par := s.par
	t := par.T - 1
	assets := s.grids.A[ix.Asset]
	capital := s.grids.K[ix.Capital]

	obj := func(x []float64) float64 {
		hours := x[0]
		penalty := 0.0
		if hours < 0 {
			penalty -= hours * penaltyWeight
			hours = 0
		}
		raw := assets + par.Wage(capital, t)*hours + par.SpouseIncome(ix.Spouse, t) - par.ChildcareCost(ix.Child)
		if raw < 0 {
			penalty -= raw * penaltyWeight
		}
		cons := math.Max(raw, terminalConsFloor)
		return -par.Utility(cons, hours, ix.Child) + penalty
	}

	res, err := optimize.Minimize(optimize.Problem{Func: obj}, []float64{initHours}, s.settings(), &optimize.NelderMead{})

	hours := initHours
	if res != nil && len(res.X) == 1 {
		hours = res.X[0]
	}
	cons := s.terminalConsumption(hours, ix)
	return cellResult{
		cons:      cons,
		hours:     hours,
		value:     par.Utility(cons, hours, ix.Child),
		converged: accepted(res, err),
	}
}

// terminalGuess warm-starts the terminal solve from the previous asset grid
// point's solution; the first asset index uses the minimum hours that keep
// consumption positive, with a small margin.
func (s *Solver) terminalGuess(ix StateIndex) float64 {
	if ix.Asset > 0 {
		prev := StateIndex{T: ix.T, Child: ix.Child, Spouse: ix.Spouse, Asset: ix.Asset - 1, Capital: ix.Capital}
		return s.sol.H[s.sol.Offset(prev)]
	}
	t := s.par.T - 1
	need := -s.grids.A[ix.Asset]/s.par.Wage(s.grids.K[ix.Capital], t) + 1e-5
	return math.Max(need, minTerminalHours)
}

// valueOfChoice is the interior-period objective in maximization sign:
// utility today plus the discounted expected continuation value, with the
// clamp-and-penalize transform applied to infeasible proposals.
func (s *Solver) valueOfChoice(cons, hours float64, ix StateIndex) float64 {
	par := s.par
	cons, hours, penalty := penalizeChoice(cons, hours)

	util := par.Utility(cons, hours, ix.Child)

	assets := s.grids.A[ix.Asset]
	capital := s.grids.K[ix.Capital]
	income := par.Wage(capital, ix.T)*hours + par.SpouseIncome(ix.Spouse, ix.T)
	aNext := (1.0 + par.R) * (assets + income - cons - par.ChildcareCost(ix.Child))
	kNext := capital + hours

	ev := s.expectedContinuation(ix.T+1, ix.Child, aNext, kNext)
	return util + par.Rho*ev + penalty
}

// expectedContinuation mixes the birth and spouse transitions over the next
// period's value slices at off-grid coordinates (aNext, kNext):
//
//	p_spouse * [p_birth*V(birth) + (1-p_birth)*V(no birth)] + (1-p_spouse)*V(no spouse)
//
// Children at the cap reuse the no-birth slice for the birth branch, and
// the no-spouse branch uses the birth-updated children level. Both are
// deliberate: see the solver tests pinning this behavior.
func (s *Solver) expectedContinuation(tNext, child int, aNext, kNext float64) float64 {
	par := s.par
	present := par.Ns - 1 // spouse-present slice; collapses to 0 when Ns == 1

	childNext := child
	vNoBirth := s.sol.ValueSlice(tNext, childNext, present, s.grids).Interp(aNext, kNext)

	vBirth := vNoBirth
	if child < par.Nn-1 {
		childNext = child + 1
		vBirth = s.sol.ValueSlice(tNext, childNext, present, s.grids).Interp(aNext, kNext)
	}

	vNoSpouse := s.sol.ValueSlice(tNext, childNext, 0, s.grids).Interp(aNext, kNext)

	evSpouse := par.PBirth*vBirth + (1.0-par.PBirth)*vNoBirth
	return par.PSpouse*evSpouse + (1.0-par.PSpouse)*vNoSpouse
}

// solveInterior jointly chooses (consumption, hours) for one interior-period
// state with a quasi-Newton search warm-started from the previous cell in
// iteration order. LBFGS requires a gradient, which the penalized objective
// does not have in closed form, so it is supplied as a finite-difference
// approximation.
func (s *Solver) solveInterior(ix StateIndex, warm []float64) cellResult {
	obj := func(x []float64) float64 {
		return -s.valueOfChoice(x[0], x[1], ix)
	}
	problem := optimize.Problem{
		Func: obj,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, obj, x, nil)
		},
	}

	init := []float64{warm[0], warm[1]}
	res, err := optimize.Minimize(problem, init, s.settings(), &optimize.LBFGS{})

	cons, hours := init[0], init[1]
	var value float64
	if res != nil && len(res.X) == 2 {
		cons, hours = res.X[0], res.X[1]
		value = -res.F
	} else {
		value = s.valueOfChoice(cons, hours, ix)
	}
	return cellResult{cons: cons, hours: hours, value: value, converged: accepted(res, err)}
}
