package model

import (
	"math"

	"github.com/sirupsen/logrus"
)

// interiorColdStart is the fixed initial guess used at the very first
// interior cell of the backward pass; every later cell warm-starts from its
// predecessor in iteration order.
var interiorColdStart = [2]float64{1e-6, 1.0}

// Diagnostics counts per-cell irregularities observed during a solve. The
// recursion never aborts on them; they are surfaced for inspection.
type Diagnostics struct {
	NonConverged int // cells where the optimizer hit its budget or failed
	NonFinite    int // cells whose stored value was NaN or Inf
}

// Solver computes the value and policy functions by backward induction over
// the full discretized state space. Not safe for concurrent use; the
// recursion is strictly sequential in time and the in-period cell order
// drives warm-starting.
type Solver struct {
	par   *Params
	grids *Grids
	sol   *Solution
	diag  Diagnostics
}

// NewSolver validates the configuration, builds the grids, and allocates
// the solution arrays. All configuration errors surface here, before any
// solving begins.
func NewSolver(par *Params) (*Solver, error) {
	if err := par.Validate(); err != nil {
		return nil, err
	}
	grids, err := NewGrids(par)
	if err != nil {
		return nil, err
	}
	return &Solver{par: par, grids: grids, sol: NewSolution(par)}, nil
}

// Grids exposes the coordinate arrays (read-only by convention).
func (s *Solver) Grids() *Grids { return s.grids }

// Diagnostics returns the counters accumulated by the last Solve.
func (s *Solver) Diagnostics() Diagnostics { return s.diag }

// Solve runs the backward recursion from the terminal period to period 0
// and returns the populated solution grids. Cell order within a period is
// fixed and deterministic — children, spouse, assets, capital, with capital
// innermost — because it propagates the optimizer's warm starts. Period t+1
// is always complete before any period-t cell interpolates into it.
func (s *Solver) Solve() *Solution {
	par := s.par
	s.diag = Diagnostics{}
	warm := []float64{interiorColdStart[0], interiorColdStart[1]}

	for t := par.T - 1; t >= 0; t-- {
		for child := 0; child < par.Nn; child++ {
			for spouse := 0; spouse < par.Ns; spouse++ {
				for ia := 0; ia < par.Na; ia++ {
					for ik := 0; ik < par.Nk; ik++ {
						ix := StateIndex{T: t, Child: child, Spouse: spouse, Asset: ia, Capital: ik}

						var res cellResult
						if t == par.T-1 {
							res = s.solveTerminal(ix, s.terminalGuess(ix))
						} else {
							res = s.solveInterior(ix, warm)
							warm[0], warm[1] = res.cons, res.hours
						}
						s.store(ix, res)
					}
				}
			}
		}
		logrus.Infof("solved period %d (%d cells)", t, par.Nn*par.Ns*par.Na*par.Nk)
	}

	if s.diag.NonConverged > 0 || s.diag.NonFinite > 0 {
		logrus.Warnf("solve finished with %d non-converged and %d non-finite cells",
			s.diag.NonConverged, s.diag.NonFinite)
	}
	return s.sol
}

// store writes one cell, checking finiteness immediately so a NaN cannot
// silently poison later periods through interpolation.
func (s *Solver) store(ix StateIndex, res cellResult) {
	if !res.converged {
		s.diag.NonConverged++
		logrus.Debugf("optimizer did not converge at t=%d child=%d spouse=%d ia=%d ik=%d",
			ix.T, ix.Child, ix.Spouse, ix.Asset, ix.Capital)
	}
	if math.IsNaN(res.value) || math.IsInf(res.value, 0) {
		s.diag.NonFinite++
		logrus.Warnf("non-finite value %g at t=%d child=%d spouse=%d ia=%d ik=%d",
			res.value, ix.T, ix.Child, ix.Spouse, ix.Asset, ix.Capital)
	}

	off := s.sol.Offset(ix)
	s.sol.C[off] = res.cons
	s.sol.H[off] = res.hours
	s.sol.V[off] = res.value
}
