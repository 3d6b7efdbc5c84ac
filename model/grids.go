package model

import (
	"fmt"
	"math"
)

// gridCurvature controls how fast the spacing of the non-uniform grids
// grows toward their upper bound.
const gridCurvature = 1.1

// NonLinSpace returns n strictly increasing points from lo to hi with
// spacing that grows by the given curvature power. curvature 1 reproduces a
// uniform grid; larger values concentrate points near lo.
func NonLinSpace(lo, hi float64, n int, curvature float64) []float64 {
	grid := make([]float64, n)
	grid[0] = lo
	for i := 1; i < n; i++ {
		grid[i] = grid[i-1] + (hi-grid[i-1])/math.Pow(float64(n-i), curvature)
	}
	return grid
}

// Grids holds the coordinate arrays of the discretized state space.
// Immutable after construction.
type Grids struct {
	A []float64 // asset coordinates, strictly increasing
	K []float64 // human capital coordinates, strictly increasing from 0
}

// NewGrids builds the asset and capital grids from the configured bounds.
func NewGrids(par *Params) (*Grids, error) {
	g := &Grids{
		A: NonLinSpace(par.AMin, par.AMax, par.Na, gridCurvature),
		K: NonLinSpace(0.0, par.KMax, par.Nk, gridCurvature),
	}
	if err := strictlyIncreasing(g.A); err != nil {
		return nil, fmt.Errorf("asset grid: %w", err)
	}
	if err := strictlyIncreasing(g.K); err != nil {
		return nil, fmt.Errorf("capital grid: %w", err)
	}
	return g, nil
}

func strictlyIncreasing(xs []float64) error {
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return fmt.Errorf("not strictly increasing at index %d (%g, %g)", i, xs[i-1], xs[i])
		}
	}
	return nil
}

// StateIndex identifies one cell of the discretized state space. Using a
// named struct instead of positional index tuples keeps the five dimensions
// from being silently transposed.
type StateIndex struct {
	T       int // time period
	Child   int // children-count level
	Spouse  int // spouse state (0 absent, 1 present)
	Asset   int // index into the asset grid
	Capital int // index into the capital grid
}

// Solution stores consumption, hours, and value for every state cell, laid
// out as flat row-major arrays over (period, children, spouse, asset,
// capital). Cells are written exactly once by the Solver, back to front in
// time, and are read-only afterwards.
type Solution struct {
	C []float64 // optimal consumption
	H []float64 // optimal hours
	V []float64 // value function

	nn, ns, na, nk int
}

// NewSolution allocates NaN-filled solution arrays so that an accidental
// read of an unsolved cell is loud rather than silently zero.
func NewSolution(par *Params) *Solution {
	n := par.T * par.Nn * par.Ns * par.Na * par.Nk
	s := &Solution{
		C:  make([]float64, n),
		H:  make([]float64, n),
		V:  make([]float64, n),
		nn: par.Nn, ns: par.Ns, na: par.Na, nk: par.Nk,
	}
	for i := range s.V {
		s.C[i] = math.NaN()
		s.H[i] = math.NaN()
		s.V[i] = math.NaN()
	}
	return s
}

// Offset maps a StateIndex to its position in the flat arrays.
func (s *Solution) Offset(ix StateIndex) int {
	return (((ix.T*s.nn+ix.Child)*s.ns+ix.Spouse)*s.na+ix.Asset)*s.nk + ix.Capital
}

// slice returns the (asset × capital) block of arr for a fixed
// (period, children, spouse).
func (s *Solution) slice(arr []float64, t, child, spouse int) []float64 {
	base := s.Offset(StateIndex{T: t, Child: child, Spouse: spouse})
	return arr[base : base+s.na*s.nk]
}

// ValueSlice returns the value function over (assets, capital) for a fixed
// (period, children, spouse) as an interpolatable 2-D view.
func (s *Solution) ValueSlice(t, child, spouse int, g *Grids) Grid2D {
	return Grid2D{X: g.A, Y: g.K, V: s.slice(s.V, t, child, spouse)}
}

// ConsSlice is ValueSlice for the consumption policy.
func (s *Solution) ConsSlice(t, child, spouse int, g *Grids) Grid2D {
	return Grid2D{X: g.A, Y: g.K, V: s.slice(s.C, t, child, spouse)}
}

// HoursSlice is ValueSlice for the hours policy.
func (s *Solution) HoursSlice(t, child, spouse int, g *Grids) Grid2D {
	return Grid2D{X: g.A, Y: g.K, V: s.slice(s.H, t, child, spouse)}
}
