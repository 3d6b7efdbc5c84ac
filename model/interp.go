package model

import "sort"

// Grid2D is a read-only view of a function tabulated on a non-uniform
// rectangular grid: V[i*len(Y)+j] is the value at (X[i], Y[j]). Both
// coordinate arrays must be strictly increasing with at least two points.
//
// This is the hottest primitive in the solver: every objective-function
// evaluation of every interior-period cell interpolates three continuation
// slices through it.
type Grid2D struct {
	X []float64
	Y []float64
	V []float64
}

// At returns the tabulated value at grid node (i, j).
func (g Grid2D) At(i, j int) float64 {
	return g.V[i*len(g.Y)+j]
}

// bracket returns the left index of the grid cell containing x, clamped to
// [0, len(xs)-2]. Queries outside the grid map to the edge cell so the
// interpolation weights extend that cell's plane linearly.
func bracket(xs []float64, x float64) int {
	i := sort.SearchFloat64s(xs, x) - 1
	if i < 0 {
		return 0
	}
	if i > len(xs)-2 {
		return len(xs) - 2
	}
	return i
}

// Interp evaluates the bilinear interpolant at (x, y). Coordinates beyond
// the grid bounds extrapolate linearly from the edge cell; the call never
// fails. Queries exactly at grid nodes reproduce the stored values.
func (g Grid2D) Interp(x, y float64) float64 {
	i := bracket(g.X, x)
	j := bracket(g.Y, y)

	// relative positions, deliberately unclamped for extrapolation
	tx := (x - g.X[i]) / (g.X[i+1] - g.X[i])
	ty := (y - g.Y[j]) / (g.Y[j+1] - g.Y[j])

	v00 := g.At(i, j)
	v01 := g.At(i, j+1)
	v10 := g.At(i+1, j)
	v11 := g.At(i+1, j+1)

	return (1-tx)*((1-ty)*v00+ty*v01) + tx*((1-ty)*v10+ty*v11)
}
