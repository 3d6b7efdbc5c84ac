package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testGrid2D() Grid2D {
	x := NonLinSpace(-2.0, 3.0, 6, 1.1)
	y := NonLinSpace(0.0, 4.0, 5, 1.1)
	v := make([]float64, len(x)*len(y))
	g := Grid2D{X: x, Y: y, V: v}
	// tabulate a plane: bilinear interpolation must be exact on it everywhere
	for i := range x {
		for j := range y {
			v[i*len(y)+j] = 2.0*x[i] - 0.5*y[j] + 1.0
		}
	}
	return g
}

func TestInterp_ReproducesNodesExactly(t *testing.T) {
	g := testGrid2D()
	for i := range g.X {
		for j := range g.Y {
			got := g.Interp(g.X[i], g.Y[j])
			assert.InDelta(t, g.At(i, j), got, 1e-12, "node (%d,%d)", i, j)
		}
	}
}

func TestInterp_ExactOnPlaneInsideGrid(t *testing.T) {
	g := testGrid2D()
	pts := [][2]float64{{-1.3, 0.7}, {0.0, 2.2}, {2.9, 3.9}, {-1.99, 0.01}}
	for _, p := range pts {
		want := 2.0*p[0] - 0.5*p[1] + 1.0
		assert.InDelta(t, want, g.Interp(p[0], p[1]), 1e-12)
	}
}

func TestInterp_LinearExtrapolationBeyondBounds(t *testing.T) {
	// GIVEN a plane tabulated on a bounded grid
	g := testGrid2D()

	// WHEN queried far outside the grid on every side
	pts := [][2]float64{{-50.0, 1.0}, {50.0, 1.0}, {0.0, -10.0}, {0.0, 40.0}, {-30.0, 30.0}}

	// THEN the edge-cell plane extends linearly, so values stay exact
	for _, p := range pts {
		want := 2.0*p[0] - 0.5*p[1] + 1.0
		assert.InDelta(t, want, g.Interp(p[0], p[1]), 1e-9)
	}
}

func TestBracket_ClampsToEdgeCells(t *testing.T) {
	xs := []float64{0.0, 1.0, 3.0, 7.0}
	assert.Equal(t, 0, bracket(xs, -5.0))
	assert.Equal(t, 0, bracket(xs, 0.0))
	assert.Equal(t, 0, bracket(xs, 0.5))
	// an exact interior node brackets from the cell below it; the
	// interpolant is continuous, so both adjacent cells agree at the node
	assert.Equal(t, 0, bracket(xs, 1.0))
	assert.Equal(t, 1, bracket(xs, 1.5))
	assert.Equal(t, 1, bracket(xs, 2.9))
	assert.Equal(t, 2, bracket(xs, 7.0))
	assert.Equal(t, 2, bracket(xs, 100.0))
}
