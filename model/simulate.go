package model

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Draws holds the pre-generated uniform variates consumed by the
// Simulator: one per (individual, period) for childbirth and one for spouse
// presence. The Simulator treats them as immutable inputs, so tests can
// supply hand-built matrices.
type Draws struct {
	Birth  [][]float64 // Birth[i][t] in [0,1)
	Spouse [][]float64 // Spouse[i][t] in [0,1)
}

// NewDraws fills both draw matrices from isolated subsystem streams of the
// partitioned RNG.
func NewDraws(par *Params, rng *PartitionedRNG) *Draws {
	simT := par.simPeriods()
	d := &Draws{
		Birth:  make([][]float64, par.SimN),
		Spouse: make([][]float64, par.SimN),
	}
	birth := rng.ForSubsystem(SubsystemBirth)
	spouse := rng.ForSubsystem(SubsystemSpouse)
	for i := 0; i < par.SimN; i++ {
		d.Birth[i] = make([]float64, simT)
		d.Spouse[i] = make([]float64, simT)
		for t := 0; t < simT; t++ {
			d.Birth[i][t] = birth.Float64()
			d.Spouse[i][t] = spouse.Float64()
		}
	}
	return d
}

// Initial holds per-individual starting states. A nil Initial (or nil
// field) means everyone starts at zero assets, zero capital, no children.
type Initial struct {
	Assets   []float64
	Capital  []float64
	Children []int
}

// Panel is the simulated population: per-individual, per-period states and
// choices, indexed [individual][period].
type Panel struct {
	Assets   [][]float64
	Capital  [][]float64
	Children [][]int
	Spouse   [][]int
	Cons     [][]float64
	Hours    [][]float64
}

func newPanel(n, t int) *Panel {
	p := &Panel{
		Assets:   make([][]float64, n),
		Capital:  make([][]float64, n),
		Children: make([][]int, n),
		Spouse:   make([][]int, n),
		Cons:     make([][]float64, n),
		Hours:    make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		p.Assets[i] = make([]float64, t)
		p.Capital[i] = make([]float64, t)
		p.Children[i] = make([]int, t)
		p.Spouse[i] = make([]int, t)
		p.Cons[i] = make([]float64, t)
		p.Hours[i] = make([]float64, t)
	}
	return p
}

// Simulator propagates a population of households forward under a solved
// policy. The solution grids are read-only here; individuals are mutually
// independent and processed sequentially in index order.
type Simulator struct {
	par   *Params
	grids *Grids
	sol   *Solution
}

// NewSimulator wires a solved policy to a simulator. The solution must come
// from a Solver built with the same Params.
func NewSimulator(par *Params, grids *Grids, sol *Solution) *Simulator {
	return &Simulator{par: par, grids: grids, sol: sol}
}

// Simulate runs every individual forward through simPeriods() periods,
// drawing spouse presence i.i.d. each period, interpolating the stored
// consumption and hours policies at the continuous (assets, capital) state,
// and applying the budget and accumulation equations. Children counts are
// non-decreasing and capped at Nn-1; a birth requires a present spouse.
func (s *Simulator) Simulate(init *Initial, draws *Draws) (*Panel, error) {
	par := s.par
	simT := par.simPeriods()

	if err := checkDraws(draws, par.SimN, simT); err != nil {
		return nil, err
	}

	panel := newPanel(par.SimN, simT)
	for i := 0; i < par.SimN; i++ {
		assets, capital, children := initialState(init, i)

		for t := 0; t < simT; t++ {
			spouse := 0
			if draws.Spouse[i][t] <= par.PSpouse {
				spouse = 1
			}
			if spouse > par.Ns-1 {
				spouse = par.Ns - 1
			}

			cons := s.sol.ConsSlice(t, children, spouse, s.grids).Interp(assets, capital)
			hours := s.sol.HoursSlice(t, children, spouse, s.grids).Interp(assets, capital)

			panel.Assets[i][t] = assets
			panel.Capital[i][t] = capital
			panel.Children[i][t] = children
			panel.Spouse[i][t] = spouse
			panel.Cons[i][t] = cons
			panel.Hours[i][t] = hours

			if t < simT-1 {
				income := par.Wage(capital, t)*hours + par.SpouseIncome(spouse, t)
				assets = (1.0 + par.R) * (assets + income - cons - par.ChildcareCost(children))
				capital += hours
				// strict comparison: a draw of exactly 0 must not count as a
				// birth when PBirth is 0
				if draws.Birth[i][t] < par.PBirth && children < par.Nn-1 && spouse == 1 {
					children++
				}
			}
		}
	}

	logrus.Infof("simulated %d individuals over %d periods", par.SimN, simT)
	return panel, nil
}

func initialState(init *Initial, i int) (assets, capital float64, children int) {
	if init == nil {
		return 0, 0, 0
	}
	if init.Assets != nil {
		assets = init.Assets[i]
	}
	if init.Capital != nil {
		capital = init.Capital[i]
	}
	if init.Children != nil {
		children = init.Children[i]
	}
	return assets, capital, children
}

func checkDraws(draws *Draws, n, t int) error {
	if draws == nil {
		return fmt.Errorf("nil draws")
	}
	if len(draws.Birth) < n || len(draws.Spouse) < n {
		return fmt.Errorf("draws cover %d individuals, need %d", min(len(draws.Birth), len(draws.Spouse)), n)
	}
	for i := 0; i < n; i++ {
		if len(draws.Birth[i]) < t || len(draws.Spouse[i]) < t {
			return fmt.Errorf("draws for individual %d cover fewer than %d periods", i, t)
		}
	}
	return nil
}
