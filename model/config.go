package model

import "fmt"

// Params holds every primitive of the model: preferences, income processes,
// transition probabilities, grid geometry, and simulation sizes. A Params
// value is immutable once validated; every component receives it by pointer
// and never writes to it.
//
// YAML tags allow a parameter file to override any subset of the defaults
// (see cmd/params_config.go).
type Params struct {
	T int `yaml:"periods"` // number of life-cycle periods

	// preferences
	Rho   float64 `yaml:"rho"`    // discount factor
	Beta0 float64 `yaml:"beta_0"` // weight on labor disutility (constant)
	Beta1 float64 `yaml:"beta_1"` // additional weight on labor disutility per child
	Eta   float64 `yaml:"eta"`    // CRRA curvature on consumption, must differ from -1
	Gamma float64 `yaml:"gamma"`  // curvature on labor hours, must be positive

	// income
	Alpha    float64   `yaml:"alpha"`     // human capital elasticity of the wage
	W        float64   `yaml:"wage"`      // base wage level
	Tau      float64   `yaml:"tau"`       // labor income tax rate
	WagePath []float64 `yaml:"wage_path"` // per-period base wage; empty means constant W

	// children and spouse
	PBirth      float64 `yaml:"p_birth"`      // birth probability while a spouse is present
	PSpouse     float64 `yaml:"p_spouse"`     // spouse-present probability, i.i.d. per period
	Theta       float64 `yaml:"theta"`        // childcare unit cost per child
	SpouseDummy int     `yaml:"spouse_dummy"` // 1 enables spousal income, 0 disables it

	// saving
	R float64 `yaml:"interest_rate"` // interest rate on assets

	// grids
	AMin float64 `yaml:"a_min"` // lower bound of the asset grid
	AMax float64 `yaml:"a_max"` // upper bound of the asset grid
	Na   int     `yaml:"n_a"`   // asset grid size
	KMax float64 `yaml:"k_max"` // upper bound of the human capital grid
	Nk   int     `yaml:"n_k"`   // human capital grid size
	Nn   int     `yaml:"n_n"`   // number of children-count levels
	Ns   int     `yaml:"n_s"`   // number of spouse states (1 or 2)

	// simulation
	SimN int `yaml:"sim_n"` // population size
	SimT int `yaml:"sim_t"` // simulated periods; 0 means T

	// per-cell optimizer iteration cap; 0 means the method default.
	// Keeps a single difficult cell from stalling the whole recursion.
	MaxIterations int `yaml:"max_iterations"`
}

// DefaultParams returns the baseline parameterization.
func DefaultParams() Params {
	return Params{
		T: 10,

		Rho:   0.98,
		Beta0: 0.1,
		Beta1: 0.05,
		Eta:   -2.0,
		Gamma: 2.5,

		Alpha: 0.1,
		W:     1.0,
		Tau:   0.1,

		PBirth:      0.1,
		PSpouse:     1.0,
		Theta:       0.0,
		SpouseDummy: 0,

		R: 0.02,

		AMin: -10.0,
		AMax: 5.0,
		Na:   50,
		KMax: 20.0,
		Nk:   20,
		Nn:   2,
		Ns:   2,

		SimN: 1000,
	}
}

// BaseWage returns the pre-tax base wage for period t, honoring an explicit
// wage path when one is configured.
func (p *Params) BaseWage(t int) float64 {
	if len(p.WagePath) > 0 {
		return p.WagePath[t]
	}
	return p.W
}

// simPeriods resolves SimT, defaulting to the full horizon.
func (p *Params) simPeriods() int {
	if p.SimT > 0 {
		return p.SimT
	}
	return p.T
}

// Validate fails fast on configurations that would only surface later as
// NaN cells or index panics deep inside the recursion.
func (p *Params) Validate() error {
	if p.T < 1 {
		return fmt.Errorf("periods must be >= 1, got %d", p.T)
	}
	if p.Eta == -1.0 {
		return fmt.Errorf("eta must differ from -1 (CRRA exponent divides by 1+eta)")
	}
	if p.Gamma <= 0 {
		return fmt.Errorf("gamma must be positive for convex hours disutility, got %g", p.Gamma)
	}
	if p.Na < 2 || p.Nk < 2 {
		return fmt.Errorf("asset and capital grids need at least 2 points, got Na=%d Nk=%d", p.Na, p.Nk)
	}
	if p.Nn < 1 {
		return fmt.Errorf("need at least one children level, got %d", p.Nn)
	}
	if p.Ns != 1 && p.Ns != 2 {
		return fmt.Errorf("spouse states must be 1 or 2, got %d", p.Ns)
	}
	if p.AMin >= p.AMax {
		return fmt.Errorf("asset grid bounds inverted: [%g, %g]", p.AMin, p.AMax)
	}
	if p.KMax <= 0 {
		return fmt.Errorf("capital grid upper bound must be positive, got %g", p.KMax)
	}
	if p.PBirth < 0 || p.PBirth > 1 {
		return fmt.Errorf("p_birth outside [0,1]: %g", p.PBirth)
	}
	if p.PSpouse < 0 || p.PSpouse > 1 {
		return fmt.Errorf("p_spouse outside [0,1]: %g", p.PSpouse)
	}
	if p.SimN < 0 {
		return fmt.Errorf("population size must be non-negative, got %d", p.SimN)
	}
	if p.SimT > p.T {
		return fmt.Errorf("sim_t %d exceeds horizon %d", p.SimT, p.T)
	}
	if len(p.WagePath) > 0 && len(p.WagePath) != p.T {
		return fmt.Errorf("wage_path has %d entries, want %d (one per period)", len(p.WagePath), p.T)
	}
	return nil
}
