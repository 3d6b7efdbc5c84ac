// Package model implements a finite-horizon life-cycle model of household
// consumption, labor supply, and fertility, solved by backward induction.
//
// # Reading Guide
//
// Start with these three files to understand the computational kernel:
//   - solver.go: the backward recursion over the discretized state space
//   - optimizer.go: the per-state nonlinear solves (terminal and interior)
//   - simulate.go: the forward panel simulation under the solved policy
//
// # Architecture
//
// A household chooses consumption and hours each period facing wealth
// accumulation, human-capital-driven wages, stochastic childbirth, and
// stochastic spouse presence. The Solver fills Solution grids (consumption,
// hours, value) over (period, children, spouse, assets, capital) from the
// terminal period backward; within each period the continuation value is a
// bilinear interpolation (interp.go) of the next period's value slice,
// mixed over the birth and spouse transitions. The Simulator then
// propagates a population forward by interpolating the stored policies and
// applying the same budget and accumulation equations.
//
// State transitions inside the recursion depend only on the next period's
// already-solved slices, so the recursion is strictly time-descending;
// within a period, cells are visited in a fixed deterministic order
// (children, spouse, assets, capital) that drives warm-starting of the
// per-cell optimizer.
//
// # Determinism
//
// Solving is fully deterministic given a Params value. Simulation consumes
// pre-generated uniform draws (rng.go) so that a master seed reproduces the
// panel bit for bit.
package model
