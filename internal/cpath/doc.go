// Package cpath provides core primitives for complex-valued path integration.
//
// The package defines the fundamental interfaces and types used to track
// homotopy continuation paths as solutions of a complex ODE:
//
//   - [Vector]: complex state vector
//   - [ComplexODE]: the per-path problem an integrator drives
//   - [Integrator], [AdaptiveIntegrator]: stepper interfaces
//   - [Metric], [Observer]: per-step instrumentation
//
// # Example
//
//	ode := homotopy.NewPathODE(h, pathIndex, nil)
//	integ := integrators.NewDOPRI()
//	trk := tracker.New(ode, integ)
//	result, _ := trk.Run(ctx, cfg)
//
// # Thread Safety
//
// A ComplexODE instance belongs to exactly one integration loop. Multiple
// instances backed by the same shared problem definition may run
// concurrently as long as the shared definition is only read.
package cpath
