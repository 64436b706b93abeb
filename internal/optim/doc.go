// Package optim searches grids of arena parameters for the run that best
// satisfies an objective, usually constraint accuracy weighed against the
// sub-steps spent.
package optim
