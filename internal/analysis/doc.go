// Package analysis provides offline tools for characterising recorded and
// replayed runs.
//
//   - [PowerSpectrum], [DominantFrequency]: spectrum of a per-frame series
//     such as kinetic energy, to find sloshing modes of the pile
//   - [LyapunovExponent]: divergence of two copies of a crowd
//   - [RadialProfile], [PackingFraction]: how densely the arena is filled
//   - [SubStepSweep]: constraint quality against sub-step count
//
// # Settling
//
// A pile at rest has a flat kinetic energy series; a strong dominant
// frequency means it is still sloshing:
//
//	f, power := analysis.DominantFrequency(energy, frameDt)
package analysis
