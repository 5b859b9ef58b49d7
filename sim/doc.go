// Package sim provides the airspace corridor capacity model and its Monte
// Carlo sensitivity driver.
//
// # Reading Guide
//
// Start with these files:
//   - params.go: ParameterSet, the speed catalogue, and input invariants
//   - capacity.go: the two-branch inter-arrival formula and Evaluate
//   - montecarlo.go: Driver.Run, the cancellable perturb/evaluate/emit loop
//
// # Architecture
//
// The sim package owns the model; supporting concerns live in sub-packages:
//   - sim/trace/: sweep summary statistics and parameter sensitivity
//   - sim/scenario/: YAML scenario files
//   - sim/history/: persistence of calculation records
//   - sim/export/: xlsx export of history and sweeps
//   - sim/metrics/: Prometheus collectors for sweeps and evaluations
//
// # Determinism
//
// All randomness flows from a PartitionedRNG keyed by a SimulationKey.
// Each perturbed parameter draws from its own subsystem stream.
package sim
