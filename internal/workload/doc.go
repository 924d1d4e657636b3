// Package workload drives a concurrent integer set with a timed, randomized
// mix of inserts, deletes and lookups, and verifies the set afterwards.
//
// # Basic Usage
//
//	cfg := workload.DefaultConfig()
//	cfg.Threads = 8
//	report, err := workload.Run(ctx, lazyset.New(), cfg)
//
// # Configuration
//
// Configs are usually loaded from YAML (or JSON) with LoadFile:
//
//	duration: 5s
//	threads: 8
//	initial_size: 1000
//	key_range: 2000
//	insert_percent: 10
//	delete_percent: 10
//	seed: 42
//	verify: true
//
// The remaining percentage of operations are lookups.
package workload
