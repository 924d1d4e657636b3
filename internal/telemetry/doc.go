// Package telemetry exposes set and workload counters to Prometheus.
//
// SetCollector reads a snapshot from the set on every scrape, so it adds no
// cost to set operations. Ops counts workload operations by kind and outcome.
package telemetry
