// Package metrics declares the Prometheus collectors of the sync engine.
// They are registered on the default registry and served on /metrics.
package metrics
