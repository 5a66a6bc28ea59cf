// Package component defines lifecycle-managed services and an ordered
// registry that starts them in registration order, stops them in reverse,
// and aggregates their health for the /health and /ready probes.
package component
