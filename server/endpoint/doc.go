// Package endpoint holds the probe handlers: /health for collaborator
// reachability, /ready for lifecycle state and pipeline capacity, /info
// for build metadata.
package endpoint
