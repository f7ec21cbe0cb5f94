// Package ports defines interfaces between layers in the hexagonal architecture.
// Outbound ports (connection pools, procedure storage, metrics sinks) are
// implemented by adapters and consumed by the call engine and the library.
package ports
