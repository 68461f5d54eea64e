// Package ports defines interfaces for infrastructure operations.
// Application services depend on these abstractions and infrastructure
// adapters implement them.
package ports
