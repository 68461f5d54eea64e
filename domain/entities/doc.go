// Package entities holds the value types that flow through wheelhost commands:
// command requests and the spin wheel's configuration, view and spin results.
package entities
