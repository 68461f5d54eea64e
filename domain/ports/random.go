package ports

// Picker draws the spin target.
type Picker interface {
	// IntN returns a uniform integer in [0, n). n is always > 0.
	IntN(n int) int
}
