// Package interrupt is the CPU collaborator of spec §6: the controller
// raises RST7_5 on command completion and nothing else. Trivial by
// design; grounded directly on the spec's contract list rather than any
// pack file.
package interrupt

// Sink receives the interrupt the FDC raises on command completion.
type Sink interface {
	RaiseRST7_5()
}

// Counter is a Sink that counts raises, for use in tests and the demo CLI.
type Counter struct {
	Count int
}

func (c *Counter) RaiseRST7_5() { c.Count++ }
