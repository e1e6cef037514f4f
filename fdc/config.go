package fdc

import "time"

// Config holds the timing and pacing constants an FD1797-style core needs.
// Per the spec's own open question about the 10ms index-override duration
// ("a guess... keep it as a named configuration constant rather than fold
// it into the code"), every timing constant lives here rather than as bare
// literals in the state machine.
type Config struct {
	// CommandAcceptLatency is the delay before the first scheduled tick of
	// any Type I or Type II/III command.
	CommandAcceptLatency time.Duration

	// StepTime is the delay between successive head-step ticks during a
	// seek or restore. Single-cylinder STEP commands complete on their
	// first tick and do not use it.
	StepTime time.Duration

	// IndexOverrideDuration is how long the pseudo-index override asserted
	// on a chip-enable rising edge stays latched (§4.6). Explicitly
	// documented upstream as an undocumented-hardware guess; kept
	// configurable rather than hard-coded.
	IndexOverrideDuration time.Duration

	// DRQPacingCount is the DRQ pulse countdown (§4.5, §9): the DMA-facing
	// DRQ() query returns true only once every DRQPacingCount calls. The
	// spec directs preserving this verbatim.
	DRQPacingCount int

	// WriteTrackBufferSize bounds the write-track scratch buffer (§3).
	WriteTrackBufferSize int
}

// DefaultConfig returns the timing values spec'd in §5 and §9.
func DefaultConfig() Config {
	return Config{
		CommandAcceptLatency:  12 * time.Microsecond,
		StepTime:              6 * time.Millisecond,
		IndexOverrideDuration: 10 * time.Millisecond,
		DRQPacingCount:        16,
		WriteTrackBufferSize:  65536,
	}
}
