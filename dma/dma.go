// Package dma is the DMA engine collaborator of spec §6. The controller
// implements the Target interface (DRQ/DMARead/DMAWrite/DMAComplete); this
// package plays the part of the external DMA engine that polls it, and
// exposes the terminal-count flag the external status latch folds in
// (§3). No pack repo models a DMA engine as a distinct polling
// collaborator (tamago's internal/dma is a coherent-memory buffer
// allocator, a different concern), so this is new code in the teacher's
// plain-struct idiom.
package dma

import "github.com/pkg/errors"

// Target is implemented by the FDC controller. DMARead/DMAWrite return an
// error because a target may refuse a transfer mid-flight (no active
// buffer, a command family that disallows DMA writes); the engine treats
// any such error as fatal to the transfer.
type Target interface {
	DRQ() bool
	DMARead() (byte, error)
	DMAWrite(b byte) error
	DMAComplete()
}

// Engine is a minimal DMA engine: it polls Target.DRQ() and moves one byte
// per successful poll, the way a real DMA controller samples the DRQ line
// many times per byte time (§4.5's DRQ pacing counter is what makes this
// polling loop plausible rather than instantaneous).
type Engine struct {
	tc bool
}

// TC reports the terminal-count flag, latched by the most recently
// completed Transfer and folded into the external status byte.
func (e *Engine) TC() bool { return e.tc }

// Transfer moves count bytes between memory (represented here simply as a
// returned/consumed []byte) and target, reading when write is false and
// writing when true. It polls DRQ before every byte, matching the real
// DMA controller's handshake; a target that never asserts DRQ within
// maxPolls polls per byte is a lost-data condition in hardware, surfaced
// here as an error rather than silently hanging the emulated session.
func (e *Engine) Transfer(target Target, data []byte, write bool, maxPollsPerByte int) error {
	e.tc = false
	for i := range data {
		polled := 0
		for !target.DRQ() {
			polled++
			if polled > maxPollsPerByte {
				return errors.Errorf("dma: no DRQ after %d polls at byte %d (lost data)", maxPollsPerByte, i)
			}
		}
		if write {
			if err := target.DMAWrite(data[i]); err != nil {
				return errors.Wrapf(err, "dma: write rejected at byte %d", i)
			}
		} else {
			b, err := target.DMARead()
			if err != nil {
				return errors.Wrapf(err, "dma: read rejected at byte %d", i)
			}
			data[i] = b
		}
	}
	e.tc = true
	target.DMAComplete()
	return nil
}
