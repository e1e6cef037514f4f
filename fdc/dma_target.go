package fdc

import "github.com/pkg/errors"

// DRQ implements dma.Target: the paced DMA-facing data-request query
// (§4.5, §9 "DRQ pacing counter"). Each call decrements an internal
// counter; it returns true only once every cfg.DRQPacingCount calls, then
// resets. The PIO path (ReadPort/WritePort on the data port) does not go
// through this pacing — it consults the raw drq flag directly, since a
// host's explicit port access is not a poll.
func (c *Controller) DRQ() bool {
	if !c.flags.drq {
		return false
	}
	c.drqCounter--
	if c.drqCounter <= 0 {
		c.drqCounter = c.cfg.DRQPacingCount
		return true
	}
	return false
}

// DMARead implements dma.Target: returns the current sector byte and
// advances (§4.5). At end-of-buffer it only drops drq; unlike the PIO read
// path, it does not finalize the transfer, which is left to DMAComplete.
func (c *Controller) DMARead() (byte, error) {
	if c.sectorBuffer == nil || c.sectorIndex >= len(c.sectorBuffer) {
		c.log.WithFields(logFields{"track": c.regs.track, "sector": c.regs.sector}).
			Warn("fdc: DMA read overrun, no active sector transfer")
		return 0, errors.New("fdc: DMA read with no active sector transfer (invariant violation)")
	}
	b := c.sectorBuffer[c.sectorIndex]
	c.sectorIndex++
	c.drqCounter = c.cfg.DRQPacingCount
	if c.sectorIndex >= len(c.sectorBuffer) {
		// Buffer exhausted: drq drops, but busy (and the buffer handle)
		// stays until DMAComplete, matching a real DMA controller's
		// trailing terminal-count cycle.
		c.flags.drq = false
	}
	return b, nil
}

// DMAWrite implements dma.Target. DMA writes are valid only under
// WriteSectorSingle (§4.5 "Disallowed"); any other command is a
// taxonomy-2 invariant violation, and WriteTrack specifically must use
// PIO because its byte stream is timing-sensitive.
func (c *Controller) DMAWrite(b byte) error {
	if c.lastCommand != FamilyWriteSectorSingle {
		return errors.Errorf("fdc: DMA write during %s (only WriteSectorSingle may use DMA writes)", c.lastCommand)
	}
	if c.sectorBuffer == nil || c.sectorIndex >= len(c.sectorBuffer) {
		return errors.New("fdc: DMA write with no active sector transfer (invariant violation)")
	}
	c.sectorBuffer[c.sectorIndex] = b
	c.sectorIndex++
	c.drqCounter = c.cfg.DRQPacingCount
	if c.sectorIndex >= len(c.sectorBuffer) {
		c.flags.drq = false
		c.diskOrNil().SetModified()
	}
	return nil
}

// DMAComplete implements dma.Target: the scheduler-signalled end of a DMA
// transfer (§4.5).
func (c *Controller) DMAComplete() {
	c.finishDataTransfer()
}

// logFields is a tiny alias so call sites read naturally; logrus.Fields is
// map[string]interface{}.
type logFields = map[string]interface{}
