package fdc

import (
	"fdc1797/diskimage"
	"fdc1797/fdc/writetrack"
)

// FinishWriteTrack implements §4.7's completion: parses the accumulated
// write-track buffer into a sector layout, formats the track on the
// backing disk, and raises the completion interrupt. A parse failure is a
// taxonomy-2 fatal invariant violation (§7) and leaves the disk
// unmodified.
func (c *Controller) FinishWriteTrack() error {
	buf := c.writeTrackBuffer
	side := c.writeTrackSide

	result, err := writetrack.Parse(buf, writetrack.Params{
		Track:         int(c.regs.track),
		Side:          side,
		DoubleDensity: c.ext.doubleDensity,
	})

	c.flags.drq = false
	c.flags.busy = false
	c.writeTrackBuffer = nil

	if err != nil {
		c.log.WithFields(logFields{"track": c.regs.track, "side": side}).
			WithError(err).Error("fdc: write-track parse failed")
		return err
	}

	format := diskimage.FM500
	if c.ext.doubleDensity {
		format = diskimage.MFM500
	}

	if ferr := c.diskOrNil().FormatTrack(format, int(c.regs.track), side, result.SectorCount, result.SectorSize); ferr != nil {
		return ferr
	}

	c.flags.interruptPending = true
	c.cpu.RaiseRST7_5()
	return nil
}
