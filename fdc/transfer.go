package fdc

import (
	"fdc1797/diskimage"
)

// startSectorTransfer implements the ReadSectorSingle/WriteSectorSingle
// entry point: schedule the command-accept latency, then run §4.5's
// entry checks.
func (c *Controller) startSectorTransfer(cmd decodedCommand) {
	gen := c.beginCommand(cmd.family)
	c.flags.crcError = false
	c.flags.recordNotFound = false
	c.flags.recordTypeOrWriteFault = false
	c.flags.lostData = false
	c.transferWriteProtect = false

	c.sched.Schedule(c.cfg.CommandAcceptLatency.Nanoseconds(), gen, func(ts int64, ctx interface{}) {
		c.enterSectorTransfer(ctx.(uint64), cmd)
	})
}

func (c *Controller) enterSectorTransfer(gen uint64, cmd decodedCommand) {
	if !c.isLive(gen) {
		return
	}

	read := cmd.family == FamilyReadSectorSingle
	cylinder := c.drive.Track()
	head := cmd.side

	notReady := c.isNotReady()

	var track *diskimage.Track
	if !notReady {
		t, err := c.diskOrNil().GetTrack(cylinder, head)
		if err != nil {
			notReady = true
		} else {
			track = t
		}
	}

	if !notReady {
		// §4.5 step 2: open interval per §9's open question — matched
		// to the original's strict ">" comparison, not resolved to ">=".
		if int(c.regs.track) != cylinder || int(c.regs.sector) > track.SectorCount || c.regs.sector == 0 {
			c.flags.recordNotFound = true
		}

		wantFormat := diskimage.FM500
		if c.ext.doubleDensity {
			wantFormat = diskimage.MFM500
		}
		if track.SectorCount > 0 && track.Format != wantFormat {
			c.flags.crcError = true
		}
	}

	c.transferWriteProtect = !read && c.drive.IsWriteProtected()

	if notReady || c.flags.recordNotFound || c.flags.crcError || c.transferWriteProtect {
		// §4.5 step 5: do not begin the transfer; no interrupt from the
		// sector engine's own failure path.
		c.flags.busy = false
		c.flags.drq = false
		return
	}

	sector, err := c.diskOrNil().GetSector(cylinder, head, int(c.regs.sector)-1)
	if err != nil {
		c.flags.recordNotFound = true
		c.flags.busy = false
		c.flags.drq = false
		return
	}

	c.sectorBuffer = sector.Data
	c.sectorIndex = 0
	c.flags.drq = true
	c.drqCounter = c.cfg.DRQPacingCount

	if !read {
		c.diskOrNil().SetModified()
	}
}

// startWriteTrack implements §4.7's entry: prepares the scratch buffer
// and asserts drq. The byte stream is fed by PIO writes to the data port
// (writeData, in controller.go) until NotifyIndexPulse signals the
// index edge, at which point FinishWriteTrack parses it.
func (c *Controller) startWriteTrack(cmd decodedCommand) {
	gen := c.beginCommand(FamilyWriteTrack)
	c.flags.crcError = false
	c.flags.recordTypeOrWriteFault = false
	c.transferWriteProtect = false

	c.sched.Schedule(c.cfg.CommandAcceptLatency.Nanoseconds(), gen, func(ts int64, ctx interface{}) {
		c.enterWriteTrack(ctx.(uint64), cmd)
	})
}

func (c *Controller) enterWriteTrack(gen uint64, cmd decodedCommand) {
	if !c.isLive(gen) {
		return
	}

	notReady := c.isNotReady()
	c.transferWriteProtect = !notReady && c.drive.IsWriteProtected()

	if notReady || c.transferWriteProtect {
		c.flags.busy = false
		c.flags.drq = false
		return
	}

	c.writeTrackBuffer = make([]byte, 0, 4096)
	c.writeTrackSide = cmd.side
	c.flags.drq = true
	c.drqCounter = c.cfg.DRQPacingCount
}

// NotifyIndexPulse signals that the drive's index sensor has transitioned,
// i.e. one revolution has completed. If a WriteTrack is in flight, this
// is the edge that invokes FinishWriteTrack (§4.7); otherwise it is a
// no-op. The drive's rotation itself is out of scope (§1), so the
// surrounding emulator or a test calls this explicitly rather than the
// core deriving it from elapsed time.
func (c *Controller) NotifyIndexPulse() error {
	if !(c.flags.drq && c.lastCommand == FamilyWriteTrack) {
		return nil
	}
	return c.FinishWriteTrack()
}

// finishDataTransfer implements §4.5's DMAComplete/end-of-PIO-buffer
// finalization: clears drq and busy, discards the buffer, and raises the
// completion interrupt.
func (c *Controller) finishDataTransfer() {
	c.flags.drq = false
	c.flags.busy = false
	c.sectorBuffer = nil
	c.flags.interruptPending = true
	c.cpu.RaiseRST7_5()
}
