package fdc

// synthesizeStatus implements §4.4's per-family bit layout. It does not
// clear interrupt_pending; the caller (readStatus) does that, since the
// layout itself is a pure function of current state.
func (c *Controller) synthesizeStatus() byte {
	var b byte

	if c.isNotReady() {
		b |= 1 << 7
	}
	if c.flags.crcError {
		b |= 1 << 3
	}
	if c.flags.busy {
		b |= 1 << 0
	}

	switch {
	case isTypeIFamily(c.lastCommand):
		if c.drive.IsWriteProtected() {
			b |= 1 << 6
		}
		if c.flags.headLoaded {
			b |= 1 << 5
		}
		if c.flags.seekError {
			b |= 1 << 4
		}
		if c.drive.Track0() {
			b |= 1 << 2
		}
		if c.drive.Index() || c.flags.indexReset {
			b |= 1 << 1
		}
	case isWriteFamily(c.lastCommand):
		if c.transferWriteProtect {
			b |= 1 << 6
		}
		if c.flags.recordTypeOrWriteFault {
			b |= 1 << 5
		}
		if c.flags.recordNotFound {
			b |= 1 << 4
		}
		if c.flags.lostData {
			b |= 1 << 2
		}
		if c.flags.drq {
			b |= 1 << 1
		}
	default:
		// ReadSectorSingle/Multiple, ReadAddress, ReadTrack: no write-fault
		// or write-protect bit, per §4.4's table.
		if c.flags.recordNotFound {
			b |= 1 << 4
		}
		if c.flags.lostData {
			b |= 1 << 2
		}
		if c.flags.drq {
			b |= 1 << 1
		}
	}

	return b
}
