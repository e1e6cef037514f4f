package fdc

// writeExternalState implements the external state port write (§4.1): the
// side effects happen in the declared order — latch the new flags,
// propagate drive-select, recompute double-density/side-select (both are
// plain field latches, folded into the first step here), then act on the
// chip-enable transition.
func (c *Controller) writeExternalState(value byte) {
	prevChipEnable := c.ext.chipEnable
	newChipEnable := bitSet(value, 5)

	c.ext.waitEnable = bitSet(value, 0)
	c.ext.writePrecomp = bitSet(value, 1)
	c.ext.side = int((value >> 2) & 1)
	c.ext.doubleDensity = bitSet(value, 3)
	c.ext.driveSelect = bitSet(value, 4)

	c.drive.SetSelected(c.ext.driveSelect)

	switch {
	case newChipEnable && !prevChipEnable:
		c.chipEnableRisingEdge()
	case !newChipEnable && prevChipEnable:
		c.chipDisableFallingEdge()
	}

	c.ext.chipEnable = newChipEnable
}

// chipEnableRisingEdge implements §4.6: idempotent if already enabled;
// otherwise marks the chip enabled, dispatches a synthetic RESTORE, and —
// if a drive is selected — asserts the pseudo-index override for
// cfg.IndexOverrideDuration (the undocumented FD1797 behaviour a
// diagnostic relies on).
func (c *Controller) chipEnableRisingEdge() {
	if c.flags.fdcEnabled {
		return
	}
	c.flags.fdcEnabled = true
	c.dispatchSyntheticRestore()

	if c.drive.Selected() {
		c.flags.indexReset = true
		c.sched.Schedule(c.cfg.IndexOverrideDuration.Nanoseconds(), nil, func(ts int64, ctx interface{}) {
			c.flags.indexReset = false
		})
	}
}

// chipDisableFallingEdge implements §4.6 and the §3 Lifecycle reset
// contract: idempotent if already disabled; otherwise performs a full
// reset (clears transient flags and registers, clears the external state
// latch, forces last command back to RESTORE).
func (c *Controller) chipDisableFallingEdge() {
	if !c.flags.fdcEnabled {
		return
	}
	c.resetTransientState()
	c.flags.fdcEnabled = false
}

// resetTransientState is the §3 Lifecycle reset: clears every flag except
// fdc_enabled (which the caller manages), zeroes
// the registers, discards any in-flight transfer, and forces "last
// command" to RESTORE. Shared by the chip-enable falling edge, explicit
// system reset, and the master-reset pseudo-signal's high-to-low edge.
func (c *Controller) resetTransientState() {
	c.flags = flags{fdcEnabled: c.flags.fdcEnabled}
	c.regs = registers{}
	c.ext = externalState{}
	c.lastCommand = FamilyRestore
	c.lastStepDirection = 1
	c.generation++
	c.sectorBuffer = nil
	c.writeTrackBuffer = nil
	c.drive.SetSelected(false)
}

// Reset performs an explicit system reset (§3 Lifecycle), one of the
// three equivalent reset triggers.
func (c *Controller) Reset() {
	c.resetTransientState()
}

// MasterReset drives the master-reset pseudo-signal. A high-to-low edge
// (asserted=false after a previous call with asserted=true) triggers the
// same reset as chip-enable falling edge and explicit system reset (§3).
func (c *Controller) MasterReset(asserted bool) {
	if !asserted && c.masterReset {
		c.resetTransientState()
	}
	c.masterReset = asserted
}

// dispatchSyntheticRestore bypasses the busy gate the command port
// dispatcher enforces: the chip-enable rising edge's synthetic RESTORE
// must run even if, implausibly, busy was left set (resetTransientState
// having just cleared it makes this defensive rather than load-bearing).
func (c *Controller) dispatchSyntheticRestore() {
	c.startRestore(decodedCommand{family: FamilyRestore, update: true, headLoad: true, verify: false})
}
