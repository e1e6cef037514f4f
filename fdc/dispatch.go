package fdc

// writeCommand implements the command port write (§4.2): ForceInterrupt
// always takes effect; every other opcode is silently rejected while
// busy.
func (c *Controller) writeCommand(opcode byte) error {
	cmd := decode(opcode)

	if cmd.family == FamilyForceInterrupt {
		c.forceInterrupt(cmd)
		return nil
	}

	if c.flags.busy {
		return nil
	}

	return c.dispatch(cmd)
}

func (c *Controller) dispatch(cmd decodedCommand) error {
	switch cmd.family {
	case FamilyRestore:
		c.startRestore(cmd)
		return nil
	case FamilySeek:
		c.startSeek(cmd)
		return nil
	case FamilyStep, FamilyStepIn, FamilyStepOut:
		c.startStep(cmd)
		return nil
	case FamilyReadSectorSingle, FamilyWriteSectorSingle:
		c.startSectorTransfer(cmd)
		return nil
	case FamilyWriteTrack:
		c.startWriteTrack(cmd)
		return nil
	case FamilyReadSectorMultiple, FamilyWriteSectorMultiple, FamilyReadAddress, FamilyReadTrack:
		// Recognized for status-layout selection only (§9 "Status layout
		// dispatch"); execution is unimplemented (§1 Non-goals, §7
		// taxonomy 3).
		c.lastCommand = cmd.family
		return errNotImplemented(cmd.family)
	default:
		return errNotImplemented(cmd.family)
	}
}

// forceInterrupt implements §4.8: sets command_abort, clears busy
// immediately, resets "last command" to RESTORE, and raises no
// interrupt. Any in-flight transfer buffer is discarded since the
// transfer it belonged to no longer exists.
func (c *Controller) forceInterrupt(cmd decodedCommand) {
	c.flags.commandAbort = true
	c.flags.busy = false
	c.flags.drq = false
	c.lastCommand = FamilyRestore
	c.sectorBuffer = nil
	c.writeTrackBuffer = nil
}
