package fdc

// typeIOp carries the parameters of an in-flight Type I command across
// scheduled ticks: each scheduled callback captures a pointer to it and
// passes it into typeITick, while the command's generation number travels
// as the scheduler context.
type typeIOp struct {
	destination int
	direction   int
	update      bool
	headLoad    bool
	verify      bool
	singleStep  bool
}

func (c *Controller) startRestore(cmd decodedCommand) {
	gen := c.beginCommand(FamilyRestore)
	c.flags.seekError = false

	// RESTORE synthetically loads the FDC track register with the
	// drive's current physical cylinder before walking it down to zero
	// (§4.3): the head's position is authoritative.
	c.regs.track = clampTrackByte(c.drive.Track())

	op := &typeIOp{destination: 0, direction: -1, update: true, headLoad: cmd.headLoad, verify: cmd.verify}
	c.scheduleTypeITick(gen, op)
}

func (c *Controller) startSeek(cmd decodedCommand) {
	gen := c.beginCommand(FamilySeek)
	c.flags.seekError = false

	destination := int(c.regs.data)
	direction := -1
	if destination > int(c.regs.track) {
		direction = 1
	}

	op := &typeIOp{destination: destination, direction: direction, update: true, headLoad: cmd.headLoad, verify: cmd.verify}
	c.scheduleTypeITick(gen, op)
}

func (c *Controller) startStep(cmd decodedCommand) {
	gen := c.beginCommand(cmd.family)
	c.flags.seekError = false

	direction := c.lastStepDirection
	switch cmd.family {
	case FamilyStepIn:
		direction = 1
		c.lastStepDirection = 1
	case FamilyStepOut:
		direction = -1
		c.lastStepDirection = -1
	}

	op := &typeIOp{
		destination: int(c.regs.track) + direction,
		direction:   direction,
		update:      cmd.update,
		headLoad:    cmd.headLoad,
		verify:      cmd.verify,
		singleStep:  true,
	}
	c.scheduleTypeITick(gen, op)
}

// scheduleTypeITick arranges the next tick of a Type I command. The
// initial tick is delayed by the command-accept latency; subsequent ticks
// (scheduled from typeITick below) use the step time (§5).
func (c *Controller) scheduleTypeITick(gen uint64, op *typeIOp) {
	c.sched.Schedule(c.cfg.CommandAcceptLatency.Nanoseconds(), gen, func(ts int64, ctx interface{}) {
		c.typeITick(ctx.(uint64), op)
	})
}

func (c *Controller) typeITick(gen uint64, op *typeIOp) {
	if !c.isLive(gen) {
		return
	}

	if op.singleStep {
		c.moveOneCylinder(op)
		c.finishTypeI(op)
		return
	}

	if int(c.regs.track) == op.destination {
		c.finishTypeI(op)
		return
	}

	c.moveOneCylinder(op)

	if int(c.regs.track) == op.destination {
		c.finishTypeI(op)
		return
	}

	c.sched.Schedule(c.cfg.StepTime.Nanoseconds(), gen, func(ts int64, ctx interface{}) {
		c.typeITick(ctx.(uint64), op)
	})
}

// moveOneCylinder steps the drive's actual head position by one cylinder
// in op.direction, then — if op.update is set — steps the FDC track
// register by the same one cylinder. Each counter moves from its own
// current value: the two agree only when nothing has desynced them (§8
// Scenario 2 desyncs them deliberately, and verify then reports the
// disagreement), and a no-update STEP keeps advancing the head on every
// repeat even though the register stays frozen (§4.3).
func (c *Controller) moveOneCylinder(op *typeIOp) {
	next := c.drive.Track() + op.direction
	if next < 0 {
		next = 0
	}
	c.drive.SeekTo(next)
	if op.update {
		c.regs.track = clampTrackByte(int(c.regs.track) + op.direction)
	}
}

func (c *Controller) finishTypeI(op *typeIOp) {
	if op.verify && c.drive.IsLoaded() {
		if int(c.regs.track) != c.drive.Track() {
			c.flags.seekError = true
		}
	}
	c.flags.headLoaded = op.headLoad
	c.flags.busy = false
	c.flags.interruptPending = true
	c.cpu.RaiseRST7_5()
}

func clampTrackByte(cylinder int) byte {
	if cylinder < 0 {
		return 0
	}
	if cylinder > 255 {
		return 255
	}
	return byte(cylinder)
}
