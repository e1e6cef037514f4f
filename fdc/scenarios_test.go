package fdc

import (
	"testing"

	"fdc1797/diskimage"
)

// Scenario 1 (spec §8): reset + RESTORE settles the head and the FDC
// track register to zero regardless of the starting cylinder, and raises
// an interrupt with the Type I status layout.
func TestScenarioResetRestore(t *testing.T) {
	h := newHarness(79, 80, 2)
	h.loadMedia(false, false)
	h.drv.SeekTo(5)
	if err := h.ctrl.WritePort(PortTrack, 99); err != nil {
		t.Fatalf("WritePort(track): %v", err)
	}

	h.selectAndEnable(false)
	h.settle()

	if h.ctrl.regs.track != 0 {
		t.Fatalf("fdc track = %d, want 0", h.ctrl.regs.track)
	}
	if h.drv.Track() != 0 {
		t.Fatalf("drive track = %d, want 0", h.drv.Track())
	}
	if !h.ctrl.flags.interruptPending {
		t.Fatal("expected interrupt_pending after RESTORE settles")
	}

	status, err := h.ctrl.ReadPort(PortCommandStatus)
	if err != nil {
		t.Fatalf("ReadPort(status): %v", err)
	}
	if status&(1<<0) != 0 {
		t.Fatalf("status = 0x%02X, expected Busy=0", status)
	}
	if status&(1<<2) == 0 {
		t.Fatalf("status = 0x%02X, expected Track0=1", status)
	}
	if status&(1<<5) == 0 {
		t.Fatalf("status = 0x%02X, expected HeadLoaded=1", status)
	}
	if h.ctrl.flags.interruptPending {
		t.Fatal("expected interrupt_pending cleared by the status read")
	}
	if h.cpu.Count != 1 {
		t.Fatalf("interrupt count = %d, want 1", h.cpu.Count)
	}
}

// Scenario 2 (spec §8, verbatim): the drive's physical cylinder is
// artificially desynced from the FDC's own track register (fdc_track=0,
// drive physically at 3) by direct drive manipulation, then a verified
// SEEK to 5 walks both counters forward in lock-step from their own
// starting points: the FDC register reaches the destination (5) while the
// drive — having started 3 cylinders ahead — lands on 8, so verify finds
// them disagreeing and flags a seek error.
func TestScenarioSeekWithVerifyFailure(t *testing.T) {
	h := newHarness(79, 80, 2)
	h.loadMedia(false, false)
	h.selectAndEnable(false)
	h.settle() // absorb the synthetic RESTORE; fdc_track=0, drive.track=0

	h.drv.SeekTo(3) // desync: the drive moves out from under the FDC register

	if err := h.ctrl.WritePort(PortData, 5); err != nil {
		t.Fatalf("WritePort(data): %v", err)
	}
	// SEEK opcode 0x1_, verify bit (bit2) set.
	if err := h.ctrl.WritePort(PortCommandStatus, 0x14); err != nil {
		t.Fatalf("WritePort(command): %v", err)
	}
	h.settle()

	if h.ctrl.regs.track != 5 {
		t.Fatalf("fdc track = %d, want 5", h.ctrl.regs.track)
	}
	if h.drv.Track() != 8 {
		t.Fatalf("drive track = %d, want 8 (started 3 ahead, stepped +5 in lock-step)", h.drv.Track())
	}
	if !h.ctrl.flags.seekError {
		t.Fatal("expected seek_error: fdc_track (5) and drive.track (8) disagree at verify")
	}
}

// A repeated no-update STEP must keep advancing the physical head by one
// cylinder each time even though the FDC track register stays frozen
// (§4.3): the head's next position is derived from the drive's own
// position, never from the frozen register.
func TestScenarioRepeatedNoUpdateStep(t *testing.T) {
	h := newHarness(79, 80, 2)
	h.loadMedia(false, false)
	h.selectAndEnable(false)
	h.settle() // fdc_track=0, drive.track=0

	// STEP-IN, no-update (bit4=0), no head-load, no verify: opcode 0x40.
	for i, wantDriveTrack := range []int{1, 2, 3} {
		if err := h.ctrl.WritePort(PortCommandStatus, 0x40); err != nil {
			t.Fatalf("step %d: WritePort(command): %v", i, err)
		}
		h.settle()

		if h.drv.Track() != wantDriveTrack {
			t.Fatalf("step %d: drive track = %d, want %d", i, h.drv.Track(), wantDriveTrack)
		}
		if h.ctrl.regs.track != 0 {
			t.Fatalf("step %d: fdc track = %d, want 0 (no-update)", i, h.ctrl.regs.track)
		}
	}
}

// Scenario 3: a full sector read, end to end, driving the Controller's
// dma.Target side directly (DMARead/DMAComplete, without DRQ pacing) the
// way dma.Engine's Transfer loop would.
func TestScenarioSectorReadEndToEnd(t *testing.T) {
	h := newHarness(79, 80, 2)
	h.loadMedia(false, false)
	h.selectAndEnable(false)
	h.settle()

	if err := h.disk.FormatTrack(diskimage.FM500, 2, 0, 9, 256); err != nil {
		t.Fatalf("FormatTrack: %v", err)
	}
	sector, err := h.disk.GetSector(2, 0, 2) // sector 3 is index 2
	if err != nil {
		t.Fatalf("GetSector: %v", err)
	}
	for i := range sector.Data {
		sector.Data[i] = byte(i)
	}

	// SEEK to cylinder 2.
	if err := h.ctrl.WritePort(PortData, 2); err != nil {
		t.Fatal(err)
	}
	if err := h.ctrl.WritePort(PortCommandStatus, 0x10); err != nil { // SEEK, no flags
		t.Fatal(err)
	}
	h.settle()
	if h.ctrl.regs.track != 2 {
		t.Fatalf("fdc track = %d, want 2 after seek", h.ctrl.regs.track)
	}

	if err := h.ctrl.WritePort(PortSector, 3); err != nil {
		t.Fatal(err)
	}
	// ReadSectorSingle, side 0: opcode 0x80.
	if err := h.ctrl.WritePort(PortCommandStatus, 0x80); err != nil {
		t.Fatal(err)
	}
	h.sched.Advance(h.cfg.CommandAcceptLatency.Nanoseconds())

	if !h.ctrl.flags.drq {
		t.Fatal("expected drq asserted after sector-transfer entry")
	}

	for i := 0; i < 256; i++ {
		b, err := h.ctrl.DMARead()
		if err != nil {
			t.Fatalf("DMARead(%d): %v", i, err)
		}
		if b != byte(i) {
			t.Fatalf("DMARead(%d) = %d, want %d", i, b, byte(i))
		}
	}

	if _, err := h.ctrl.DMARead(); err == nil {
		t.Fatal("expected the 257th DMA read to report an overrun")
	}

	h.ctrl.DMAComplete()

	if h.ctrl.flags.busy {
		t.Fatal("expected busy clear after DMAComplete")
	}
	if h.ctrl.flags.drq {
		t.Fatal("expected drq clear after DMAComplete")
	}
	if h.cpu.Count != 3 { // synthetic RESTORE, the seek, and the sector read
		t.Fatalf("interrupt count = %d, want 3", h.cpu.Count)
	}
}

// Scenario 4: a valid double-density WriteTrack stream formats the track
// exactly as declared, with no errors.
func TestScenarioWriteTrackValidDoubleDensity(t *testing.T) {
	h := newHarness(79, 80, 2)
	h.loadMedia(false, false)
	h.selectAndEnable(true) // double density
	h.settle()              // absorb the synthetic RESTORE before issuing WriteTrack

	if err := h.ctrl.WritePort(PortTrack, 7); err != nil {
		t.Fatal(err)
	}
	// WriteTrack opcode 0xF0, side 0.
	if err := h.ctrl.WritePort(PortCommandStatus, 0xF0); err != nil {
		t.Fatal(err)
	}
	h.sched.Advance(h.cfg.CommandAcceptLatency.Nanoseconds())

	if !h.ctrl.flags.drq {
		t.Fatal("expected drq asserted after WriteTrack entry")
	}

	stream := buildWriteTrackStream(t, true, 7, 0, 512, 9)
	for _, b := range stream {
		if err := h.ctrl.WritePort(PortData, b); err != nil {
			t.Fatalf("WritePort(data) during write-track: %v", err)
		}
	}

	if err := h.ctrl.NotifyIndexPulse(); err != nil {
		t.Fatalf("NotifyIndexPulse: %v", err)
	}

	track, err := h.disk.GetTrack(7, 0)
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if track.SectorCount != 9 || track.SectorSize != 512 {
		t.Fatalf("track = %+v, want 9x512", track)
	}
	if h.ctrl.flags.busy || h.ctrl.flags.drq {
		t.Fatal("expected busy/drq clear after FinishWriteTrack")
	}
}

// Scenario 5: an invalid WriteTrack stream (one sector declaring the
// wrong size) is a fatal invariant violation and leaves the disk
// unmodified.
func TestScenarioWriteTrackInvalidLeavesDiskUnmodified(t *testing.T) {
	h := newHarness(79, 80, 2)
	h.loadMedia(false, false)
	h.selectAndEnable(true)
	h.settle() // absorb the synthetic RESTORE before issuing WriteTrack

	if err := h.ctrl.WritePort(PortTrack, 7); err != nil {
		t.Fatal(err)
	}
	if err := h.ctrl.WritePort(PortCommandStatus, 0xF0); err != nil {
		t.Fatal(err)
	}
	h.sched.Advance(h.cfg.CommandAcceptLatency.Nanoseconds())

	stream := buildWriteTrackStream(t, true, 7, 0, 512, 9)
	// Corrupt sector 5's length code to 1024 (code 3), inconsistent with
	// the established 512-byte size.
	corruptSectorLengthCode(stream, 5, 3)

	for _, b := range stream {
		_ = h.ctrl.WritePort(PortData, b)
	}

	if err := h.ctrl.NotifyIndexPulse(); err == nil {
		t.Fatal("expected a fatal error for the inconsistent sector size")
	}

	if h.disk.Modified() {
		t.Fatal("expected the disk to remain unmodified after a failed WriteTrack parse")
	}
}

// Scenario 6: ForceInterrupt mid-seek stops head motion at its next tick
// without raising a completion interrupt, and restores the Type I status
// layout.
func TestScenarioForceInterruptMidSeek(t *testing.T) {
	h := newHarness(79, 80, 2)
	h.loadMedia(false, false)
	h.selectAndEnable(false)
	h.settle()

	if err := h.ctrl.WritePort(PortData, 50); err != nil {
		t.Fatal(err)
	}
	if err := h.ctrl.WritePort(PortCommandStatus, 0x10); err != nil { // SEEK
		t.Fatal(err)
	}

	// Let 10 step ticks elapse.
	h.sched.Advance(h.cfg.CommandAcceptLatency.Nanoseconds())
	for i := 0; i < 9; i++ {
		h.sched.Advance(h.cfg.StepTime.Nanoseconds())
	}
	trackAfterTenSteps := h.ctrl.regs.track
	if trackAfterTenSteps != 10 {
		t.Fatalf("fdc track after 10 ticks = %d, want 10", trackAfterTenSteps)
	}

	countBeforeAbort := h.cpu.Count
	// ForceInterrupt: opcode family 0xD_.
	if err := h.ctrl.WritePort(PortCommandStatus, 0xD0); err != nil {
		t.Fatal(err)
	}
	if h.ctrl.flags.busy {
		t.Fatal("expected busy cleared synchronously by ForceInterrupt")
	}

	// The next scheduled tick must observe the abort and do nothing further.
	h.sched.Advance(h.cfg.StepTime.Nanoseconds() * 5)

	if h.ctrl.regs.track != trackAfterTenSteps {
		t.Fatalf("fdc track moved after abort: now %d, was %d", h.ctrl.regs.track, trackAfterTenSteps)
	}
	if h.cpu.Count != countBeforeAbort {
		t.Fatal("expected no completion interrupt from an aborted seek")
	}
	if !isTypeIFamily(h.ctrl.lastCommand) {
		t.Fatalf("lastCommand = %v, want a Type I family after ForceInterrupt", h.ctrl.lastCommand)
	}
}
