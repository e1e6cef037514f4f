// Package fdc implements the emulation core of a Western Digital
// FD1797-style floppy disk controller: the register file, external
// state/status latches, command decoder and dispatcher, Type I and Type
// II/III engines, and status synthesizer described in spec.md.
package fdc

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"fdc1797/diskimage"
	"fdc1797/drive"
	"fdc1797/interrupt"
	"fdc1797/scheduler"
)

// Port addresses claimed by the core (§4.1).
const (
	PortCommandStatus byte = 0x84
	PortTrack         byte = 0x85
	PortSector        byte = 0x86
	PortData          byte = 0x87
	PortExternalState byte = 0xE8
)

// TerminalCountSource is implemented by the DMA engine collaborator; its
// value is folded into the external status byte (§3, §6).
type TerminalCountSource interface {
	TC() bool
}

type registers struct {
	track  byte
	sector byte
	data   byte
}

// externalState is the write side of the external latch (§3, §4.1).
type externalState struct {
	waitEnable    bool // ignored
	writePrecomp  bool // ignored
	side          int
	doubleDensity bool
	driveSelect   bool
	chipEnable    bool
}

type flags struct {
	busy                   bool
	drq                    bool
	crcError               bool
	seekError              bool
	headLoaded             bool
	recordTypeOrWriteFault bool
	recordNotFound         bool
	lostData               bool
	commandAbort           bool
	indexReset             bool
	fdcEnabled             bool
	interruptPending       bool
}

// Controller is the FDC core. It is bound to one drive for its lifetime
// (§3 "Lifecycle") and driven by one scheduler; every method is intended
// to be called from the single host thread described in §5 — there is no
// internal locking.
type Controller struct {
	cfg Config
	log logrus.FieldLogger

	drive *drive.Drive
	sched *scheduler.Scheduler
	cpu   interrupt.Sink
	dma   TerminalCountSource

	regs  registers
	ext   externalState
	flags flags

	lastCommand       Family
	lastStepDirection int // +1 or -1, repeated by a plain STEP command
	generation        uint64

	masterReset bool // last-seen level of the master-reset pseudo-signal

	sectorBuffer []byte
	sectorIndex  int
	drqCounter   int

	writeTrackBuffer []byte
	writeTrackSide   int

	transferWriteProtect bool
}

// New constructs a Controller bound to d, scheduling work on sched,
// raising completion interrupts on cpu, and folding dmaTC's terminal
// count into the external status byte. A nil logger discards all
// diagnostics (§6).
func New(cfg Config, d *drive.Drive, sched *scheduler.Scheduler, cpu interrupt.Sink, dmaTC TerminalCountSource, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = newDiscardLogger()
	}
	c := &Controller{
		cfg:               cfg,
		log:               log,
		drive:             d,
		sched:             sched,
		cpu:               cpu,
		dma:               dmaTC,
		lastCommand:       FamilyRestore,
		lastStepDirection: 1,
	}
	return c
}

// WritePort dispatches a host write to one of the core's claimed ports
// (§4.1). Writes to unrecognized ports are a taxonomy-2 invariant
// violation (§7).
func (c *Controller) WritePort(port byte, value byte) error {
	switch port {
	case PortCommandStatus:
		return c.writeCommand(value)
	case PortTrack:
		c.regs.track = value
		return nil
	case PortSector:
		c.regs.sector = value
		return nil
	case PortData:
		return c.writeData(value)
	case PortExternalState:
		c.writeExternalState(value)
		return nil
	default:
		return errUnexpectedPort(port)
	}
}

// ReadPort dispatches a host read of one of the core's claimed ports.
func (c *Controller) ReadPort(port byte) (byte, error) {
	switch port {
	case PortCommandStatus:
		return c.readStatus(), nil
	case PortTrack:
		return c.regs.track, nil
	case PortSector:
		return c.regs.sector, nil
	case PortData:
		return c.readData()
	case PortExternalState:
		return c.readExternalStatus(), nil
	default:
		return 0, errUnexpectedPort(port)
	}
}

func (c *Controller) readStatus() byte {
	b := c.synthesizeStatus()
	c.flags.interruptPending = false
	return b
}

func (c *Controller) readExternalStatus() byte {
	var b byte
	if !c.drive.IsSingleSided() {
		b |= 1 << 0 // two-sided
	}
	if !c.drive.IsLoaded() {
		b |= 1 << 1 // not loaded
	}
	if c.drive.DiskChange() {
		b |= 1 << 2
	}
	if c.dma != nil && c.dma.TC() {
		b |= 1 << 3
	}
	return b
}

func (c *Controller) writeData(value byte) error {
	if c.flags.drq {
		switch c.lastCommand {
		case FamilyWriteSectorSingle:
			if c.sectorBuffer == nil {
				return errors.New("fdc: write-sector DRQ asserted with no sector buffer (invariant violation)")
			}
			c.sectorBuffer[c.sectorIndex] = value
			c.sectorIndex++
			c.drqCounter = c.cfg.DRQPacingCount
			if c.sectorIndex >= len(c.sectorBuffer) {
				c.diskOrNil().SetModified()
				c.finishDataTransfer()
			}
			return nil
		case FamilyWriteTrack:
			if len(c.writeTrackBuffer) >= c.cfg.WriteTrackBufferSize {
				return errors.New("fdc: write-track scratch buffer overrun (invariant violation)")
			}
			c.writeTrackBuffer = append(c.writeTrackBuffer, value)
			return nil
		default:
			return errors.Errorf("fdc: unexpected PIO data write during %s (invariant violation)", c.lastCommand)
		}
	}
	c.regs.data = value
	return nil
}

func (c *Controller) readData() (byte, error) {
	if c.flags.drq && c.sectorBuffer != nil {
		b := c.sectorBuffer[c.sectorIndex]
		c.sectorIndex++
		c.drqCounter = c.cfg.DRQPacingCount
		if c.sectorIndex >= len(c.sectorBuffer) {
			c.finishDataTransfer()
		}
		return b, nil
	}
	return c.regs.data, nil
}

// isNotReady implements the NotReady status bit's definition (§4.4).
func (c *Controller) isNotReady() bool {
	return !c.drive.Selected() || !c.drive.IsLoaded()
}

func (c *Controller) beginCommand(family Family) uint64 {
	c.generation++
	c.flags.commandAbort = false
	c.lastCommand = family
	c.flags.busy = true
	return c.generation
}

func (c *Controller) isLive(gen uint64) bool {
	return gen == c.generation && !c.flags.commandAbort
}

// diskOrNil returns the drive's backing disk, which may be nil if no
// media is loaded.
func (c *Controller) diskOrNil() *diskimage.Disk {
	return c.drive.Disk()
}
