package fdc

import (
	"testing"

	"fdc1797/diskimage"
	"fdc1797/drive"
	"fdc1797/interrupt"
	"fdc1797/scheduler"
)

// The marker bytes written by a host's WriteTrack stream, mirroring
// fdc/writetrack's unexported constants of the same values (§4.7).
const (
	testGapMFM         = 0x4E
	testGapFM          = 0xFF
	testSoftIndexMark  = 0xFC
	testSectorIDMarker = 0xFE
	testDataMarker     = 0xFB
	testRecordEnd      = 0xF7
)

// sizeToLengthCode maps a sector byte count to the WD1797 length code
// fdc/writetrack.lengthCodeToSize expects.
func sizeToLengthCode(t *testing.T, size int) byte {
	t.Helper()
	switch size {
	case 128:
		return 0
	case 256:
		return 1
	case 512:
		return 2
	case 1024:
		return 3
	default:
		t.Fatalf("unsupported sector size %d in test helper", size)
		return 0
	}
}

// buildWriteTrackStream assembles a well-formed WriteTrack byte stream for
// track/side declaring count consecutively numbered sectors of sectorSize
// bytes each, the shape fdc/writetrack.Parse expects.
func buildWriteTrackStream(t *testing.T, doubleDensity bool, track, side, sectorSize, count int) []byte {
	t.Helper()
	var buf []byte
	if doubleDensity {
		buf = append(buf, testGapMFM)
	} else {
		buf = append(buf, testGapFM)
	}
	buf = append(buf, testSoftIndexMark)

	code := sizeToLengthCode(t, sectorSize)
	for sec := 1; sec <= count; sec++ {
		buf = append(buf, testSectorIDMarker, byte(track), byte(side), byte(sec), code)
		buf = append(buf, testDataMarker)
		buf = append(buf, make([]byte, sectorSize)...)
		buf = append(buf, testRecordEnd)
	}
	return buf
}

// corruptSectorLengthCode overwrites the length-code byte of the sector-ID
// record declaring sector number sector, scanning the stream the same way
// fdc/writetrack.Parse does.
func corruptSectorLengthCode(stream []byte, sector int, newCode byte) {
	for i := 0; i+4 < len(stream); i++ {
		if stream[i] == testSectorIDMarker && int(stream[i+3]) == sector {
			stream[i+4] = newCode
			return
		}
	}
}

type noTC struct{}

func (noTC) TC() bool { return false }

// harness bundles everything a test needs to drive a Controller end to
// end: the scheduler (advanced explicitly, there is no wall clock), the
// drive/disk pair, and an interrupt counter to assert completion.
type harness struct {
	cfg   Config
	sched *scheduler.Scheduler
	drv   *drive.Drive
	disk  *diskimage.Disk
	cpu   *interrupt.Counter
	ctrl  *Controller
}

func newHarness(maxCylinder, cylinders, sides int) *harness {
	h := &harness{
		cfg:   DefaultConfig(),
		sched: scheduler.New(),
		drv:   drive.New(maxCylinder),
		disk:  diskimage.New(cylinders, sides),
		cpu:   &interrupt.Counter{},
	}
	h.ctrl = New(h.cfg, h.drv, h.sched, h.cpu, noTC{}, nil)
	return h
}

func (h *harness) loadMedia(singleSided, writeProtected bool) {
	h.drv.LoadDisk(h.disk, singleSided, writeProtected)
}

// selectAndEnable writes the external state port to select the drive and
// assert chip-enable, triggering the rising-edge synthetic RESTORE.
func (h *harness) selectAndEnable(doubleDensity bool) {
	var v byte
	v |= 1 << 4 // drive select
	v |= 1 << 5 // chip enable
	if doubleDensity {
		v |= 1 << 3
	}
	if err := h.ctrl.WritePort(PortExternalState, v); err != nil {
		panic(err)
	}
}

// settle advances virtual time far enough for any plausible in-flight
// Type I or Type II/III command to finish.
func (h *harness) settle() {
	h.sched.Advance(200_000_000) // 200ms
}
