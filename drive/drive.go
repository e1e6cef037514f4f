// Package drive models the physical floppy drive collaborator described in
// spec §6: head position and sensors, media state latches, and the seek
// primitive the FDC's Type I engine drives. No FD1797-family repo in the
// retrieval pack models a live drive (retroio only ever reads a static
// .dsk file), so this is new code written in the teacher's plain mutable
// struct idiom rather than adapted from an existing file.
package drive

import "fdc1797/diskimage"

// Drive is a single floppy drive with a disk optionally loaded into it.
type Drive struct {
	disk *diskimage.Disk

	selected       bool
	loaded         bool
	singleSided    bool
	writeProtected bool
	diskChanged    bool

	cylinder    int
	maxCylinder int
}

// New constructs a drive with no disk loaded, head parked at cylinder 0.
func New(maxCylinder int) *Drive {
	return &Drive{maxCylinder: maxCylinder}
}

// LoadDisk inserts disk into the drive. Inserting a disk always latches
// disk-changed, mirroring the real drive's door-switch behaviour.
func (d *Drive) LoadDisk(disk *diskimage.Disk, singleSided, writeProtected bool) {
	d.disk = disk
	d.loaded = disk != nil
	d.singleSided = singleSided
	d.writeProtected = writeProtected
	d.diskChanged = true
}

// EjectDisk removes any loaded disk.
func (d *Drive) EjectDisk() {
	d.disk = nil
	d.loaded = false
	d.diskChanged = true
}

// Disk returns the backing disk image, or nil if none is loaded.
func (d *Drive) Disk() *diskimage.Disk { return d.disk }

// SetSelected sets drive-select, propagated from the external state latch.
func (d *Drive) SetSelected(selected bool) { d.selected = selected }

// Selected reports whether this drive is currently drive-selected.
func (d *Drive) Selected() bool { return d.selected }

// IsLoaded reports whether media is present.
func (d *Drive) IsLoaded() bool { return d.loaded }

// IsSingleSided reports whether the loaded media is single-sided.
func (d *Drive) IsSingleSided() bool { return d.singleSided }

// IsWriteProtected reports the media's write-protect tab state.
func (d *Drive) IsWriteProtected() bool { return d.writeProtected }

// DiskChange reports the latched disk-changed signal. It clears only when
// the host steps the head while the drive is selected, the conventional
// way host floppy software clears the line (supplementing the distilled
// spec, see SPEC_FULL.md "Additional feature").
func (d *Drive) DiskChange() bool { return d.diskChanged }

// Track0 reports the track-0 sensor.
func (d *Drive) Track0() bool { return d.cylinder == 0 }

// Index reports the index sensor. This emulation does not model rotation,
// so the index sensor is always asserted; the FDC's index_reset override
// (§4.6) is the only source of a "pulsed" index signal this model needs.
func (d *Drive) Index() bool { return true }

// Track reports the current physical cylinder.
func (d *Drive) Track() int { return d.cylinder }

// SeekTo moves the head directly to cylinder, clamped to the drive's
// travel limits, and clears the disk-changed latch if the drive is
// selected (a step while selected acknowledges the media change).
func (d *Drive) SeekTo(cylinder int) {
	if cylinder < 0 {
		cylinder = 0
	}
	if cylinder > d.maxCylinder {
		cylinder = d.maxCylinder
	}
	d.cylinder = cylinder
	if d.selected {
		d.diskChanged = false
	}
}

// Reset parks the head at cylinder 0 without touching media state.
func (d *Drive) Reset() {
	d.cylinder = 0
}
