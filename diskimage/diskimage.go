// Package diskimage is the in-memory disk/track/sector collaborator the FDC
// core reads and writes through. It is the direct descendant of retroio's
// amstrad/dsk package (DiskInformation, TrackInformation, sectorSizeMap):
// the same "one byte buffer per sector, grouped under a fixed-size track"
// shape, generalized from the Amstrad CPC's fixed 9-sector/512-byte layout
// to the two recording formats an FD1797 actually supports.
package diskimage

import "github.com/pkg/errors"

// Format is a low-level recording format: single-density FM or
// double-density MFM, both at 500 kbit/s. No other formats are modeled.
type Format int

const (
	FM500 Format = iota
	MFM500
)

func (f Format) String() string {
	switch f {
	case FM500:
		return "FM-500"
	case MFM500:
		return "MFM-500"
	default:
		return "unknown"
	}
}

// Sector is a single addressable unit on a track. Data is mutable: both
// sector reads and sector writes operate directly on this slice.
type Sector struct {
	Data []byte
}

// Track is the content of one physical cylinder/head combination.
type Track struct {
	Format      Format
	SectorCount int
	SectorSize  int
	Sectors     []*Sector
}

// Disk is the backing store addressed by (cylinder, head). It holds no
// knowledge of any container file format; loading and saving a concrete
// image is out of scope for this core (see spec §1).
type Disk struct {
	Sides     int
	Cylinders int

	tracks   map[[2]int]*Track
	modified bool
}

// New builds an empty disk with the given geometry. Tracks are created
// lazily by FormatTrack; until formatted, GetTrack reports a blank (zero
// sector count) track, matching an unformatted floppy, and GetSector
// reports an out-of-range error.
func New(cylinders, sides int) *Disk {
	return &Disk{
		Cylinders: cylinders,
		Sides:     sides,
		tracks:    make(map[[2]int]*Track),
	}
}

// GetTrack returns the track at (cylinder, head). A cylinder/head never
// formatted returns a zero-value Track (SectorCount 0), not an error: an
// unformatted track is valid disk state, not an invariant violation.
func (d *Disk) GetTrack(cylinder, head int) (*Track, error) {
	if head < 0 || head >= d.Sides {
		return nil, errors.Errorf("diskimage: head %d out of range (sides=%d)", head, d.Sides)
	}
	if t, ok := d.tracks[[2]int{cylinder, head}]; ok {
		return t, nil
	}
	return &Track{}, nil
}

// GetSector returns the backing byte buffer for sector number
// sectorZeroIndex (0-based) of the track at (cylinder, head).
func (d *Disk) GetSector(cylinder, head, sectorZeroIndex int) (*Sector, error) {
	track, err := d.GetTrack(cylinder, head)
	if err != nil {
		return nil, err
	}
	if sectorZeroIndex < 0 || sectorZeroIndex >= len(track.Sectors) {
		return nil, errors.Errorf("diskimage: sector index %d out of range (cylinder=%d, head=%d, count=%d)",
			sectorZeroIndex, cylinder, head, len(track.Sectors))
	}
	return track.Sectors[sectorZeroIndex], nil
}

// FormatTrack lays down sectorCount sectors of sectorSize bytes each, all
// zero-filled, replacing whatever was previously at (cylinder, head).
// Interleave is always 1:1 (see spec §1 Non-goals); no layout beyond linear
// sector order is recorded.
func (d *Disk) FormatTrack(format Format, cylinder, head, sectorCount, sectorSize int) error {
	if head < 0 || head >= d.Sides {
		return errors.Errorf("diskimage: head %d out of range (sides=%d)", head, d.Sides)
	}
	sectors := make([]*Sector, sectorCount)
	for i := range sectors {
		sectors[i] = &Sector{Data: make([]byte, sectorSize)}
	}
	d.tracks[[2]int{cylinder, head}] = &Track{
		Format:      format,
		SectorCount: sectorCount,
		SectorSize:  sectorSize,
		Sectors:     sectors,
	}
	d.modified = true
	return nil
}

// SetModified marks the disk dirty, mirroring the WD1797's behaviour of
// flagging media as written-to on any successful sector write.
func (d *Disk) SetModified() {
	d.modified = true
}

// Modified reports whether the disk has been written to since creation.
func (d *Disk) Modified() bool {
	return d.modified
}
