// Package writetrack is the byte-stream automaton described in spec §4.7:
// it reconstructs sector geometry from the raw formatting stream a WriteTrack
// command's host software deposits. Grounded on retroio's fixed-layout
// binary header reads (amstrad/amsdos/headers.go, amstrad/dsk/disk_info.go)
// generalized from a single fixed record shape to a small state-tagged loop
// over a variable number of variable-content records.
package writetrack

import "github.com/pkg/errors"

// Marker bytes the automaton recognizes (§4.7).
const (
	gapMFM         = 0x4E
	gapFM          = 0xFF
	softIndexMark  = 0xFC
	sectorIDMarker = 0xFE
	dataMarker     = 0xFB
	recordEnd      = 0xF7
)

// Params supplies the context the parser validates incoming sector-ID
// records against.
type Params struct {
	Track         int
	Side          int
	DoubleDensity bool
}

// Result is the sector layout reconstructed from the stream.
type Result struct {
	SectorCount int
	SectorSize  int
}

type state int

const (
	stateGap4 state = iota
	stateIndexMark
	stateIDRecordMark
	stateDataRecordMark
)

// lengthCodeToSize maps the WD1797 sector-length code to a byte count
// (§4.7's IDRecordMark state).
func lengthCodeToSize(code byte) (int, error) {
	switch code {
	case 0:
		return 128, nil
	case 1:
		return 256, nil
	case 2:
		return 512, nil
	case 3:
		return 1024, nil
	default:
		return 0, errors.Errorf("writetrack: invalid sector length code %d", code)
	}
}

// Parse runs the automaton over data, the raw bytes deposited by the
// host's WriteTrack stream, and returns the reconstructed sector layout.
// Any inconsistency (wrong gap byte, track/head mismatch, invalid or
// varying sector size, duplicate or non-contiguous sector numbers) is a
// fatal error (§7 taxonomy 2): the caller must not format the disk.
func Parse(data []byte, p Params) (*Result, error) {
	st := stateGap4
	i := 0
	sectorSize := -1
	seen := make(map[int]bool)
	maxSector := 0

	for i < len(data) {
		b := data[i]

		switch st {
		case stateGap4:
			if p.DoubleDensity {
				if b != gapMFM {
					return nil, errors.Errorf("writetrack: expected MFM gap byte 0x%02X, got 0x%02X", gapMFM, b)
				}
			} else {
				if b != gapFM {
					return nil, errors.Errorf("writetrack: expected FM gap byte 0x%02X, got 0x%02X", gapFM, b)
				}
			}
			i++
			st = stateIndexMark

		case stateIndexMark:
			i++
			if b == softIndexMark {
				st = stateIDRecordMark
			}

		case stateIDRecordMark:
			if b != sectorIDMarker {
				i++
				continue
			}
			i++
			if i+4 > len(data) {
				return nil, errors.New("writetrack: truncated sector-ID record")
			}
			idTrack := int(data[i])
			idHead := int(data[i+1])
			idSector := int(data[i+2])
			lengthCode := data[i+3]
			i += 4

			if idTrack != p.Track {
				return nil, errors.Errorf("writetrack: sector-ID track %d does not match FDC track %d", idTrack, p.Track)
			}
			if idHead != p.Side {
				return nil, errors.Errorf("writetrack: sector-ID head %d does not match selected side %d", idHead, p.Side)
			}

			size, err := lengthCodeToSize(lengthCode)
			if err != nil {
				return nil, err
			}
			if sectorSize == -1 {
				sectorSize = size
			} else if size != sectorSize {
				return nil, errors.Errorf("writetrack: sector %d declares size %d, track already established size %d", idSector, size, sectorSize)
			}

			if idSector < 1 {
				return nil, errors.Errorf("writetrack: invalid sector number %d", idSector)
			}
			if seen[idSector] {
				return nil, errors.Errorf("writetrack: duplicate sector number %d", idSector)
			}
			seen[idSector] = true
			if idSector > maxSector {
				maxSector = idSector
			}
			st = stateDataRecordMark

		case stateDataRecordMark:
			if b != dataMarker {
				i++
				continue
			}
			i++
			dataStart := i
			for i < len(data) && data[i] != recordEnd {
				i++
			}
			if i >= len(data) {
				return nil, errors.New("writetrack: unterminated data record (missing 0xF7)")
			}
			consumed := i - dataStart
			if consumed != sectorSize {
				return nil, errors.Errorf("writetrack: data record length %d does not match sector size %d", consumed, sectorSize)
			}
			i++ // consume the record-end marker
			st = stateIDRecordMark
		}
	}

	if sectorSize <= 0 || maxSector == 0 {
		return nil, errors.New("writetrack: no sectors parsed")
	}
	for n := 1; n <= maxSector; n++ {
		if !seen[n] {
			return nil, errors.Errorf("writetrack: sectors are not a contiguous 1..%d prefix (missing sector %d)", maxSector, n)
		}
	}

	return &Result{SectorCount: maxSector, SectorSize: sectorSize}, nil
}
