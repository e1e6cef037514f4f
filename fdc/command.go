package fdc

// Family identifies an FD1797 command family. The status synthesizer
// selects its bit layout by family (§4.4, §9 "Status layout dispatch").
type Family int

const (
	FamilyRestore Family = iota
	FamilySeek
	FamilyStep
	FamilyStepIn
	FamilyStepOut
	FamilyReadSectorSingle
	FamilyReadSectorMultiple
	FamilyWriteSectorSingle
	FamilyWriteSectorMultiple
	FamilyReadAddress
	FamilyForceInterrupt
	FamilyReadTrack
	FamilyWriteTrack
)

func (f Family) String() string {
	switch f {
	case FamilyRestore:
		return "RESTORE"
	case FamilySeek:
		return "SEEK"
	case FamilyStep:
		return "STEP"
	case FamilyStepIn:
		return "STEP-IN"
	case FamilyStepOut:
		return "STEP-OUT"
	case FamilyReadSectorSingle:
		return "READ-SECTOR"
	case FamilyReadSectorMultiple:
		return "READ-SECTOR-MULTIPLE"
	case FamilyWriteSectorSingle:
		return "WRITE-SECTOR"
	case FamilyWriteSectorMultiple:
		return "WRITE-SECTOR-MULTIPLE"
	case FamilyReadAddress:
		return "READ-ADDRESS"
	case FamilyForceInterrupt:
		return "FORCE-INTERRUPT"
	case FamilyReadTrack:
		return "READ-TRACK"
	case FamilyWriteTrack:
		return "WRITE-TRACK"
	default:
		return "UNKNOWN"
	}
}

func isTypeIFamily(f Family) bool {
	switch f {
	case FamilyRestore, FamilySeek, FamilyStep, FamilyStepIn, FamilyStepOut:
		return true
	default:
		return false
	}
}

func isWriteFamily(f Family) bool {
	switch f {
	case FamilyWriteSectorSingle, FamilyWriteSectorMultiple, FamilyWriteTrack:
		return true
	default:
		return false
	}
}

// decodedCommand is the result of decoding a byte written to the command
// port (§4.2).
type decodedCommand struct {
	family   Family
	update   bool // Type I bit 4: track register follows the head (STEP family only)
	headLoad bool // Type I bit 3
	verify   bool // Type I bit 2
	side     int  // Type II/III bit 1
	intCond  byte // ForceInterrupt low nibble, observed but not distinguished
}

func bitSet(b byte, n uint) bool {
	return (b>>n)&1 == 1
}

// decode implements §4.2's opcode table: the high nibble selects the
// command family (with the step family's direction/update bit folded into
// the nibble, as on the real FD1797), the low nibble carries parameters.
func decode(opcode byte) decodedCommand {
	hi := opcode >> 4
	side := int((opcode >> 1) & 1)

	switch hi {
	case 0x0:
		return decodedCommand{family: FamilyRestore, update: true, headLoad: bitSet(opcode, 3), verify: bitSet(opcode, 2)}
	case 0x1:
		return decodedCommand{family: FamilySeek, update: true, headLoad: bitSet(opcode, 3), verify: bitSet(opcode, 2)}
	case 0x2, 0x3:
		return decodedCommand{family: FamilyStep, update: bitSet(opcode, 4), headLoad: bitSet(opcode, 3), verify: bitSet(opcode, 2)}
	case 0x4, 0x5:
		return decodedCommand{family: FamilyStepIn, update: bitSet(opcode, 4), headLoad: bitSet(opcode, 3), verify: bitSet(opcode, 2)}
	case 0x6, 0x7:
		return decodedCommand{family: FamilyStepOut, update: bitSet(opcode, 4), headLoad: bitSet(opcode, 3), verify: bitSet(opcode, 2)}
	case 0x8:
		return decodedCommand{family: FamilyReadSectorSingle, side: side}
	case 0x9:
		return decodedCommand{family: FamilyReadSectorMultiple, side: side}
	case 0xA:
		return decodedCommand{family: FamilyWriteSectorSingle, side: side}
	case 0xB:
		return decodedCommand{family: FamilyWriteSectorMultiple, side: side}
	case 0xC:
		return decodedCommand{family: FamilyReadAddress, side: side}
	case 0xD:
		return decodedCommand{family: FamilyForceInterrupt, intCond: opcode & 0x0F}
	case 0xE:
		return decodedCommand{family: FamilyReadTrack, side: side}
	default: // 0xF
		return decodedCommand{family: FamilyWriteTrack, side: side}
	}
}
