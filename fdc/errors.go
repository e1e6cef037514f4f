package fdc

import "github.com/pkg/errors"

// NotImplementedError is returned for command families the spec recognizes
// only to the extent of selecting a status layout (§9 "Status layout
// dispatch"); execution is withheld rather than silently succeeding (§7
// taxonomy 3).
type NotImplementedError struct {
	Family Family
}

func (e *NotImplementedError) Error() string {
	return "fdc: " + e.Family.String() + " is not implemented"
}

func errNotImplemented(family Family) error {
	return &NotImplementedError{Family: family}
}

// errUnexpectedPort reports a write or read of a port the core does not
// claim (§4.1); this is a taxonomy-2 invariant violation, fatal to the
// enclosing emulator session.
func errUnexpectedPort(port byte) error {
	return errors.Errorf("fdc: unexpected port 0x%02X", port)
}
