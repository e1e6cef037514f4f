package fdc

import (
	"io"

	"github.com/sirupsen/logrus"
)

// newDiscardLogger returns a logrus logger with output discarded, so a nil
// Logger passed to New behaves exactly like the spec's nullable logging
// collaborator: "diagnostic messages are silently discarded when disabled"
// (§6).
func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
