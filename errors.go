package eventpipe

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when no extractor matches the input's
// MIME type and extension.
var ErrUnsupportedFormat = errors.New("eventpipe: unsupported file type")

// ErrPreflight is returned when an input exceeds a configured budget.
var ErrPreflight = errors.New("eventpipe: input exceeds limit")

// ErrNoCompleter is returned when a path requires the completion service but
// none was configured.
var ErrNoCompleter = errors.New("eventpipe: completion service not configured")

// PreflightError reports a budget violation before any extraction work. It
// carries the measured value and the configured limit so the caller can show
// both.
type PreflightError struct {
	What     string // "bytes", "pages", "sheets", "rows", "cells", "chars"
	Measured int64
	Limit    int64
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("eventpipe: %s %d exceeds limit %d", e.What, e.Measured, e.Limit)
}

func (e *PreflightError) Is(target error) bool { return target == ErrPreflight }

// UnsupportedFormatError names the MIME type and extension that could not be
// matched to any extractor.
type UnsupportedFormatError struct {
	MIMEType  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("eventpipe: unsupported file type (mime %q, extension %q)", e.MIMEType, e.Extension)
}

func (e *UnsupportedFormatError) Is(target error) bool { return target == ErrUnsupportedFormat }
