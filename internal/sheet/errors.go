package sheet

import (
	"errors"
	"fmt"
)

// ErrUnknownSource indicates a source key that is not configured.
var ErrUnknownSource = errors.New("unknown source")

// ErrUnsupportedFormat indicates an export format other than csv or xlsx.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrBadStatus indicates a non-2xx answer from the export endpoint.
var ErrBadStatus = errors.New("unexpected http status")

// ErrEmptySheet indicates an export without a header row.
var ErrEmptySheet = errors.New("sheet has no header row")

// LoadError wraps a failure while loading one source.
type LoadError struct {
	Source string
	Stage  string // "fetch", "parse"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s (%s): %v", e.Source, e.Stage, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
