package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoInput       = errors.New("no input dataset given. Use --input or set it in the config file")
	ErrNoJobs        = errors.New("nothing to do. Use --group-by or define jobs in the config file")
	ErrEmptyDataset  = errors.New("input dataset has a header but no rows")
	ErrUnknownJob    = errors.New("unknown job kind (expected summary, pivot, timeline or stats)")
	ErrUnknownPolicy = errors.New("unknown null-key policy (expected unknown or drop)")
)

// SchemaError reports a required column missing from the input header.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input is missing required column %q", e.Column)
}

// MalformedRowError reports a cell that could not be parsed as the type the
// run requires (cancellation flag, date or numeric column).
type MalformedRowError struct {
	Row    int // 1-based, header excluded
	Column string
	Value  string
	Want   string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: column %q: cannot parse %q as %s", e.Row, e.Column, e.Value, e.Want)
}
