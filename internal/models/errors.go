package models

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedFormat is returned when no detection rule matches a
// statement. The statement is skipped; it is not a crash condition for a
// batch run.
var ErrUnrecognizedFormat = errors.New("statement format not recognized")

// ErrNoExtractor is returned when an extractor is requested for
// FormatUnknown. Downstream code must fail explicitly rather than produce
// empty results.
var ErrNoExtractor = errors.New("no extractor available for unknown format")

// AnchorError reports that a required anchor phrase was not found in an
// otherwise-recognized statement. The anchor name is carried to aid
// format-drift diagnosis.
type AnchorError struct {
	Format StatementFormat
	Anchor string
}

func (e *AnchorError) Error() string {
	return fmt.Sprintf("%s statement: required anchor %q not found", e.Format, e.Anchor)
}
