package document

import (
	"errors"
	"fmt"
)

var ErrInvalidDocument = errors.New("invalid document")

// InvalidDocumentError keeps the caller's original input for display.
type InvalidDocumentError struct {
	Raw  string
	Kind Kind
}

func (e *InvalidDocumentError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("invalid document: %q", e.Raw)
	}
	return fmt.Sprintf("invalid %s: %q", e.Kind, e.Raw)
}

func (e *InvalidDocumentError) Is(target error) bool {
	return target == ErrInvalidDocument
}
