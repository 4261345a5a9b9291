package qa

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names an error class reported to the user.
type Kind string

const (
	KindMalformedDocument Kind = "MalformedDocument"
	KindDuplicateID       Kind = "DuplicateId"
	KindEmptyField        Kind = "EmptyField"
	KindUnsupportedFormat Kind = "UnsupportedFormat"
)

var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrEmptyField        = errors.New("empty field")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// MalformedDocumentError reports structure that could not be parsed.
type MalformedDocumentError struct {
	Location Location
	Reason   string
	Err      error // underlying decode error, if any
}

func (e *MalformedDocumentError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Location, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDocumentError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedDocument, e.Err}
	}
	return []error{ErrMalformedDocument}
}

// DuplicateIDError reports two entries sharing an id.
type DuplicateIDError struct {
	ID     string
	First  Location
	Second Location
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s: id %q already defined at %s", e.Second, e.ID, e.First)
}

func (e *DuplicateIDError) Unwrap() error { return ErrDuplicateID }

// EmptyFieldError reports a blank question, answer or id.
type EmptyFieldError struct {
	ID       string
	Field    string
	Location Location
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("%s: entry %q has an empty %s", e.Location, e.ID, e.Field)
}

func (e *EmptyFieldError) Unwrap() error { return ErrEmptyField }

// UnsupportedFormatError reports an unknown render format selector.
type UnsupportedFormatError struct {
	Format    string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("format %q is not supported (want one of: %s)", e.Format, strings.Join(e.Supported, ", "))
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// KindOf returns the error class of err, or "" if it is not one of ours.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrMalformedDocument):
		return KindMalformedDocument
	case errors.Is(err, ErrDuplicateID):
		return KindDuplicateID
	case errors.Is(err, ErrEmptyField):
		return KindEmptyField
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat
	}
	return ""
}

// Malformed is shorthand for building a MalformedDocumentError.
func Malformed(source string, line int, format string, args ...any) *MalformedDocumentError {
	return &MalformedDocumentError{
		Location: Location{Source: source, Line: line},
		Reason:   fmt.Sprintf(format, args...),
	}
}
