package archive

import (
	"errors"
	"fmt"
)

// ErrorKind classifies archive operation failures.
type ErrorKind int

const (
	KindUnsupportedFormat ErrorKind = iota
	KindCreationFailed
	KindExtractionFailed
	KindListingFailed
)

// String returns a string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindCreationFailed:
		return "creation failed"
	case KindExtractionFailed:
		return "extraction failed"
	case KindListingFailed:
		return "listing failed"
	default:
		return "unknown"
	}
}

// Error is the archive operation error. Detail carries the captured
// standard-error text of a failing external tool when one was involved.
type Error struct {
	Kind   ErrorKind
	Path   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Path != "":
		return fmt.Sprintf("archive %s [%s]: %s", e.Kind, e.Path, e.Detail)
	case e.Path != "":
		return fmt.Sprintf("archive %s [%s]", e.Kind, e.Path)
	case e.Detail != "":
		return fmt.Sprintf("archive %s: %s", e.Kind, e.Detail)
	default:
		return fmt.Sprintf("archive %s", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the archive error kind from an error chain.
func KindOf(err error) (ErrorKind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

func unsupportedError(path string) *Error {
	return &Error{Kind: KindUnsupportedFormat, Path: path}
}

func creationError(path, detail string, err error) *Error {
	return &Error{Kind: KindCreationFailed, Path: path, Detail: detail, Err: err}
}

func extractionError(path, detail string, err error) *Error {
	return &Error{Kind: KindExtractionFailed, Path: path, Detail: detail, Err: err}
}

func listingError(path, detail string, err error) *Error {
	return &Error{Kind: KindListingFailed, Path: path, Detail: detail, Err: err}
}
