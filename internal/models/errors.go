package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can branch without inspecting
// message text.
type ErrorKind string

const (
	KindFileNotFound     ErrorKind = "file_not_found"
	KindNotFound         ErrorKind = "not_found"
	KindUserCancelled    ErrorKind = "user_cancelled"
	KindExtraction       ErrorKind = "extraction"
	KindModelCall        ErrorKind = "model_call"
	KindNoDocumentLoaded ErrorKind = "no_document_loaded"
	KindInvalidSelection ErrorKind = "invalid_selection"
	KindConfig           ErrorKind = "config"
)

// Error is a classified failure with optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a classified error.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

var (
	// ErrNoDocumentLoaded is returned by the assistant when the session is empty.
	ErrNoDocumentLoaded = NewError(KindNoDocumentLoaded, "no document loaded", nil)
	// ErrNoPDFFound is returned by the locator when the search directory has no PDFs.
	ErrNoPDFFound = NewError(KindNotFound, "no PDF files found", nil)
	// ErrUserCancelled is returned when input ends during a selection prompt.
	ErrUserCancelled = NewError(KindUserCancelled, "selection cancelled", nil)
)

func FileNotFoundError(path string, err error) *Error {
	return NewError(KindFileNotFound, fmt.Sprintf("PDF file not found: %s", path), err)
}

func ExtractionError(message string, err error) *Error {
	return NewError(KindExtraction, message, err)
}

func ModelCallError(message string, err error) *Error {
	return NewError(KindModelCall, message, err)
}

func ConfigError(message string, err error) *Error {
	return NewError(KindConfig, message, err)
}

// KindOf returns the kind of the first classified error in the chain, or ""
// for unclassified errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// Detail returns the most specific human-readable description of err: the
// underlying cause for classified errors, otherwise err itself.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Message
	}
	return err.Error()
}

// PageFailures is the cause attached to a load rejected because pages failed.
type PageFailures struct {
	Failed int
	Total  int
	First  PageResult
}

func (p *PageFailures) Error() string {
	return fmt.Sprintf("%d of %d pages failed, page %d: %s", p.Failed, p.Total, p.First.Number, Detail(p.First.Err))
}
