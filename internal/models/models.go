package models

import (
	"fmt"
	"strings"
	"time"
)

// Session is the currently loaded document. It is replaced wholesale on every
// successful load and never mutated in place.
type Session struct {
	ID            string
	DocumentName  string
	DocumentPath  string
	ExtractedText string
	PageCount     int
	LoadedAt      time.Time
}

// Loaded reports whether the session holds extracted content.
func (s *Session) Loaded() bool {
	return s != nil && s.ExtractedText != ""
}

// PageImage is a single rendered PDF page.
type PageImage struct {
	PageNumber int
	Data       []byte
	MimeType   string
	Width      int
	Height     int
}

// PageResult is the outcome of one page's extraction call.
type PageResult struct {
	Number int
	Text   string
	Err    error
}

// Extraction holds per-page results in page order.
type Extraction struct {
	Pages []PageResult
}

// Failed returns the number of pages whose extraction call failed.
func (e *Extraction) Failed() int {
	n := 0
	for _, p := range e.Pages {
		if p.Err != nil {
			n++
		}
	}
	return n
}

// Succeeded returns the number of pages with extracted text.
func (e *Extraction) Succeeded() int {
	return len(e.Pages) - e.Failed()
}

// Render concatenates the pages with "--- Page i ---" headers, separated by a
// blank line. Failed pages carry their inline error message.
func (e *Extraction) Render() string {
	parts := make([]string, 0, len(e.Pages))
	for _, p := range e.Pages {
		body := p.Text
		if p.Err != nil {
			body = "Error extracting text from image: " + Detail(p.Err)
		}
		parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", p.Number, body))
	}
	return strings.Join(parts, "\n\n")
}

type ExchangeKind string

const (
	ExchangeQuestion ExchangeKind = "question"
	ExchangeSummary  ExchangeKind = "summary"
)

// Exchange is one recorded question or summary request.
type Exchange struct {
	ID           int64
	SessionID    string
	DocumentName string
	Kind         ExchangeKind
	Question     string
	Answer       string
	Failed       bool
	CreatedAt    time.Time
}

// FirstFailure returns the lowest-numbered failed page.
func (e *Extraction) FirstFailure() (PageResult, bool) {
	for _, p := range e.Pages {
		if p.Err != nil {
			return p, true
		}
	}
	return PageResult{}, false
}
