package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pdfqa/internal/models"
)

// Loader runs locate, extract and session construction for the initial load,
// for reload and for the one-shot commands.
type Loader struct {
	locator      *Locator
	extractor    *Extractor
	history      *History
	allowPartial bool
	out          io.Writer
	log          zerolog.Logger

	// Progress, when set, receives per-page extraction progress.
	Progress ProgressFunc
}

func NewLoader(locator *Locator, extractor *Extractor, history *History, allowPartial bool, out io.Writer, log zerolog.Logger) *Loader {
	return &Loader{
		locator:      locator,
		extractor:    extractor,
		history:      history,
		allowPartial: allowPartial,
		out:          out,
		log:          log.With().Str("component", "loader").Logger(),
	}
}

// Load returns a fresh session. On error no session is returned and the
// caller keeps whatever it had.
func (l *Loader) Load(ctx context.Context, explicit string) (*models.Session, error) {
	path, err := l.locator.Locate(ctx, explicit)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	fmt.Fprintf(l.out, "\nExtracting content from: %s\n", name)
	fmt.Fprintln(l.out, "This may take a few moments...")

	ext, err := l.extractor.Extract(ctx, path, l.Progress)
	if err != nil {
		return nil, err
	}
	if err := l.accept(ext); err != nil {
		return nil, err
	}

	s := &models.Session{
		ID:            uuid.NewString(),
		DocumentName:  name,
		DocumentPath:  path,
		ExtractedText: ext.Render(),
		PageCount:     len(ext.Pages),
		LoadedAt:      time.Now().UTC(),
	}
	if err := l.history.RecordSession(context.WithoutCancel(ctx), s); err != nil {
		l.log.Warn().Err(err).Msg("record session")
	}

	fmt.Fprintf(l.out, "\nSuccessfully extracted content from %s\n", name)
	fmt.Fprintf(l.out, "Content length: %d characters\n", len(s.ExtractedText))
	return s, nil
}

// accept decides whether an extraction is good enough to become the session.
func (l *Loader) accept(ext *models.Extraction) error {
	total := len(ext.Pages)
	if total == 0 {
		return models.ExtractionError("PDF has no pages", nil)
	}
	failed := ext.Failed()
	if failed == 0 || (l.allowPartial && failed < total) {
		return nil
	}
	first, _ := ext.FirstFailure()
	return models.ExtractionError("extract pages", &models.PageFailures{Failed: failed, Total: total, First: first})
}
