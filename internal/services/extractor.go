package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pdfqa/internal/llm"
	"pdfqa/internal/models"
	"pdfqa/internal/pdf"
)

// ExtractionPrompt is sent with every page image.
const ExtractionPrompt = "Extract all text content from this PDF page. Maintain formatting and structure where possible. Include all details, numbers, dates, and any other information."

// ProgressFunc is called with (0, total) before the first page and again after
// each page completes. Calls are serialized.
type ProgressFunc func(done, total int)

// Extractor turns a PDF into text by sending each rendered page to a vision
// model.
type Extractor struct {
	rasterizer pdf.Rasterizer
	client     llm.Client
	workers    int
	log        zerolog.Logger
}

func NewExtractor(rasterizer pdf.Rasterizer, client llm.Client, workers int, log zerolog.Logger) *Extractor {
	if workers < 1 {
		workers = 1
	}
	return &Extractor{
		rasterizer: rasterizer,
		client:     client,
		workers:    workers,
		log:        log.With().Str("component", "extractor").Logger(),
	}
}

// Extract renders and transcribes every page. A failed model call is recorded
// on its PageResult and does not stop the other pages; only failures to open
// or render the document are returned as errors.
func (e *Extractor) Extract(ctx context.Context, path string, progress ProgressFunc) (*models.Extraction, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.FileNotFoundError(path, err)
		}
		return nil, models.ExtractionError("stat pdf", err)
	}

	doc, err := e.rasterizer.Open(path)
	if err != nil {
		return nil, models.ExtractionError("open pdf", err)
	}
	defer doc.Close()

	total := doc.NumPages()
	ext := &models.Extraction{Pages: make([]models.PageResult, total)}
	e.log.Debug().Str("path", path).Int("pages", total).Int("workers", e.workers).Msg("extracting")

	var mu sync.Mutex
	done := 0
	advance := func(n int) {
		mu.Lock()
		defer mu.Unlock()
		done += n
		if progress != nil {
			progress(done, total)
		}
	}
	advance(0)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range total {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.page(gctx, doc, i+1)
			if err != nil {
				return err
			}
			// Each goroutine owns one index.
			ext.Pages[i] = res
			advance(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, models.ExtractionError("extract pdf", err)
	}

	if n := ext.Failed(); n > 0 {
		e.log.Warn().Str("path", path).Int("failed", n).Int("pages", total).Msg("some pages failed")
	}
	return ext, nil
}

func (e *Extractor) page(ctx context.Context, doc pdf.Document, number int) (models.PageResult, error) {
	img, err := doc.Render(number)
	if err != nil {
		return models.PageResult{}, err
	}

	text, err := e.client.GenerateWithImage(ctx, ExtractionPrompt, img)
	if err != nil {
		if ctx.Err() != nil {
			return models.PageResult{}, ctx.Err()
		}
		e.log.Debug().Err(err).Int("page", number).Msg("page extraction failed")
		return models.PageResult{
			Number: number,
			Err:    models.ExtractionError(fmt.Sprintf("extract page %d", number), err),
		}, nil
	}

	e.log.Debug().Int("page", number).Int("chars", len(text)).Msg("page extracted")
	return models.PageResult{Number: number, Text: text}, nil
}
