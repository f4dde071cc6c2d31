// Package pdf renders PDF pages to PNG images for the vision model.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"pdfqa/internal/models"
)

// Zoom is the fixed render scale relative to the PDF's native 72 DPI.
const Zoom = 2.0

// DPI is the render resolution implied by Zoom.
const DPI = Zoom * 72

// Rasterizer opens PDF files for page rendering.
type Rasterizer interface {
	Open(path string) (Document, error)
}

// Document is an opened PDF. Render may be called from multiple goroutines.
type Document interface {
	NumPages() int
	// Render returns the PNG image of page (1-based).
	Render(page int) (models.PageImage, error)
	Close() error
}

// New returns the rasterizer registered under name ("fitz" or "ghostscript").
func New(name string) (Rasterizer, error) {
	switch name {
	case "", "fitz":
		return NewFitzRasterizer(), nil
	case "ghostscript":
		return NewGhostscriptRasterizer(), nil
	default:
		return nil, fmt.Errorf("unknown rasterizer %q", name)
	}
}

func pngPage(page int, data []byte) (models.PageImage, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return models.PageImage{}, fmt.Errorf("decode page %d png: %w", page, err)
	}
	return models.PageImage{
		PageNumber: page,
		Data:       data,
		MimeType:   "image/png",
		Width:      cfg.Width,
		Height:     cfg.Height,
	}, nil
}
