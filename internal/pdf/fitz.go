package pdf

import (
	"fmt"
	"sync"

	"github.com/gen2brain/go-fitz"

	"pdfqa/internal/models"
)

// FitzRasterizer renders pages with MuPDF through go-fitz.
type FitzRasterizer struct{}

func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{}
}

func (r *FitzRasterizer) Open(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	mu  sync.Mutex
	doc *fitz.Document
}

func (d *fitzDocument) NumPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.NumPage()
}

func (d *fitzDocument) Render(page int) (models.PageImage, error) {
	d.mu.Lock()
	data, err := d.doc.ImagePNG(page-1, DPI)
	d.mu.Unlock()
	if err != nil {
		return models.PageImage{}, fmt.Errorf("render page %d: %w", page, err)
	}
	return pngPage(page, data)
}

func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}
