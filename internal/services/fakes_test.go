package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"pdfqa/internal/models"
	"pdfqa/internal/pdf"
)

type fakeClient struct {
	mu           sync.Mutex
	prompts      []string
	visionPages  []int
	generate     func(prompt string) (string, error)
	generateWith func(image models.PageImage) (string, error)
}

func (f *fakeClient) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.generate != nil {
		return f.generate(prompt)
	}
	return "generated", nil
}

func (f *fakeClient) GenerateWithImage(_ context.Context, prompt string, image models.PageImage) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.visionPages = append(f.visionPages, image.PageNumber)
	f.mu.Unlock()
	if f.generateWith != nil {
		return f.generateWith(image)
	}
	return fmt.Sprintf("text of page %d", image.PageNumber), nil
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeRasterizer struct {
	mu        sync.Mutex
	pages     int
	openErr   error
	renderErr map[int]error
	opened    []string
	closed    int
}

func (r *fakeRasterizer) Open(path string) (pdf.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, path)
	if r.openErr != nil {
		return nil, r.openErr
	}
	return &fakeDocument{r: r}, nil
}

type fakeDocument struct {
	r *fakeRasterizer
}

func (d *fakeDocument) NumPages() int { return d.r.pages }

func (d *fakeDocument) Render(page int) (models.PageImage, error) {
	if err := d.r.renderErr[page]; err != nil {
		return models.PageImage{}, err
	}
	return models.PageImage{PageNumber: page, Data: []byte("png"), MimeType: "image/png"}, nil
}

func (d *fakeDocument) Close() error {
	d.r.mu.Lock()
	defer d.r.mu.Unlock()
	d.r.closed++
	return nil
}

var errQuota = errors.New("quota exceeded")

// touchPDF creates an empty file; the fake rasterizer never reads it.
func touchPDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}
