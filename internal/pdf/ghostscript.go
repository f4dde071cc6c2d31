package pdf

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	ledongthuc "github.com/ledongthuc/pdf"

	"pdfqa/internal/models"
)

// GhostscriptRasterizer shells out to the gs binary. Pages are rendered in
// one pass on Open and each PNG is removed from disk once it has been read.
type GhostscriptRasterizer struct {
	Binary string
}

func NewGhostscriptRasterizer() *GhostscriptRasterizer {
	return &GhostscriptRasterizer{Binary: "gs"}
}

// PageCount reads the page tree without rendering anything.
func PageCount(path string) (int, error) {
	f, r, err := ledongthuc.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf for page count: %w", err)
	}
	defer f.Close()
	return r.NumPage(), nil
}

func (g *GhostscriptRasterizer) Open(path string) (Document, error) {
	numPages, err := PageCount(path)
	if err != nil {
		return nil, err
	}

	tempDir, err := os.MkdirTemp("", "pdfqa-render-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	doc := &gsDocument{dir: tempDir, pages: numPages}
	if numPages == 0 {
		return doc, nil
	}

	// -dQUIET -dSAFER -dNOPAUSE -dBATCH: non-interactive, no file access outside the job
	// -sDEVICE=png16m: 24-bit color PNG
	cmd := exec.Command(g.Binary,
		"-dQUIET",
		"-dSAFER",
		"-dNOPAUSE",
		"-dBATCH",
		"-sDEVICE=png16m",
		fmt.Sprintf("-r%d", int(DPI)),
		"-sOutputFile="+filepath.Join(tempDir, "page-%03d.png"),
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.RemoveAll(tempDir)
		return nil, fmt.Errorf("ghostscript render failed: %w, stderr: %s", err, stderr.String())
	}
	return doc, nil
}

type gsDocument struct {
	dir   string
	pages int
}

func (d *gsDocument) NumPages() int { return d.pages }

func (d *gsDocument) Render(page int) (models.PageImage, error) {
	if page < 1 || page > d.pages {
		return models.PageImage{}, fmt.Errorf("page %d out of range 1..%d", page, d.pages)
	}
	pagePath := filepath.Join(d.dir, fmt.Sprintf("page-%03d.png", page))
	data, err := os.ReadFile(pagePath)
	if err != nil {
		return models.PageImage{}, fmt.Errorf("read rendered page %d: %w", page, err)
	}
	os.Remove(pagePath)
	return pngPage(page, data)
}

func (d *gsDocument) Close() error {
	return os.RemoveAll(d.dir)
}
