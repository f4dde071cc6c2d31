package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"pdfqa/internal/models"
)

// Locator resolves which PDF to load, asking the user to choose when the
// search directory holds more than one.
type Locator struct {
	dir string
	in  *LineReader
	out io.Writer
}

// NewLocator reads selections from in, which the shell shares.
func NewLocator(dir string, in *LineReader, out io.Writer) *Locator {
	if dir == "" {
		dir = "."
	}
	return &Locator{dir: dir, in: in, out: out}
}

// Locate returns explicit unchanged when set. Existence is checked by the
// extractor, not here. Cancelling ctx abandons the selection prompt.
func (l *Locator) Locate(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	files, err := l.list()
	if err != nil {
		return "", err
	}

	switch len(files) {
	case 0:
		return "", models.ErrNoPDFFound
	case 1:
		fmt.Fprintf(l.out, "Found PDF: %s\n", files[0])
		return files[0], nil
	}

	fmt.Fprintln(l.out, "Multiple PDF files found:")
	for i, f := range files {
		fmt.Fprintf(l.out, "%d. %s\n", i+1, filepath.Base(f))
	}
	for {
		fmt.Fprint(l.out, "Select PDF number: ")
		line, err := l.in.ReadLine(ctx)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(l.out)
				return "", models.NewError(models.KindUserCancelled, "selection interrupted", ctx.Err())
			}
			return "", models.ErrUserCancelled
		}
		n, err := parseSelection(line, len(files))
		switch {
		case errors.Is(err, errNotANumber):
			fmt.Fprintln(l.out, "Please enter a valid number.")
		case err != nil:
			fmt.Fprintln(l.out, "Invalid choice. Please try again.")
		default:
			return files[n-1], nil
		}
	}
}

var (
	errNotANumber = models.NewError(models.KindInvalidSelection, "not a number", nil)
	errOutOfRange = models.NewError(models.KindInvalidSelection, "choice out of range", nil)
)

// parseSelection validates a 1-based menu choice.
func parseSelection(line string, count int) (int, error) {
	n, err := strconv.Atoi(line)
	if err != nil {
		return 0, errNotANumber
	}
	if n < 1 || n > count {
		return 0, errOutOfRange
	}
	return n, nil
}

func (l *Locator) list() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, models.NewError(models.KindNotFound, fmt.Sprintf("read directory %s", l.dir), err)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(l.dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
