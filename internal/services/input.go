package services

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
)

// LineReader reads trimmed lines from an input stream without blocking the
// caller past cancellation. A single goroutine owns the underlying reader; a
// line read while nobody is waiting is kept for the next ReadLine call.
type LineReader struct {
	r     *bufio.Reader
	once  sync.Once
	lines chan string
	err   error
}

// NewLineReader wraps in. Share one LineReader between every consumer of the
// same stream.
func NewLineReader(in io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(in), lines: make(chan string)}
}

// ReadLine returns the next trimmed line, io.EOF once input is exhausted, or
// ctx.Err() if ctx is done first.
func (l *LineReader) ReadLine(ctx context.Context) (string, error) {
	l.once.Do(func() { go l.pump() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-l.lines:
		if !ok {
			return "", l.err
		}
		return line, nil
	}
}

func (l *LineReader) pump() {
	for {
		line, err := readLine(l.r)
		if err != nil {
			// Written before close, so readers observing the close see it.
			l.err = err
			close(l.lines)
			return
		}
		l.lines <- line
	}
}

// readLine returns the next trimmed line. A final line without a newline is
// returned normally; io.EOF is reported only when no input remains.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
