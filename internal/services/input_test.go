package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReaderReadsTrimmedLines(t *testing.T) {
	lr := NewLineReader(strings.NewReader("  first \n\nlast"))
	ctx := context.Background()

	for _, want := range []string{"first", "", "last"} {
		got, err := lr.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := lr.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = lr.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF, "EOF is sticky")
}

func TestLineReaderReturnsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	lr := NewLineReader(pr)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() {
		_, err := lr.ReadLine(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLine still blocked after cancel")
	}

	// A line typed after the cancelled read is not lost.
	go io.WriteString(pw, "later\n")
	got, err := lr.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "later", got)
}
