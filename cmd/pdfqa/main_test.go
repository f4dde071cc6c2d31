package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/models"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MODEL_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("HISTORY_DB", filepath.Join(dir, "data", "pdfqa.db"))
	t.Setenv("PDF_RASTERIZER", "fitz")
	return dir
}

func TestHistoryEmpty(t *testing.T) {
	testEnv(t)
	out, _, err := execute(t, "history", "--no-color")
	require.NoError(t, err)
	assert.Equal(t, "No history yet.\n", out)
}

func TestHistoryDisabled(t *testing.T) {
	testEnv(t)
	t.Setenv("HISTORY_DB", "")
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history is disabled")
}

func TestSummaryMissingFile(t *testing.T) {
	testEnv(t)
	out, errOut, err := execute(t, "summary", "--no-color", "missing.pdf")
	require.Error(t, err)
	assert.True(t, isReported(err))
	assert.True(t, models.IsKind(err, models.KindFileNotFound))
	assert.Equal(t, "Failed to load PDF\n", out)
	assert.Contains(t, errOut, "Error loading PDF: PDF file not found!")
}

func TestInteractiveNoPDFs(t *testing.T) {
	testEnv(t)
	out, _, err := execute(t, "--no-color")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoPDFFound)
	assert.Contains(t, out, "No PDF files found in current directory!")
	assert.NotContains(t, out, "Ask about")
}

func TestInvalidConfig(t *testing.T) {
	testEnv(t)
	t.Setenv("OPENAI_API_KEY", "")
	_, _, err := execute(t, "ask", "a.pdf", "why?")
	require.Error(t, err)
	assert.False(t, isReported(err))
	assert.True(t, models.IsKind(err, models.KindConfig))

	testEnv(t)
	_, _, err = execute(t, "summary", "--workers", "0", "a.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers must be at least 1")
}

func TestReportedUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := error(reported{inner})
	assert.True(t, isReported(err))
	assert.ErrorIs(t, err, inner)
	assert.False(t, isReported(inner))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b c", truncate("a\n b\t c", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestExitCode(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 130, exitCode(ctx, reported{context.Canceled}))
	assert.Equal(t, 1, exitCode(context.Background(), reported{errors.New("load failed")}))
}

func TestWorkersFlagOverridesEnvBeforeValidation(t *testing.T) {
	testEnv(t)
	t.Setenv("EXTRACT_WORKERS", "0")
	out, _, err := execute(t, "history", "--workers", "2")
	require.NoError(t, err)
	assert.Equal(t, "No history yet.\n", out)
}
