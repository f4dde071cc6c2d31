package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfqa/internal/models"
)

var envKeys = []string{
	"MODEL_PROVIDER", "OPENAI_API_KEY", "OPENAI_API_ENDPOINT", "OPENAI_MODEL",
	"Z_AI_API_KEY", "Z_AI_BASE_URL", "Z_AI_VISION_MODEL", "PDF_RASTERIZER",
	"EXTRACT_WORKERS", "ALLOW_PARTIAL_EXTRACTION", "REQUEST_TIMEOUT",
	"HISTORY_DB", "LOG_LEVEL", "PDF_DIR",
}

// isolate runs the test from an empty directory with a clean environment so a
// developer's .env or shell exports cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("HISTORY_DB", filepath.Join(dir, "data", "h.db"))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, RasterizerFitz, cfg.Rasterizer)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 3*time.Minute, cfg.RequestTimeout)
	assert.False(t, cfg.AllowPartial)
	assert.DirExists(t, filepath.Join(dir, "data"))
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "pdfqa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: zai
zai_api_key: from-file
zai_model: glm-4.5v
rasterizer: ghostscript
workers: 2
request_timeout: 45s
history_db: ""
search_dir: ./docs
`), 0o644))

	t.Setenv("EXTRACT_WORKERS", "4")
	t.Setenv("ALLOW_PARTIAL_EXTRACTION", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderZAI, cfg.Provider)
	assert.Equal(t, "from-file", cfg.ZAIKey)
	assert.Equal(t, RasterizerGhostscript, cfg.Rasterizer)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.AllowPartial)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "", cfg.HistoryDB)
	assert.Equal(t, "./docs", cfg.SearchDir)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing openai key", env: map[string]string{}},
		{name: "missing zai key", env: map[string]string{"MODEL_PROVIDER": "zai"}},
		{name: "unknown provider", env: map[string]string{"MODEL_PROVIDER": "gemini", "OPENAI_API_KEY": "k"}},
		{name: "unknown rasterizer", env: map[string]string{"OPENAI_API_KEY": "k", "PDF_RASTERIZER": "poppler"}},
		{name: "zero workers", env: map[string]string{"OPENAI_API_KEY": "k", "EXTRACT_WORKERS": "0"}},
		{name: "bad workers", env: map[string]string{"OPENAI_API_KEY": "k", "EXTRACT_WORKERS": "many"}},
		{name: "bad timeout", env: map[string]string{"OPENAI_API_KEY": "k", "REQUEST_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv("HISTORY_DB", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load("")
			if err == nil {
				err = cfg.Validate()
			}
			require.Error(t, err)
			assert.True(t, models.IsKind(err, models.KindConfig), "got %v", err)
		})
	}
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	isolate(t)
	t.Setenv("HISTORY_DB", "")
	t.Setenv("OPENAI_API_KEY", "k")
	t.Setenv("EXTRACT_WORKERS", "0")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())

	cfg.Workers = 2
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindConfig))
}
