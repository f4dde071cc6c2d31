package main

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"pdfqa/internal/config"
	"pdfqa/internal/db"
	"pdfqa/internal/llm"
	"pdfqa/internal/logging"
	"pdfqa/internal/pdf"
	"pdfqa/internal/services"
	"pdfqa/internal/shell"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg       config.Config
	log       zerolog.Logger
	ui        *shell.UI
	conn      *sql.DB
	history   *services.History
	loader    *services.Loader
	assistant *services.Assistant
	shell     *shell.Shell
}

func newApp(cfg config.Config, in io.Reader, out, errOut io.Writer) (*app, error) {
	log := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Verbose: verbose,
		NoColor: noColor,
		Output:  errOut,
	})

	client, err := newClient(cfg, log)
	if err != nil {
		return nil, err
	}
	rasterizer, err := pdf.New(cfg.Rasterizer)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, ui: shell.NewUI(out, errOut, noColor)}
	if cfg.HistoryDB != "" {
		conn, err := db.Open(cfg.HistoryDB)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		a.conn = conn
		a.history = services.NewHistory(conn)
	}

	// One reader for the locator and the shell so buffered input is not lost
	// between a selection prompt and the next command.
	input := services.NewLineReader(in)

	locator := services.NewLocator(cfg.SearchDir, input, out)
	extractor := services.NewExtractor(rasterizer, client, cfg.Workers, log)
	a.loader = services.NewLoader(locator, extractor, a.history, cfg.AllowPartial, out, log)
	a.loader.Progress = a.ui.Progress()
	a.assistant = services.NewAssistant(client, a.history, log)
	a.shell = shell.New(input, a.ui, a.loader, a.assistant, log)

	log.Debug().
		Str("provider", cfg.Provider).
		Str("rasterizer", cfg.Rasterizer).
		Int("workers", cfg.Workers).
		Bool("history", a.history != nil).
		Msg("pdfqa ready")
	return a, nil
}

func newClient(cfg config.Config, log zerolog.Logger) (llm.Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIEndpoint, cfg.OpenAIModel, cfg.RequestTimeout, log), nil
	case config.ProviderZAI:
		return llm.NewZAIClient(cfg.ZAIKey, cfg.ZAIBaseURL, cfg.ZAIModel, cfg.RequestTimeout, log), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

func (a *app) Close() {
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.log.Warn().Err(err).Msg("close history database")
		}
	}
}
