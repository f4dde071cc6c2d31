// Package shell implements the interactive question loop.
package shell

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"pdfqa/internal/models"
	"pdfqa/internal/services"
)

// Loader produces a fresh session from an explicit path, or by asking the
// user when path is empty.
type Loader interface {
	Load(ctx context.Context, path string) (*models.Session, error)
}

type Assistant interface {
	Ask(ctx context.Context, s *models.Session, question string) (string, error)
	Summarize(ctx context.Context, s *models.Session) (string, error)
}

// Shell owns the current session. It is not safe for concurrent use.
type Shell struct {
	in        *services.LineReader
	ui        *UI
	loader    Loader
	assistant Assistant
	session   *models.Session
	log       zerolog.Logger
}

// New builds a shell reading from in, which it shares with the locator.
func New(in *services.LineReader, ui *UI, loader Loader, assistant Assistant, log zerolog.Logger) *Shell {
	return &Shell{
		in:        in,
		ui:        ui,
		loader:    loader,
		assistant: assistant,
		log:       log.With().Str("component", "shell").Logger(),
	}
}

// Session returns the current session, nil before the first successful load.
func (s *Shell) Session() *models.Session {
	return s.session
}

// Start performs the initial load and then runs the loop. A failed initial
// load is returned without entering the loop.
func (s *Shell) Start(ctx context.Context, path string) error {
	s.ui.Println("=== PDF Q&A System ===")
	s.ui.Println("This system will extract content from your PDF and allow you to ask questions about it.")
	s.ui.Rule()

	session, err := s.loader.Load(ctx, path)
	if err != nil {
		s.ui.Notice(DescribeLoadError(err))
		return err
	}
	s.session = session

	s.showSummary(ctx, "PDF SUMMARY:")
	s.help()
	return s.Run(ctx)
}

func (s *Shell) help() {
	s.ui.Banner("ASK QUESTIONS ABOUT YOUR PDF:")
	s.ui.Println("Commands:")
	s.ui.Println("- Type your question to get an answer")
	s.ui.Println("- 'summary' - Show PDF summary again")
	s.ui.Println("- 'content' - Show raw extracted content")
	s.ui.Println("- 'reload' - Load a different PDF")
	s.ui.Println("- 'quit' - Exit")
	s.ui.Rule()
}

// Run reads commands until quit, end of input or ctx cancellation. A
// cancelled ctx interrupts a pending read; no command is dispatched after it.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.ui.Printf("\nAsk about '%s': ", s.documentName())
		line, err := s.in.ReadLine(ctx)
		if err != nil {
			s.ui.Println()
			if errors.Is(err, io.EOF) {
				s.ui.Println("Goodbye!")
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.dispatch(ctx, line) {
			return nil
		}
	}
}

// dispatch handles one trimmed input line and reports whether to continue.
func (s *Shell) dispatch(ctx context.Context, line string) bool {
	switch strings.ToLower(line) {
	case "quit":
		s.ui.Println("Goodbye!")
		return false
	case "summary":
		s.showSummary(ctx, "PDF SUMMARY:")
	case "content":
		s.ui.Banner("RAW EXTRACTED CONTENT:")
		if s.session != nil {
			s.ui.Println(s.session.ExtractedText)
		} else {
			s.ui.Println()
		}
	case "reload":
		s.reload(ctx)
	case "":
		s.ui.Println("Please enter a question or command.")
	default:
		s.ask(ctx, line)
	}
	return true
}

func (s *Shell) reload(ctx context.Context) {
	session, err := s.loader.Load(ctx, "")
	if err != nil {
		s.log.Debug().Err(err).Msg("reload failed, keeping current session")
		s.ui.Notice(DescribeLoadError(err))
		return
	}
	s.session = session
	s.showSummary(ctx, "NEW PDF SUMMARY:")
}

func (s *Shell) ask(ctx context.Context, question string) {
	s.ui.Printf("\nAnalyzing question about '%s'...\n", s.documentName())
	stop := s.ui.Busy("Waiting for the model...")
	answer, err := s.assistant.Ask(ctx, s.session, question)
	stop()
	if err != nil {
		answer = DescribeAnswerError(err)
	}
	s.ui.Banner("ANSWER:")
	s.ui.Println(answer)
}

func (s *Shell) showSummary(ctx context.Context, title string) {
	stop := s.ui.Busy("Generating summary...")
	summary, err := s.assistant.Summarize(ctx, s.session)
	stop()
	if err != nil {
		summary = DescribeSummaryError(err)
	}
	s.ui.Banner(title)
	s.ui.Println(summary)
}

func (s *Shell) documentName() string {
	if s.session == nil {
		return ""
	}
	return s.session.DocumentName
}
