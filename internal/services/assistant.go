package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"pdfqa/internal/llm"
	"pdfqa/internal/models"
)

// Assistant answers questions about, and summarizes, the loaded document.
type Assistant struct {
	client  llm.Client
	history *History
	log     zerolog.Logger
}

func NewAssistant(client llm.Client, history *History, log zerolog.Logger) *Assistant {
	return &Assistant{
		client:  client,
		history: history,
		log:     log.With().Str("component", "assistant").Logger(),
	}
}

func questionPrompt(name, content, question string) string {
	return fmt.Sprintf(`
Based on the following PDF content from "%s", please answer the user's question accurately and comprehensively.

PDF CONTENT:
%s

USER QUESTION: %s

Please provide a detailed answer based solely on the information contained in the PDF. If the information is not available in the PDF, please state that clearly.
`, name, content, question)
}

func summaryPrompt(name, content string) string {
	return fmt.Sprintf(`
Please provide a comprehensive summary of the following PDF content from "%s":

%s

Include:
1. Main topics covered
2. Key information and data
3. Important dates, numbers, or facts
4. Document structure/sections
`, name, content)
}

// Ask answers question from the session's extracted content only.
func (a *Assistant) Ask(ctx context.Context, s *models.Session, question string) (string, error) {
	if !s.Loaded() {
		return "", models.ErrNoDocumentLoaded
	}
	answer, err := a.client.Generate(ctx, questionPrompt(s.DocumentName, s.ExtractedText, question))
	if err != nil {
		err = models.ModelCallError("generate answer", err)
	}
	a.record(ctx, s, models.ExchangeQuestion, question, answer, err)
	return answer, err
}

func (a *Assistant) Summarize(ctx context.Context, s *models.Session) (string, error) {
	if !s.Loaded() {
		return "", models.ErrNoDocumentLoaded
	}
	summary, err := a.client.Generate(ctx, summaryPrompt(s.DocumentName, s.ExtractedText))
	if err != nil {
		err = models.ModelCallError("generate summary", err)
	}
	a.record(ctx, s, models.ExchangeSummary, "", summary, err)
	return summary, err
}

// record stores the exchange. History failures are logged, never surfaced.
func (a *Assistant) record(ctx context.Context, s *models.Session, kind models.ExchangeKind, question, answer string, callErr error) {
	ex := &models.Exchange{
		SessionID:    s.ID,
		DocumentName: s.DocumentName,
		Kind:         kind,
		Question:     question,
		Answer:       answer,
		Failed:       callErr != nil,
	}
	if callErr != nil {
		ex.Answer = models.Detail(callErr)
		a.log.Debug().Err(callErr).Str("kind", string(kind)).Msg("model call failed")
	}
	if err := a.history.RecordExchange(context.WithoutCancel(ctx), ex); err != nil {
		a.log.Warn().Err(err).Msg("record exchange")
	}
}
