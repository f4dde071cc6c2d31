package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pdfqa/internal/models"
)

// History records loads and exchanges in SQLite. A nil *History is valid and
// records nothing.
type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

// RecordSession stores load metadata. The extracted content itself is not
// persisted, only its length.
func (h *History) RecordSession(ctx context.Context, s *models.Session) error {
	if h == nil {
		return nil
	}
	if _, err := h.db.ExecContext(ctx, `
		INSERT INTO sessions (id, document_name, document_path, page_count, content_length, loaded_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`, s.ID, s.DocumentName, s.DocumentPath, s.PageCount, len(s.ExtractedText), s.LoadedAt.UTC()); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (h *History) RecordExchange(ctx context.Context, ex *models.Exchange) error {
	if h == nil {
		return nil
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}
	res, err := h.db.ExecContext(ctx, `
		INSERT INTO exchanges (session_id, kind, question, answer, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?);
	`, ex.SessionID, ex.Kind, ex.Question, ex.Answer, ex.Failed, ex.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert exchange: %w", err)
	}
	ex.ID, _ = res.LastInsertId()
	return nil
}

// Recent returns the newest exchanges first.
func (h *History) Recent(ctx context.Context, limit int) ([]models.Exchange, error) {
	if h == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT e.id, e.session_id, s.document_name, e.kind, e.question, e.answer, e.failed, e.created_at
		FROM exchanges e
		JOIN sessions s ON s.id = e.session_id
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer rows.Close()

	var out []models.Exchange
	for rows.Next() {
		var ex models.Exchange
		if err := rows.Scan(
			&ex.ID,
			&ex.SessionID,
			&ex.DocumentName,
			&ex.Kind,
			&ex.Question,
			&ex.Answer,
			&ex.Failed,
			&ex.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan exchange: %w", err)
		}
		out = append(out, ex)
	}
	return out, rows.Err()
}
