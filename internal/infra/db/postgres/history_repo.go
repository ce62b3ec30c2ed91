package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/debtguard/internal/domain/history"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Save inserts or updates a history record
func (r *HistoryRepository) Save(ctx context.Context, h *domain.Record) error {
	const q = `
INSERT INTO ai_action_history
  (id, session_id, action, provider, status, document_name, result_text, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  status=EXCLUDED.status,
  result_text=EXCLUDED.result_text;
`
	sessionID := stringOrDash(h.SessionID)
	action := stringOrDash(h.Action)
	status := stringOrDash(h.Status)
	createdAt := h.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		h.ID, sessionID, action, h.Provider, status,
		h.DocumentName, h.Result, createdAt,
	)
	return err
}

// Paginate returns a page of records ordered by created_at desc
func (r *HistoryRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Record, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, session_id, action, provider, status, document_name, result_text, created_at
FROM ai_action_history
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var h domain.Record
		if err := rows.Scan(
			&h.ID, &h.SessionID, &h.Action, &h.Provider, &h.Status,
			&h.DocumentName, &h.Result, &h.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}
