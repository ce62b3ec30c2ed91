package history

import "time"

// RecordID identifier type
type RecordID string

// Statuses of a recorded AI action.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Record is one completed AI action kept for auditing when a history
// database is configured. Session state itself is never persisted.
type Record struct {
	ID           RecordID  `json:"id"`
	SessionID    string    `json:"session_id"`
	Action       string    `json:"action"` // slot name, e.g. "instrument.analyze"
	Provider     string    `json:"provider"`
	Status       string    `json:"status"`
	DocumentName string    `json:"document_name,omitempty"`
	Result       string    `json:"result,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
