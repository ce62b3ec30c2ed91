package collector

import (
	"errors"
	"strings"
	"time"
)

// ErrMissingField rejects a log submission with an empty required field.
var ErrMissingField = errors.New("date, collector, company and description are required")

// LogEntry records one debt-collector interaction. Entries are immutable
// after creation: the AI violation suggestion displayed for the draft at
// submit time is frozen into the entry and never refreshed.
type LogEntry struct {
	ID          int64  `json:"id"` // creation timestamp, unix milliseconds
	Date        string `json:"date"`
	Collector   string `json:"collector"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion,omitempty"`
}

// Draft is the form state of an entry before submission.
type Draft struct {
	Date        string `json:"date"`
	Collector   string `json:"collector"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// NewEntry validates a draft and freezes the current suggestion into a
// LogEntry. now determines the entry id.
func NewEntry(d Draft, suggestion string, now time.Time) (LogEntry, error) {
	if strings.TrimSpace(d.Date) == "" ||
		strings.TrimSpace(d.Collector) == "" ||
		strings.TrimSpace(d.Company) == "" ||
		strings.TrimSpace(d.Description) == "" {
		return LogEntry{}, ErrMissingField
	}
	return LogEntry{
		ID:          now.UnixMilli(),
		Date:        d.Date,
		Collector:   d.Collector,
		Company:     d.Company,
		Description: d.Description,
		Suggestion:  suggestion,
	}, nil
}
