package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanwahyu/debtguard/internal/application"
	appsessions "github.com/bryanwahyu/debtguard/internal/application/sessions"
	"github.com/bryanwahyu/debtguard/internal/domain/ai"
	domain "github.com/bryanwahyu/debtguard/internal/domain/collector"
	"github.com/bryanwahyu/debtguard/internal/domain/session"
	"github.com/bryanwahyu/debtguard/internal/infra/ai/prompt"
)

// Service implements the debt-collector log screen: violation
// suggestions for the draft, entry accumulation and retrieval.
type Service struct {
	Sessions *appsessions.Service
	Runner   *application.Runner
	Clock    application.Clock
}

// Suggest asks for possible violations in the draft interaction. The
// description is the minimum required input.
func (s *Service) Suggest(ctx context.Context, sid string, d domain.Draft) (session.SlotView, error) {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return session.SlotView{}, err
	}
	if strings.TrimSpace(d.Description) == "" {
		return session.SlotView{}, fmt.Errorf("%w: describe the interaction first", session.ErrMissingInput)
	}

	req := ai.Request{
		System: prompt.SystemPrompt(),
		Prompt: prompt.ViolationSuggestion(d),
		Tier:   ai.TierFast,
	}
	if _, err := s.Runner.Run(ctx, sess, session.SlotCollectorSuggest, req, ""); err != nil {
		return sess.Slot(session.SlotCollectorSuggest), err
	}
	return sess.Slot(session.SlotCollectorSuggest), nil
}

// AddEntry validates the draft, freezes whatever suggestion is currently
// displayed into a new immutable entry, and clears the draft suggestion.
// Existing entries keep their frozen text.
func (s *Service) AddEntry(sid string, d domain.Draft) (domain.LogEntry, error) {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return domain.LogEntry{}, err
	}

	suggestion := sess.Slot(session.SlotCollectorSuggest).Result
	entry, err := domain.NewEntry(d, suggestion, s.Clock.Now())
	if err != nil {
		return domain.LogEntry{}, err
	}

	sess.AppendEntry(entry)
	sess.ClearSlot(session.SlotCollectorSuggest)
	return entry, nil
}

// Entries returns the session's log, most recent first.
func (s *Service) Entries(sid string) ([]domain.LogEntry, error) {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return nil, err
	}
	return sess.Entries(), nil
}
