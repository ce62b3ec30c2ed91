package citations

import (
	"context"
	"fmt"

	"github.com/bryanwahyu/debtguard/internal/application"
	appsessions "github.com/bryanwahyu/debtguard/internal/application/sessions"
	"github.com/bryanwahyu/debtguard/internal/domain/ai"
	domain "github.com/bryanwahyu/debtguard/internal/domain/citations"
	"github.com/bryanwahyu/debtguard/internal/domain/documents"
	"github.com/bryanwahyu/debtguard/internal/domain/session"
	"github.com/bryanwahyu/debtguard/internal/infra/ai/prompt"
)

// Service implements citation post-processing of analysis output and the
// explain-this-citation secondary lookups.
type Service struct {
	Sessions *appsessions.Service
	Runner   *application.Runner
}

// Segments splits a screen's analysis result into alternating plain and
// citation segments for rendering.
func (s *Service) Segments(sid, kindName string) ([]domain.Segment, error) {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return nil, err
	}
	kind, err := documents.ParseKind(kindName)
	if err != nil {
		return nil, err
	}

	var slotName string
	switch kind {
	case documents.KindInstrument:
		slotName = session.SlotInstrumentAnalyze
	case documents.KindCredit:
		slotName = session.SlotCreditAnalyze
	case documents.KindVehicle:
		slotName = session.SlotVehicleAnalyze
	}

	result := sess.Slot(slotName).Result
	if result == "" {
		return nil, fmt.Errorf("%w: no analysis to segment", session.ErrMissingInput)
	}
	return domain.Extract(result), nil
}

// ToggleResult reports the outcome of a toggle: either the explanation
// was removed, or a fresh one was fetched.
type ToggleResult struct {
	CitationID  string `json:"citation_id"`
	Link        string `json:"link"`
	Removed     bool   `json:"removed,omitempty"`
	Explanation string `json:"explanation,omitempty"`
}

// Toggle hides an open explanation for the citation, or fetches one on
// the citation's own slot. Toggling twice with no intervening call
// restores the pre-expansion state.
func (s *Service) Toggle(ctx context.Context, sid, citationID string) (ToggleResult, error) {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return ToggleResult{}, err
	}
	c, ok := domain.Parse(citationID)
	if !ok {
		return ToggleResult{}, fmt.Errorf("%w: invalid citation id %q", session.ErrMissingInput, citationID)
	}

	if sess.RemoveExplanation(c.ID()) {
		return ToggleResult{CitationID: c.ID(), Link: c.Link(), Removed: true}, nil
	}

	req := ai.Request{
		System: prompt.SystemPrompt(),
		Prompt: prompt.CitationExplanation(c.Article, c.Section),
		Tier:   ai.TierFast,
	}
	text, err := s.Runner.RunExplanation(ctx, sess, c.ID(), req)
	if err != nil {
		return ToggleResult{CitationID: c.ID(), Link: c.Link()}, err
	}
	return ToggleResult{CitationID: c.ID(), Link: c.Link(), Explanation: text}, nil
}
