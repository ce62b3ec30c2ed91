package application

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/bryanwahyu/debtguard/internal/domain/ai"
	"github.com/bryanwahyu/debtguard/internal/domain/history"
	"github.com/bryanwahyu/debtguard/internal/domain/session"
)

// Runner drives one AI-backed action through its slot lifecycle: begin
// (busy guard), exactly one outbound call, then complete or fail with a
// generic per-action message. Completions carry the request generation,
// so a stale response never overwrites a newer request's state.
type Runner struct {
	AI      ai.Client
	History history.Repository
	Clock   Clock
}

// Run executes req against the named slot and returns the result text.
func (r *Runner) Run(ctx context.Context, sess *session.Session, slotName string, req ai.Request, docName string) (string, error) {
	gen, err := sess.Begin(slotName)
	if err != nil {
		return "", err
	}

	text, err := r.AI.Generate(ctx, req)
	if err != nil {
		sess.Fail(slotName, gen, GenericMessage(slotName))
		r.record(ctx, sess.ID, slotName, docName, history.StatusFailed, "")
		return "", err
	}

	sess.Complete(slotName, gen, text)
	r.record(ctx, sess.ID, slotName, docName, history.StatusSuccess, text)
	return text, nil
}

// RunExplanation is Run for a citation explanation slot: the completion
// additionally stores the text in the session's keyed explanation map.
func (r *Runner) RunExplanation(ctx context.Context, sess *session.Session, citationID string, req ai.Request) (string, error) {
	slotName := session.CitationSlot(citationID)
	gen, err := sess.Begin(slotName)
	if err != nil {
		return "", err
	}

	text, err := r.AI.Generate(ctx, req)
	if err != nil {
		sess.Fail(slotName, gen, GenericMessage(slotName))
		r.record(ctx, sess.ID, slotName, "", history.StatusFailed, "")
		return "", err
	}

	sess.CompleteExplanation(citationID, gen, text)
	r.record(ctx, sess.ID, slotName, "", history.StatusSuccess, text)
	return text, nil
}

func (r *Runner) record(ctx context.Context, sessionID, action, docName, status, result string) {
	rec := &history.Record{
		ID:           history.RecordID(uuid.New().String()),
		SessionID:    sessionID,
		Action:       action,
		Provider:     r.AI.SourceName(),
		Status:       status,
		DocumentName: docName,
		Result:       result,
		CreatedAt:    r.Clock.Now(),
	}
	if err := r.History.Save(ctx, rec); err != nil {
		log.Printf("history save error action=%s session=%s: %v", action, sessionID, err)
	}
}

// GenericMessage is the single user-facing error per action family. All
// upstream failure causes collapse into it; no retry, no detail.
func GenericMessage(slotName string) string {
	switch slotName {
	case session.SlotCreditLetter, session.SlotVehicleLetter, session.SlotCollectorLetter:
		return "Letter generation failed. Please try again."
	case session.SlotCollectorSuggest:
		return "Could not get a suggestion. Please try again."
	}
	switch {
	case len(slotName) > len("citation.") && slotName[:len("citation.")] == "citation.":
		return "Could not load the explanation. Please try again."
	}
	return "Analysis failed. Please try again."
}
