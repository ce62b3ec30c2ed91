package analysis

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bryanwahyu/debtguard/internal/application"
	appsessions "github.com/bryanwahyu/debtguard/internal/application/sessions"
	"github.com/bryanwahyu/debtguard/internal/domain/ai"
	"github.com/bryanwahyu/debtguard/internal/domain/documents"
	domain "github.com/bryanwahyu/debtguard/internal/domain/session"
	"github.com/bryanwahyu/debtguard/internal/infra/ai/prompt"
)

// Service implements the document screens: upload, analysis and letter
// drafting for the instrument, credit-dispute and vehicle-financing flows.
type Service struct {
	Sessions *appsessions.Service
	Runner   *application.Runner
	Archive  documents.Archiver // optional, nil disables archiving
	Clock    application.Clock
}

// Upload validates and stores a document for one screen. A disallowed
// MIME type drops the prior document and result, and nothing is sent
// upstream. A valid upload replaces the previous document and clears the
// screen's analysis slot.
func (s *Service) Upload(ctx context.Context, sid, kindName, fileName, mimeType string, data []byte) (*documents.Document, error) {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return nil, err
	}
	kind, err := documents.ParseKind(kindName)
	if err != nil {
		return nil, err
	}

	doc, err := documents.New(fileName, mimeType, data, s.Clock.Now())
	if err != nil {
		sess.DropDocument(kind)
		return nil, err
	}

	if s.Archive != nil {
		key := fmt.Sprintf("%s/%s/%d-%s", sess.ID, kind, doc.UploadedAt.UnixMilli(), fileName)
		url, aerr := s.Archive.ArchiveDocument(ctx, key, data, mimeType)
		if aerr != nil {
			log.Printf("archive error session=%s kind=%s: %v", sess.ID, kind, aerr)
		} else {
			doc.ArchiveURL = url
		}
	}

	sess.SetDocument(kind, doc)
	return doc, nil
}

// Analyze runs the primary analysis of one screen. The instrument screen
// requires an uploaded document; credit and vehicle accept a document, a
// free-text description, or both.
func (s *Service) Analyze(ctx context.Context, sid, kindName, details string) (domain.SlotView, error) {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return domain.SlotView{}, err
	}
	kind, err := documents.ParseKind(kindName)
	if err != nil {
		return domain.SlotView{}, err
	}

	doc, hasDoc := sess.Document(kind)
	hasDetails := strings.TrimSpace(details) != ""

	var slotName, userPrompt string
	switch kind {
	case documents.KindInstrument:
		if !hasDoc {
			return domain.SlotView{}, fmt.Errorf("%w: upload a document first", domain.ErrMissingInput)
		}
		slotName = domain.SlotInstrumentAnalyze
		userPrompt = prompt.InstrumentAnalysis()
	case documents.KindCredit:
		if !hasDoc && !hasDetails {
			return domain.SlotView{}, fmt.Errorf("%w: upload a document or describe the dispute", domain.ErrMissingInput)
		}
		slotName = domain.SlotCreditAnalyze
		userPrompt = prompt.CreditAnalysis(details, hasDoc)
	case documents.KindVehicle:
		if !hasDoc && !hasDetails {
			return domain.SlotView{}, fmt.Errorf("%w: upload a contract or describe the situation", domain.ErrMissingInput)
		}
		slotName = domain.SlotVehicleAnalyze
		userPrompt = prompt.VehicleAnalysis(details, hasDoc)
	}

	req := ai.Request{
		System: prompt.SystemPrompt(),
		Prompt: userPrompt,
		Tier:   ai.TierDeep,
	}
	var docName string
	if hasDoc {
		req.Attachment = &ai.Attachment{MimeType: doc.MimeType, Data: doc.Data}
		docName = doc.Name
	}

	if _, err := s.Runner.Run(ctx, sess, slotName, req, docName); err != nil {
		return sess.Slot(slotName), err
	}
	return sess.Slot(slotName), nil
}

// Letter drafts the secondary letter of a screen. Credit and vehicle
// letters require a prior analysis result; the collector letter requires
// at least one logged entry.
func (s *Service) Letter(ctx context.Context, sid, kindName string) (domain.SlotView, error) {
	sess, err := s.Sessions.Get(sid)
	if err != nil {
		return domain.SlotView{}, err
	}

	var slotName, userPrompt string
	switch kindName {
	case "credit":
		analysis := sess.Slot(domain.SlotCreditAnalyze).Result
		if analysis == "" {
			return domain.SlotView{}, fmt.Errorf("%w: run the analysis first", domain.ErrMissingInput)
		}
		slotName = domain.SlotCreditLetter
		userPrompt = prompt.CreditLetter(analysis)
	case "vehicle":
		analysis := sess.Slot(domain.SlotVehicleAnalyze).Result
		if analysis == "" {
			return domain.SlotView{}, fmt.Errorf("%w: run the analysis first", domain.ErrMissingInput)
		}
		slotName = domain.SlotVehicleLetter
		userPrompt = prompt.VehicleLetter(analysis)
	case "collector":
		entries := sess.Entries()
		if len(entries) == 0 {
			return domain.SlotView{}, fmt.Errorf("%w: log at least one interaction first", domain.ErrMissingInput)
		}
		slotName = domain.SlotCollectorLetter
		userPrompt = prompt.CollectorLetter(entries)
	default:
		return domain.SlotView{}, fmt.Errorf("%w: unknown letter kind %s", domain.ErrMissingInput, kindName)
	}

	req := ai.Request{
		System: prompt.SystemPrompt(),
		Prompt: userPrompt,
		Tier:   ai.TierDeep,
	}
	if _, err := s.Runner.Run(ctx, sess, slotName, req, ""); err != nil {
		return sess.Slot(slotName), err
	}
	return sess.Slot(slotName), nil
}
