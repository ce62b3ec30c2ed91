package session

import (
	"sync"
	"time"

	"github.com/bryanwahyu/debtguard/internal/domain/collector"
	"github.com/bryanwahyu/debtguard/internal/domain/documents"
	"github.com/bryanwahyu/debtguard/internal/domain/resources"
)

// Session is the per-caller in-memory state: uploaded documents, action
// slots, the collector log, the resource catalog and open citation
// explanations. Everything is transient and lost on restart.
//
// All methods are safe for concurrent use; a single mutex serializes
// state transitions while outbound requests run outside the lock.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	lastSeen     time.Time
	slots        map[string]*slot
	docs         map[documents.Kind]*documents.Document
	entries      []collector.LogEntry
	catalog      *resources.Catalog
	explanations map[string]string
}

func New(id string, now time.Time) *Session {
	return &Session{
		ID:           id,
		CreatedAt:    now,
		lastSeen:     now,
		slots:        make(map[string]*slot),
		docs:         make(map[documents.Kind]*documents.Document),
		catalog:      resources.NewCatalog(),
		explanations: make(map[string]string),
	}
}

// Touch records activity for idle expiry.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

//
// ==== ACTION SLOT LIFECYCLE ====
//

// Begin starts a request on the named slot: loading set, previous error
// and result cleared, generation advanced. Returns ErrBusy while a
// request for the same slot is still in flight.
func (s *Session) Begin(name string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.slots[name]
	if sl == nil {
		sl = &slot{}
		s.slots[name] = sl
	}
	if sl.loading {
		return 0, ErrBusy
	}
	sl.gen++
	sl.loading = true
	sl.err = ""
	sl.result = ""
	return sl.gen, nil
}

// Complete stores the result and clears loading. A completion whose
// generation no longer matches is stale and dropped, so a slow earlier
// response cannot clobber a newer request's state.
func (s *Session) Complete(name string, gen uint64, result string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.slots[name]
	if sl == nil || sl.gen != gen {
		return false
	}
	sl.loading = false
	sl.result = result
	sl.err = ""
	return true
}

// Fail stores the generic user-facing message and clears loading. Stale
// failures are dropped like stale completions.
func (s *Session) Fail(name string, gen uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.slots[name]
	if sl == nil || sl.gen != gen {
		return false
	}
	sl.loading = false
	sl.err = msg
	sl.result = ""
	return true
}

// Slot returns the visible state of a slot. Unknown slots read as idle.
func (s *Session) Slot(name string) SlotView {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl := s.slots[name]
	if sl == nil {
		return SlotView{}
	}
	return SlotView{Loading: sl.loading, Error: sl.err, Result: sl.result}
}

// ClearSlot resets a slot to idle and invalidates any in-flight request.
func (s *Session) ClearSlot(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearSlotLocked(name)
}

func (s *Session) clearSlotLocked(name string) {
	if sl := s.slots[name]; sl != nil {
		sl.gen++ // invalidates any in-flight completion
		sl.loading = false
		sl.err = ""
		sl.result = ""
	}
}

//
// ==== DOCUMENTS ====
//

// analyzeSlotFor maps a document kind to its primary analysis slot.
func analyzeSlotFor(kind documents.Kind) string {
	switch kind {
	case documents.KindInstrument:
		return SlotInstrumentAnalyze
	case documents.KindCredit:
		return SlotCreditAnalyze
	case documents.KindVehicle:
		return SlotVehicleAnalyze
	}
	return ""
}

// SetDocument replaces the document of a kind and clears that screen's
// previous analysis state.
func (s *Session) SetDocument(kind documents.Kind, d *documents.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[kind] = d
	s.clearSlotLocked(analyzeSlotFor(kind))
}

// DropDocument discards the document of a kind along with any prior
// analysis result, used when an upload is rejected.
func (s *Session) DropDocument(kind documents.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, kind)
	s.clearSlotLocked(analyzeSlotFor(kind))
}

func (s *Session) Document(kind documents.Kind) (*documents.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[kind]
	return d, ok
}

//
// ==== COLLECTOR LOG ====
//

// AppendEntry adds an immutable log entry.
func (s *Session) AppendEntry(e collector.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

// Entries returns a copy of the log, most recent first.
func (s *Session) Entries() []collector.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]collector.LogEntry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

//
// ==== RESOURCE CATALOG ====
//

func (s *Session) FilterResources(query string) []resources.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Filter(query)
}

func (s *Session) AddResource(r resources.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Add(r)
}

//
// ==== CITATION EXPLANATIONS ====
//

// RemoveExplanation hides an open explanation. Returns false when none
// is open for that citation, in which case the caller issues a request.
func (s *Session) RemoveExplanation(citationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.explanations[citationID]; !ok {
		return false
	}
	delete(s.explanations, citationID)
	s.clearSlotLocked(CitationSlot(citationID))
	return true
}

// CompleteExplanation applies a finished explanation request: slot
// completion plus the keyed explanation text. Stale results are dropped.
func (s *Session) CompleteExplanation(citationID string, gen uint64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := CitationSlot(citationID)
	sl := s.slots[name]
	if sl == nil || sl.gen != gen {
		return false
	}
	sl.loading = false
	sl.result = text
	sl.err = ""
	s.explanations[citationID] = text
	return true
}

// Explanations returns the currently open explanations keyed by citation id.
func (s *Session) Explanations() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.explanations))
	for k, v := range s.explanations {
		out[k] = v
	}
	return out
}

//
// ==== SNAPSHOT ====
//

// DocumentMeta is the JSON view of an uploaded document (no payload).
type DocumentMeta struct {
	Name       string    `json:"name"`
	MimeType   string    `json:"mime_type"`
	Size       int       `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
	ArchiveURL string    `json:"archive_url,omitempty"`
}

// State is a point-in-time view of the whole session.
type State struct {
	ID           string                  `json:"id"`
	CreatedAt    time.Time               `json:"created_at"`
	Documents    map[string]DocumentMeta `json:"documents"`
	Slots        map[string]SlotView     `json:"slots"`
	Entries      []collector.LogEntry    `json:"entries"`
	Explanations map[string]string       `json:"explanations"`
}

// Snapshot renders the session for the state endpoint.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Documents:    make(map[string]DocumentMeta, len(s.docs)),
		Slots:        make(map[string]SlotView, len(s.slots)),
		Entries:      make([]collector.LogEntry, len(s.entries)),
		Explanations: make(map[string]string, len(s.explanations)),
	}
	for kind, d := range s.docs {
		st.Documents[string(kind)] = DocumentMeta{
			Name:       d.Name,
			MimeType:   d.MimeType,
			Size:       len(d.Data),
			UploadedAt: d.UploadedAt,
			ArchiveURL: d.ArchiveURL,
		}
	}
	for name, sl := range s.slots {
		st.Slots[name] = SlotView{Loading: sl.loading, Error: sl.err, Result: sl.result}
	}
	for i, e := range s.entries {
		st.Entries[len(s.entries)-1-i] = e
	}
	for k, v := range s.explanations {
		st.Explanations[k] = v
	}
	return st
}
