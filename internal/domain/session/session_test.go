package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/debtguard/internal/domain/collector"
	"github.com/bryanwahyu/debtguard/internal/domain/documents"
)

func newTestSession() *Session {
	return New("sess-1", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestSlotLifecycle(t *testing.T) {
	t.Run("Begin sets loading and clears previous state", func(t *testing.T) {
		s := newTestSession()
		gen, err := s.Begin(SlotCreditAnalyze)
		require.NoError(t, err)
		require.True(t, s.Complete(SlotCreditAnalyze, gen, "first result"))

		gen2, err := s.Begin(SlotCreditAnalyze)
		require.NoError(t, err)
		view := s.Slot(SlotCreditAnalyze)
		assert.True(t, view.Loading)
		assert.Empty(t, view.Result, "previous result cleared while loading")
		assert.Empty(t, view.Error)

		require.True(t, s.Fail(SlotCreditAnalyze, gen2, "something went wrong"))
		view = s.Slot(SlotCreditAnalyze)
		assert.False(t, view.Loading)
		assert.Equal(t, "something went wrong", view.Error)
		assert.Empty(t, view.Result)
	})

	t.Run("Second Begin while loading returns ErrBusy", func(t *testing.T) {
		s := newTestSession()
		_, err := s.Begin(SlotInstrumentAnalyze)
		require.NoError(t, err)

		_, err = s.Begin(SlotInstrumentAnalyze)
		assert.ErrorIs(t, err, ErrBusy)

		// an unrelated slot is not affected
		_, err = s.Begin(SlotCollectorSuggest)
		assert.NoError(t, err)
	})

	t.Run("Stale completion is dropped", func(t *testing.T) {
		s := newTestSession()
		gen, err := s.Begin(SlotVehicleAnalyze)
		require.NoError(t, err)

		// document replacement invalidates the in-flight request
		s.ClearSlot(SlotVehicleAnalyze)

		assert.False(t, s.Complete(SlotVehicleAnalyze, gen, "late result"))
		assert.False(t, s.Fail(SlotVehicleAnalyze, gen, "late error"))

		view := s.Slot(SlotVehicleAnalyze)
		assert.False(t, view.Loading)
		assert.Empty(t, view.Result)
		assert.Empty(t, view.Error)
	})

	t.Run("Unknown slot reads as idle", func(t *testing.T) {
		s := newTestSession()
		assert.Equal(t, SlotView{}, s.Slot("no.such.slot"))
	})
}

func TestDocuments(t *testing.T) {
	now := time.Now()

	t.Run("SetDocument clears the kind's analysis slot", func(t *testing.T) {
		s := newTestSession()
		gen, err := s.Begin(SlotCreditAnalyze)
		require.NoError(t, err)
		require.True(t, s.Complete(SlotCreditAnalyze, gen, "old analysis"))

		doc, err := documents.New("report.pdf", "application/pdf", []byte("%PDF"), now)
		require.NoError(t, err)
		s.SetDocument(documents.KindCredit, doc)

		assert.Empty(t, s.Slot(SlotCreditAnalyze).Result, "replacing the file resets the analysis")

		got, ok := s.Document(documents.KindCredit)
		require.True(t, ok)
		assert.Equal(t, "report.pdf", got.Name)
	})

	t.Run("DropDocument discards file and result", func(t *testing.T) {
		s := newTestSession()
		doc, err := documents.New("note.png", "image/png", []byte{1, 2, 3}, now)
		require.NoError(t, err)
		s.SetDocument(documents.KindInstrument, doc)

		s.DropDocument(documents.KindInstrument)
		_, ok := s.Document(documents.KindInstrument)
		assert.False(t, ok)
	})
}

func TestEntriesNewestFirst(t *testing.T) {
	s := newTestSession()
	s.AppendEntry(collector.LogEntry{ID: 1, Collector: "first"})
	s.AppendEntry(collector.LogEntry{ID: 2, Collector: "second"})
	s.AppendEntry(collector.LogEntry{ID: 3, Collector: "third"})

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, int64(3), entries[0].ID)
	assert.Equal(t, int64(1), entries[2].ID)

	// returned slice is a copy
	entries[0].Collector = "mutated"
	assert.Equal(t, "third", s.Entries()[0].Collector)
}

func TestExplanations(t *testing.T) {
	t.Run("Remove returns false when nothing is open", func(t *testing.T) {
		s := newTestSession()
		assert.False(t, s.RemoveExplanation("3-104"))
	})

	t.Run("Complete opens, Remove closes", func(t *testing.T) {
		s := newTestSession()
		gen, err := s.Begin(CitationSlot("3-104"))
		require.NoError(t, err)
		require.True(t, s.CompleteExplanation("3-104", gen, "a negotiable instrument is..."))

		open := s.Explanations()
		assert.Equal(t, "a negotiable instrument is...", open["3-104"])

		assert.True(t, s.RemoveExplanation("3-104"))
		assert.Empty(t, s.Explanations())
	})

	t.Run("Multiple explanations stay open independently", func(t *testing.T) {
		s := newTestSession()
		for _, id := range []string{"3-104", "3-205", "9-609"} {
			gen, err := s.Begin(CitationSlot(id))
			require.NoError(t, err)
			require.True(t, s.CompleteExplanation(id, gen, "text for "+id))
		}
		assert.Len(t, s.Explanations(), 3)

		assert.True(t, s.RemoveExplanation("3-205"))
		open := s.Explanations()
		assert.Len(t, open, 2)
		assert.Contains(t, open, "3-104")
		assert.Contains(t, open, "9-609")
	})

	t.Run("Stale explanation completion is dropped", func(t *testing.T) {
		s := newTestSession()
		gen, err := s.Begin(CitationSlot("3-104"))
		require.NoError(t, err)
		assert.False(t, s.RemoveExplanation("3-104")) // nothing open yet

		s.ClearSlot(CitationSlot("3-104"))
		assert.False(t, s.CompleteExplanation("3-104", gen, "late"))
		assert.Empty(t, s.Explanations())
	})
}

func TestSnapshot(t *testing.T) {
	s := newTestSession()
	doc, err := documents.New("contract.pdf", "application/pdf", []byte("%PDF-1.7"), time.Now())
	require.NoError(t, err)
	s.SetDocument(documents.KindVehicle, doc)

	gen, err := s.Begin(SlotVehicleAnalyze)
	require.NoError(t, err)
	require.True(t, s.Complete(SlotVehicleAnalyze, gen, "analysis text"))

	s.AppendEntry(collector.LogEntry{ID: 10, Collector: "Smith"})

	st := s.Snapshot()
	assert.Equal(t, "sess-1", st.ID)

	meta := st.Documents["vehicle"]
	assert.Equal(t, "contract.pdf", meta.Name)
	assert.Equal(t, len("%PDF-1.7"), meta.Size)

	assert.Equal(t, "analysis text", st.Slots[SlotVehicleAnalyze].Result)
	require.Len(t, st.Entries, 1)
	assert.Equal(t, int64(10), st.Entries[0].ID)
}
