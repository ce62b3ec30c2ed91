package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/debtguard/internal/application"
	appsessions "github.com/bryanwahyu/debtguard/internal/application/sessions"
	"github.com/bryanwahyu/debtguard/internal/domain/ai"
	"github.com/bryanwahyu/debtguard/internal/domain/documents"
	"github.com/bryanwahyu/debtguard/internal/domain/history"
	domain "github.com/bryanwahyu/debtguard/internal/domain/session"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

type fakeStore struct{ m map[string]*domain.Session }

func newFakeStore() *fakeStore { return &fakeStore{m: make(map[string]*domain.Session)} }

func (s *fakeStore) Put(sess *domain.Session) { s.m[sess.ID] = sess }
func (s *fakeStore) Get(id string) (*domain.Session, bool) {
	sess, ok := s.m[id]
	return sess, ok
}
func (s *fakeStore) Delete(id string) { delete(s.m, id) }

// countingClient records every outbound request.
type countingClient struct {
	calls   int
	lastReq ai.Request
	reply   string
	err     error
}

func (c *countingClient) Generate(ctx context.Context, req ai.Request) (string, error) {
	c.calls++
	c.lastReq = req
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *countingClient) SourceName() string { return "fake" }

type fakeArchiver struct {
	url string
	err error
}

func (a *fakeArchiver) ArchiveDocument(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return a.url, a.err
}

func newService(client *countingClient, archive documents.Archiver) (*Service, string) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	sessions := &appsessions.Service{Store: newFakeStore(), Clock: clock}
	runner := &application.Runner{AI: client, History: history.NopRepository{}, Clock: clock}
	svc := &Service{Sessions: sessions, Runner: runner, Archive: archive, Clock: clock}
	return svc, sessions.Create().ID
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid upload is stored", func(t *testing.T) {
		client := &countingClient{}
		svc, sid := newService(client, nil)

		doc, err := svc.Upload(ctx, sid, "credit", "report.pdf", "application/pdf", []byte("%PDF"))
		require.NoError(t, err)
		assert.Equal(t, "report.pdf", doc.Name)
		assert.Zero(t, client.calls, "upload alone never calls the provider")
	})

	t.Run("Disallowed type is rejected before anything leaves the process", func(t *testing.T) {
		client := &countingClient{}
		svc, sid := newService(client, nil)

		for _, mt := range []string{"image/gif", "text/plain", "application/zip", ""} {
			_, err := svc.Upload(ctx, sid, "instrument", "f.bin", mt, []byte{1})
			assert.ErrorIs(t, err, documents.ErrUnsupportedType, mt)
		}
		assert.Zero(t, client.calls)
	})

	t.Run("Rejected upload drops the previous document and result", func(t *testing.T) {
		client := &countingClient{reply: "analysis [UCC § 3-104]"}
		svc, sid := newService(client, nil)

		_, err := svc.Upload(ctx, sid, "instrument", "note.pdf", "application/pdf", []byte("%PDF"))
		require.NoError(t, err)
		view, err := svc.Analyze(ctx, sid, "instrument", "")
		require.NoError(t, err)
		require.NotEmpty(t, view.Result)

		_, err = svc.Upload(ctx, sid, "instrument", "bad.gif", "image/gif", []byte{1})
		require.ErrorIs(t, err, documents.ErrUnsupportedType)

		sess, err := svc.Sessions.Get(sid)
		require.NoError(t, err)
		_, ok := sess.Document(documents.KindInstrument)
		assert.False(t, ok, "prior document gone")
		assert.Empty(t, sess.Slot(domain.SlotInstrumentAnalyze).Result, "prior result gone")
	})

	t.Run("Unknown kind rejected", func(t *testing.T) {
		svc, sid := newService(&countingClient{}, nil)
		_, err := svc.Upload(ctx, sid, "mortgage", "f.pdf", "application/pdf", []byte{1})
		assert.ErrorIs(t, err, documents.ErrUnknownKind)
	})

	t.Run("Unknown session rejected", func(t *testing.T) {
		svc, _ := newService(&countingClient{}, nil)
		_, err := svc.Upload(ctx, "no-such-session", "credit", "f.pdf", "application/pdf", []byte{1})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Archive success records the object URL", func(t *testing.T) {
		svc, sid := newService(&countingClient{}, &fakeArchiver{url: "https://archive/obj"})
		doc, err := svc.Upload(ctx, sid, "vehicle", "contract.pdf", "application/pdf", []byte("%PDF"))
		require.NoError(t, err)
		assert.Equal(t, "https://archive/obj", doc.ArchiveURL)
	})

	t.Run("Archive failure does not fail the upload", func(t *testing.T) {
		svc, sid := newService(&countingClient{}, &fakeArchiver{err: errors.New("bucket down")})
		doc, err := svc.Upload(ctx, sid, "vehicle", "contract.pdf", "application/pdf", []byte("%PDF"))
		require.NoError(t, err)
		assert.Empty(t, doc.ArchiveURL)
	})
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("Instrument requires a document", func(t *testing.T) {
		client := &countingClient{}
		svc, sid := newService(client, nil)

		_, err := svc.Analyze(ctx, sid, "instrument", "ignored")
		assert.ErrorIs(t, err, domain.ErrMissingInput)
		assert.Zero(t, client.calls)
	})

	t.Run("Credit accepts free text without a document", func(t *testing.T) {
		client := &countingClient{reply: "credit analysis"}
		svc, sid := newService(client, nil)

		view, err := svc.Analyze(ctx, sid, "credit", "two late payments reported in error")
		require.NoError(t, err)
		assert.Equal(t, 1, client.calls)
		assert.False(t, view.Loading)
		assert.Equal(t, "credit analysis", view.Result)
		assert.Equal(t, ai.TierDeep, client.lastReq.Tier)
		assert.Nil(t, client.lastReq.Attachment)
		assert.Contains(t, client.lastReq.Prompt, "two late payments")
	})

	t.Run("Credit and vehicle require document or details", func(t *testing.T) {
		client := &countingClient{}
		svc, sid := newService(client, nil)

		for _, kind := range []string{"credit", "vehicle"} {
			_, err := svc.Analyze(ctx, sid, kind, "   ")
			assert.ErrorIs(t, err, domain.ErrMissingInput, kind)
		}
		assert.Zero(t, client.calls)
	})

	t.Run("Document is attached to the request", func(t *testing.T) {
		client := &countingClient{reply: "instrument analysis"}
		svc, sid := newService(client, nil)

		_, err := svc.Upload(ctx, sid, "instrument", "note.png", "image/png", []byte{0x89, 0x50})
		require.NoError(t, err)

		_, err = svc.Analyze(ctx, sid, "instrument", "")
		require.NoError(t, err)
		require.NotNil(t, client.lastReq.Attachment)
		assert.Equal(t, "image/png", client.lastReq.Attachment.MimeType)
		assert.Equal(t, []byte{0x89, 0x50}, client.lastReq.Attachment.Data)
	})

	t.Run("Provider failure leaves a generic message in the slot", func(t *testing.T) {
		client := &countingClient{err: ai.ErrUnavailable}
		svc, sid := newService(client, nil)

		view, err := svc.Analyze(ctx, sid, "credit", "details")
		assert.ErrorIs(t, err, ai.ErrUnavailable)
		assert.False(t, view.Loading)
		assert.Equal(t, "Analysis failed. Please try again.", view.Error)
		assert.Empty(t, view.Result)
	})

	t.Run("Failure then success clears the error", func(t *testing.T) {
		client := &countingClient{err: ai.ErrUnavailable}
		svc, sid := newService(client, nil)

		_, err := svc.Analyze(ctx, sid, "credit", "details")
		require.Error(t, err)

		client.err = nil
		client.reply = "second try"
		view, err := svc.Analyze(ctx, sid, "credit", "details")
		require.NoError(t, err)
		assert.Empty(t, view.Error)
		assert.Equal(t, "second try", view.Result)
	})
}

func TestLetter(t *testing.T) {
	ctx := context.Background()

	t.Run("Credit letter requires a prior analysis", func(t *testing.T) {
		client := &countingClient{}
		svc, sid := newService(client, nil)

		_, err := svc.Letter(ctx, sid, "credit")
		assert.ErrorIs(t, err, domain.ErrMissingInput)
		assert.Zero(t, client.calls)
	})

	t.Run("Letter builds on the analysis result", func(t *testing.T) {
		client := &countingClient{reply: "the analysis"}
		svc, sid := newService(client, nil)

		_, err := svc.Analyze(ctx, sid, "vehicle", "repossession threatened")
		require.NoError(t, err)

		client.reply = "Dear Sir or Madam,"
		view, err := svc.Letter(ctx, sid, "vehicle")
		require.NoError(t, err)
		assert.Equal(t, "Dear Sir or Madam,", view.Result)
		assert.Contains(t, client.lastReq.Prompt, "the analysis")
		assert.Equal(t, ai.TierDeep, client.lastReq.Tier)
	})

	t.Run("Collector letter requires logged entries", func(t *testing.T) {
		client := &countingClient{}
		svc, sid := newService(client, nil)

		_, err := svc.Letter(ctx, sid, "collector")
		assert.ErrorIs(t, err, domain.ErrMissingInput)
		assert.Zero(t, client.calls)
	})

	t.Run("Unknown letter kind rejected", func(t *testing.T) {
		svc, sid := newService(&countingClient{}, nil)
		_, err := svc.Letter(ctx, sid, "mortgage")
		assert.ErrorIs(t, err, domain.ErrMissingInput)
	})
}
