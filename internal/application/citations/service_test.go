package citations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/debtguard/internal/application"
	appanalysis "github.com/bryanwahyu/debtguard/internal/application/analysis"
	appsessions "github.com/bryanwahyu/debtguard/internal/application/sessions"
	"github.com/bryanwahyu/debtguard/internal/domain/ai"
	"github.com/bryanwahyu/debtguard/internal/domain/history"
	"github.com/bryanwahyu/debtguard/internal/domain/session"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

type fakeStore struct{ m map[string]*session.Session }

func (s *fakeStore) Put(sess *session.Session) { s.m[sess.ID] = sess }
func (s *fakeStore) Get(id string) (*session.Session, bool) {
	sess, ok := s.m[id]
	return sess, ok
}
func (s *fakeStore) Delete(id string) { delete(s.m, id) }

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

func newServices(client *countingClient) (*Service, *appanalysis.Service, string) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	sessions := &appsessions.Service{Store: &fakeStore{m: make(map[string]*session.Session)}, Clock: clock}
	runner := &application.Runner{AI: client, History: history.NopRepository{}, Clock: clock}
	svc := &Service{Sessions: sessions, Runner: runner}
	analysis := &appanalysis.Service{Sessions: sessions, Runner: runner, Clock: clock}
	return svc, analysis, sessions.Create().ID
}

func TestSegments(t *testing.T) {
	ctx := context.Background()

	t.Run("No analysis yet", func(t *testing.T) {
		svc, _, sid := newServices(&countingClient{})
		_, err := svc.Segments(sid, "credit")
		assert.ErrorIs(t, err, session.ErrMissingInput)
	})

	t.Run("Splits the stored analysis", func(t *testing.T) {
		client := &countingClient{reply: "This is a note [UCC § 3-104] payable to bearer."}
		svc, analysis, sid := newServices(client)

		_, err := analysis.Analyze(ctx, sid, "credit", "dispute details")
		require.NoError(t, err)

		segs, err := svc.Segments(sid, "credit")
		require.NoError(t, err)
		require.Len(t, segs, 3)
		assert.Nil(t, segs[0].Citation)
		require.NotNil(t, segs[1].Citation)
		assert.Equal(t, "3-104", segs[1].Citation.ID())
		assert.Equal(t, "https://www.law.cornell.edu/ucc/3/3-104", segs[1].Link)
	})

	t.Run("Unknown kind rejected", func(t *testing.T) {
		svc, _, sid := newServices(&countingClient{})
		_, err := svc.Segments(sid, "mortgage")
		assert.Error(t, err)
	})
}

func TestToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("Fetch, hide, fetch again", func(t *testing.T) {
		client := &countingClient{reply: "a negotiable instrument is a signed writing"}
		svc, _, sid := newServices(client)

		// first toggle fetches
		res, err := svc.Toggle(ctx, sid, "3-104")
		require.NoError(t, err)
		assert.False(t, res.Removed)
		assert.Equal(t, "a negotiable instrument is a signed writing", res.Explanation)
		assert.Equal(t, "https://www.law.cornell.edu/ucc/3/3-104", res.Link)
		assert.Equal(t, 1, client.calls)
		assert.Equal(t, ai.TierFast, client.lastReq.Tier)

		// second toggle hides without calling out
		res, err = svc.Toggle(ctx, sid, "3-104")
		require.NoError(t, err)
		assert.True(t, res.Removed)
		assert.Equal(t, 1, client.calls)

		// third toggle fetches fresh
		res, err = svc.Toggle(ctx, sid, "3-104")
		require.NoError(t, err)
		assert.False(t, res.Removed)
		assert.Equal(t, 2, client.calls)
	})

	t.Run("Independent citations do not interfere", func(t *testing.T) {
		client := &countingClient{reply: "text"}
		svc, _, sid := newServices(client)

		_, err := svc.Toggle(ctx, sid, "3-104")
		require.NoError(t, err)
		_, err = svc.Toggle(ctx, sid, "9-609")
		require.NoError(t, err)
		assert.Equal(t, 2, client.calls)

		// hiding one leaves the other open
		res, err := svc.Toggle(ctx, sid, "3-104")
		require.NoError(t, err)
		assert.True(t, res.Removed)

		res, err = svc.Toggle(ctx, sid, "9-609")
		require.NoError(t, err)
		assert.True(t, res.Removed)
	})

	t.Run("Invalid citation id rejected", func(t *testing.T) {
		client := &countingClient{}
		svc, _, sid := newServices(client)

		_, err := svc.Toggle(ctx, sid, "not-a-citation")
		assert.ErrorIs(t, err, session.ErrMissingInput)
		assert.Zero(t, client.calls)
	})

	t.Run("Failed fetch leaves nothing open", func(t *testing.T) {
		client := &countingClient{err: ai.ErrQuotaExceeded}
		svc, _, sid := newServices(client)

		_, err := svc.Toggle(ctx, sid, "3-104")
		assert.ErrorIs(t, err, ai.ErrQuotaExceeded)

		// toggle after failure fetches again instead of removing
		client.err = nil
		client.reply = "recovered"
		res, err := svc.Toggle(ctx, sid, "3-104")
		require.NoError(t, err)
		assert.False(t, res.Removed)
		assert.Equal(t, "recovered", res.Explanation)
	})
}
