package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cchalm/groq-multitool/internal/chat"
)

func TestCookielessRequestsDoNotCreateSessions(t *testing.T) {
	completer := &fakeCompleter{response: "Hey"}
	s := New(Config{Completer: completer, Model: "m"})
	h := s.Routes()

	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/export?format=text", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/clear", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	assert.Equal(t, 0, s.sessions.len())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/export?format=json", nil))
	assert.Equal(t, "[]", rec.Body.String())
}

func TestRejectedChatDoesNotCreateSession(t *testing.T) {
	s := New(Config{Completer: &fakeCompleter{}, Model: "m"})
	h := s.Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "   "}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 0, s.sessions.len())
}

func TestSuccessfulChatCreatesOneSession(t *testing.T) {
	s := New(Config{Completer: &fakeCompleter{response: "Hey"}, Model: "m"})
	h := s.Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "Hi"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "Again"}`))
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 1, s.sessions.len())
}

func newTestStore(idle time.Duration, max int) (*sessionStore, *time.Time) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	st := newSessionStore(func() *chat.Session { return chat.NewSession(&fakeCompleter{}, "m", nil, nil) }, idle, max)
	st.now = func() time.Time { return now }
	return st, &now
}

func TestSessionStore_EvictsIdleSessions(t *testing.T) {
	st, now := newTestStore(10*time.Minute, 10)

	a := st.pending()
	st.register(a)
	b := st.pending()
	st.register(b)

	*now = now.Add(6 * time.Minute)
	require.NotNil(t, st.lookup(a.session.ID))

	*now = now.Add(6 * time.Minute)
	assert.NotNil(t, st.lookup(a.session.ID))
	assert.Nil(t, st.lookup(b.session.ID))
	assert.Equal(t, 1, st.len())
}

func TestSessionStore_EvictsLeastRecentlyUsedWhenFull(t *testing.T) {
	st, now := newTestStore(time.Hour, 2)

	a := st.pending()
	st.register(a)
	*now = now.Add(time.Minute)
	b := st.pending()
	st.register(b)
	*now = now.Add(time.Minute)
	st.lookup(a.session.ID)

	*now = now.Add(time.Minute)
	c := st.pending()
	st.register(c)

	assert.Equal(t, 2, st.len())
	assert.NotNil(t, st.lookup(a.session.ID))
	assert.Nil(t, st.lookup(b.session.ID))
	assert.NotNil(t, st.lookup(c.session.ID))
}
