package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mission-control/internal/config"
	"mission-control/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Options{CookieName: "mc_session", Secret: testSecret, TTL: time.Hour})
	require.NoError(t, err)
	return m
}

// roundTrip issues s and returns a request carrying the resulting cookie.
func roundTrip(t *testing.T, m *Manager, s Session) (*http.Request, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, m.Issue(rec, s))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	return req, cookies[0]
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(Options{})
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Server.CookieSecure = true

	opts := OptionsFromConfig(cfg, testSecret)
	assert.Equal(t, "mc_session", opts.CookieName)
	assert.True(t, opts.Secure)
	assert.Equal(t, 12*time.Hour, opts.TTL)
}

func TestManager_IssueAndLoad(t *testing.T) {
	m := newTestManager(t)
	issued := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	want := Session{
		Username:      "ada",
		Authenticated: true,
		Reset:         &services.ResetGrant{Username: "ada", RecordID: "rec1", IssuedAt: issued},
	}

	req, cookie := roundTrip(t, m, want)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)

	got := m.Load(req)
	assert.Equal(t, "ada", got.Username)
	assert.True(t, got.Authenticated)
	require.NotNil(t, got.Reset)
	assert.Equal(t, "rec1", got.Reset.RecordID)
	assert.True(t, issued.Equal(got.Reset.IssuedAt))
	assert.False(t, got.Anonymous())
}

func TestManager_LoadRejectsBadCookies(t *testing.T) {
	m := newTestManager(t)

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.True(t, m.Load(req).Anonymous())
	})

	t.Run("tampered token", func(t *testing.T) {
		_, cookie := roundTrip(t, m, Session{Username: "ada", Authenticated: true})
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value + "x"})
		assert.True(t, m.Load(req).Anonymous())
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewManager(Options{Secret: []byte("another-secret-value-entirely!!")})
		require.NoError(t, err)
		req, _ := roundTrip(t, other, Session{Username: "ada", Authenticated: true})
		assert.True(t, m.Load(req).Anonymous())
	})

	t.Run("expired", func(t *testing.T) {
		req, _ := roundTrip(t, m, Session{Username: "ada", Authenticated: true})
		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { m.now = time.Now }()
		assert.True(t, m.Load(req).Anonymous())
	})
}

func TestManager_Clear(t *testing.T) {
	m := newTestManager(t)
	rec := httptest.NewRecorder()

	m.Clear(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "mc_session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
