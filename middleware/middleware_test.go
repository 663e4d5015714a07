package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akinalp/personel/handlers"
	"github.com/akinalp/personel/pkg/i18n"
	"github.com/akinalp/personel/pkg/ratelimit"
)

// echoSession, context'teki oturum ID'sini body'ye yazar.
var echoSession = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	sid, _ := handlers.SessionIDFromRequest(r)
	_, _ = w.Write([]byte(sid))
})

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func TestSession_IssuesNewSessionWhenMissing(t *testing.T) {
	m := NewSessionManager("secret", 30*time.Minute, false)

	rec := httptest.NewRecorder()
	m.Middleware(echoSession).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.Len(t, rec.Body.String(), 36, "uuid session id")

	claims, err := m.Validate(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, rec.Body.String(), claims.SessionID)
}

func TestSession_ReusesValidCookie(t *testing.T) {
	m := NewSessionManager("secret", 30*time.Minute, false)
	token, err := m.Sign("abc")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	m.Middleware(echoSession).ServeHTTP(rec, req)

	require.Equal(t, "abc", rec.Body.String())
	require.Nil(t, sessionCookie(t, rec), "fresh token is not reissued")
}

func TestSession_RenewsAfterHalfLife(t *testing.T) {
	m := NewSessionManager("secret", 30*time.Minute, false)
	start := time.Now()
	m.now = func() time.Time { return start }
	token, err := m.Sign("abc")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(20 * time.Minute) }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()
	m.Middleware(echoSession).ServeHTTP(rec, req)

	require.Equal(t, "abc", rec.Body.String())
	require.NotNil(t, sessionCookie(t, rec))
}

func TestSession_RejectsForeignAndExpiredTokens(t *testing.T) {
	m := NewSessionManager("secret", 30*time.Minute, false)
	other := NewSessionManager("other-secret", 30*time.Minute, false)

	forged, err := other.Sign("abc")
	require.NoError(t, err)
	_, err = m.Validate(forged)
	require.Error(t, err)

	start := time.Now()
	m.now = func() time.Time { return start }
	token, err := m.Sign("abc")
	require.NoError(t, err)
	m.now = func() time.Time { return start.Add(time.Hour) }
	_, err = m.Validate(token)
	require.Error(t, err)

	// Geçersiz cookie → yeni oturum
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: forged})
	rec := httptest.NewRecorder()
	m.Middleware(echoSession).ServeHTTP(rec, req)
	require.NotEqual(t, "abc", rec.Body.String())
	require.NotNil(t, sessionCookie(t, rec))
}

type staticLocalizer struct{ catalog *i18n.Catalog }

func (s staticLocalizer) Localizer() *i18n.Localizer { return s.catalog.NewLocalizer("en") }

func TestWriteLimiter(t *testing.T) {
	catalog, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	limiter := ratelimit.New(2, time.Minute)
	t.Cleanup(limiter.Stop)
	h := NewWriteLimiter(limiter, staticLocalizer{catalog}, false).Middleware(echoSession)

	do := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/employees", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do(http.MethodPost).Code)
	require.Equal(t, http.StatusOK, do(http.MethodDelete).Code)

	rec := do(http.MethodPut)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), "Too many requests")

	// Okumalar sayılmaz
	require.Equal(t, http.StatusOK, do(http.MethodGet).Code)
}

func TestWriteLimiter_SpoofedForwardedForIsIgnored(t *testing.T) {
	catalog, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	limiter := ratelimit.New(1, time.Minute)
	t.Cleanup(limiter.Stop)
	h := NewWriteLimiter(limiter, staticLocalizer{catalog}, false).Middleware(echoSession)

	post := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/employees", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, post("1.1.1.1"))
	// Farklı XFF ile limit aşılamaz, anahtar RemoteAddr
	require.Equal(t, http.StatusTooManyRequests, post("2.2.2.2"))
}

func TestWriteLimiter_TrustedProxyKeysOnForwardedFor(t *testing.T) {
	catalog, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	limiter := ratelimit.New(1, time.Minute)
	t.Cleanup(limiter.Stop)
	h := NewWriteLimiter(limiter, staticLocalizer{catalog}, true).Middleware(echoSession)

	post := func(forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/employees", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, post("1.1.1.1"))
	require.Equal(t, http.StatusOK, post("2.2.2.2"))
	require.Equal(t, http.StatusTooManyRequests, post("1.1.1.1"))
}

func TestLogger_RecordsStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
