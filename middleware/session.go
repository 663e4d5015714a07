// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Go'da middleware bir fonksiyondur: func(next http.Handler) http.Handler
// Middleware kendi işini yapar, sonra next'i çağırır. Hata varsa next çağrılmaz.
//
// Zincir: Logger → Session → WriteLimiter → Handler
package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/akinalp/personel/handlers"
	"github.com/akinalp/personel/models"
)

// SessionCookieName, oturum cookie'sinin adı.
const SessionCookieName = "personel_session"

const sessionIssuer = "personel"

// SessionManager, imzalı (HS256) oturum cookie'lerini üretir ve doğrular.
//
// Cookie yoksa veya geçersizse yeni bir UUID oturumu açılır; istek hiçbir
// zaman reddedilmez. Ömrünün yarısını geçmiş geçerli token yenilenir
// (kayan süre), böylece aktif oturumun ekran durumu kaybolmaz.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewSessionManager, constructor. secure=true ise cookie sadece HTTPS'te gönderilir.
func NewSessionManager(secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Middleware, her isteğe bir oturum ID'si bağlar.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.fromCookie(r)

		switch {
		case err != nil:
			if !errors.Is(err, http.ErrNoCookie) {
				log.Printf("[session] discarding invalid session cookie: %v", err)
			}
			claims, err = m.issue(w, uuid.NewString())
			if err != nil {
				log.Printf("[session] failed to issue session: %v", err)
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}

		case m.needsRenewal(claims):
			if _, err := m.issue(w, claims.SessionID); err != nil {
				log.Printf("[session] failed to renew session %s: %v", claims.SessionID, err)
			}
		}

		next.ServeHTTP(w, r.WithContext(handlers.WithSessionID(r.Context(), claims.SessionID)))
	})
}

// SessionID, middleware'ın bağladığı oturumu döner (ws.SessionResolver).
func (m *SessionManager) SessionID(r *http.Request) (string, bool) {
	return handlers.SessionIDFromRequest(r)
}

// Sign, verilen oturum için imzalı token üretir.
func (m *SessionManager) Sign(sessionID string) (string, error) {
	now := m.now()
	claims := &models.SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    sessionIssuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate, token'ı doğrular ve claims'i döner.
func (m *SessionManager) Validate(tokenString string) (*models.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid session claims")
	}
	return claims, nil
}

func (m *SessionManager) fromCookie(r *http.Request) (*models.SessionClaims, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil, err
	}
	return m.Validate(cookie.Value)
}

func (m *SessionManager) needsRenewal(claims *models.SessionClaims) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Sub(m.now()) < m.ttl/2
}

func (m *SessionManager) issue(w http.ResponseWriter, sessionID string) (*models.SessionClaims, error) {
	signed, err := m.Sign(sessionID)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return &models.SessionClaims{SessionID: sessionID}, nil
}
