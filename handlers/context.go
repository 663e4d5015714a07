// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi "ince" olmalı:
// 1. Request'i parse et (JSON veya form → struct)
// 2. Service katmanını çağır
// 3. Sonucu pkg.JSON / pkg.Error ile döndür
//
// Handler iş mantığı içermez ve store'a doğrudan erişmez.
package handlers

import (
	"context"
	"net/http"
)

// contextKey, context.Value çakışmalarını önlemek için özel tip.
type contextKey string

// SessionContextKey, SessionMiddleware'ın oturum ID'sini koyduğu key.
const SessionContextKey contextKey = "session_id"

// WithSessionID, ctx'e oturum ID'sini ekler.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionContextKey, sessionID)
}

// SessionIDFromRequest, SessionMiddleware'ın eklediği oturum ID'sini döner.
func SessionIDFromRequest(r *http.Request) (string, bool) {
	sid, ok := r.Context().Value(SessionContextKey).(string)
	return sid, ok && sid != ""
}
