package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// SessionResolver, WebSocket handler'ın isteğin oturumunu bulmak için kullandığı interface.
//
// middleware paketini doğrudan import etmek yerine küçük bir interface:
// main.go'da *middleware.SessionManager bunu implicit olarak karşılar.
type SessionResolver interface {
	SessionID(r *http.Request) (string, bool)
}

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
type Handler struct {
	hub      *Hub
	sessions SessionResolver
	upgrader websocket.Upgrader
}

// NewHandler, yeni bir WebSocket handler oluşturur.
// allowedOrigins boşsa tüm origin'lere izin verilir (development).
func NewHandler(hub *Hub, sessions SessionResolver, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &Handler{
		hub:      hub,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Oturum cookie'si tarayıcı tarafından upgrade isteğiyle birlikte gönderilir;
// SessionMiddleware bu route'ta da çalışır.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessions.SessionID(r)
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed for session %s: %v", sessionID, err)
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, sendBufferSize),
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	// ReadPump mevcut goroutine'de çalışır ve bağlantı kapanana kadar bloklar.
	go client.WritePump()
	client.ReadPump()
}
