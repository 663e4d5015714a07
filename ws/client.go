package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: Bir mesajı yazmak için maksimum bekleme süresi.
	writeWait = 10 * time.Second

	// pongWait: 3 heartbeat kaçırma = 30s × 3 = 90s.
	// Bu sürede heartbeat gelmezse bağlantı kopmuş sayılır.
	pongWait = 90 * time.Second

	// maxMessageSize: Client'ın gönderebileceği maksimum mesaj boyutu (byte).
	maxMessageSize = 4096

	// sendBufferSize: Buffer dolarsa (client yavaş) client disconnect edilir.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısını temsil eder.
//
// Her bağlantı için iki goroutine çalışır:
// - ReadPump: Client'dan gelen mesajları okur
// - WritePump: Hub'dan gelen mesajları client'a yazar
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
	mu        sync.Mutex // conn.WriteMessage çağrılarını korur

	// sendMu, send'e yazma ile kapatmayı sıralar. Hub ve ReadPump
	// farklı goroutine'lerden yazar; kapalı channel'a yazılmamalı.
	sendMu sync.Mutex
	closed bool
}

// enqueue, mesajı bloklamadan buffer'a koyar. Buffer doluysa false döner.
// Client zaten kapatılmışsa mesaj sessizce atılır.
func (c *Client) enqueue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend, send channel'ını bir kez kapatır; WritePump bunu görüp çıkar.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump, bağlantı kapanana kadar gelen mesajları okur ve işler.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	// Her heartbeat geldiğinde deadline yenilenir.
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for session %s: %v", c.sessionID, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close for session %s: %v", c.sessionID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] invalid message from session %s: %v", c.sessionID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent, client'dan gelen event'leri türüne göre işler.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for session %s: %v", c.sessionID, err)
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	case OpLanguageUpdate:
		var data LanguageData
		if !decodeData(event, &data) || data.Language == "" {
			return
		}
		// Persist + broadcast callback'in sorumluluğunda (init_callbacks.go).
		if c.hub.onLanguageUpdate != nil {
			go c.hub.onLanguageUpdate(c.sessionID, data.Language)
		}

	case OpViewModeUpdate:
		var data ViewModeData
		if !decodeData(event, &data) || data.ViewMode == "" {
			return
		}
		if c.hub.onViewModeUpdate != nil {
			go c.hub.onViewModeUpdate(c.sessionID, string(data.ViewMode))
		}

	default:
		log.Printf("[ws] unknown op from session %s: %s", c.sessionID, event.Op)
	}
}

// decodeData, event.Data'yı (any) hedef struct'a çevirir.
// json.Marshal + json.Unmarshal: Data tipi any olduğu için doğrudan cast edilemez.
func decodeData(event Event, dst any) bool {
	raw, err := json.Marshal(event.Data)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("[ws] invalid %s payload: %v", event.Op, err)
		return false
	}
	return true
}

// sendEvent, bu client'a tek bir event gönderir.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for session %s: %v", c.sessionID, err)
		return
	}

	if !c.enqueue(data) {
		log.Printf("[ws] send buffer full for session %s, dropping connection", c.sessionID)
		go c.hub.drop(c)
	}
}

// WritePump, send channel'dan gelen mesajları WebSocket bağlantısına yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			// Channel kapatıldı, Hub client'ı çıkardı
			_ = c.writeMessage(websocket.CloseMessage, nil)
			return
		}

		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// writeMessage, gorilla/websocket conn'a aynı anda birden fazla yazmayı engeller.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
