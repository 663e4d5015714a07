package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher, service katmanının WebSocket event'leri broadcast etmek için
// kullandığı interface. Service'ler Hub'ın concrete struct'ına değil buna bağlıdır;
// testlerde kayıt tutan bir fake verilir.
type EventPublisher interface {
	BroadcastToAll(event Event)
	BroadcastToSession(sessionID string, event Event)
	ConnectionCount() int
}

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır (Observer pattern).
//
// Hub.Run() goroutine'i register/unregister channel'larından `select` ile okur.
// Broadcast'ler doğrudan çağıranın goroutine'inde, RLock altında yapılır.
type Hub struct {
	// clients: sessionID → Client set (aynı oturumun birden fazla tab'ı olabilir).
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// seq: Her outbound event'e verilen artan sayaç.
	seq atomic.Int64

	// Callback'ler main package'da (init_callbacks.go) set edilir.
	// Hub'ın service'lere bağımlı olmaması için.
	onConnect        func(sessionID string)
	onLanguageUpdate func(sessionID, lang string)
	onViewModeUpdate func(sessionID, mode string)
}

// NewHub, yeni bir Hub oluşturur.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// OnConnect, her yeni bağlantıda çağrılır (ready event'i göndermek için).
func (h *Hub) OnConnect(fn func(sessionID string)) { h.onConnect = fn }

// OnLanguageUpdate, client dil değiştirmek istediğinde çağrılır.
func (h *Hub) OnLanguageUpdate(fn func(sessionID, lang string)) { h.onLanguageUpdate = fn }

// OnViewModeUpdate, client görünüm modunu değiştirmek istediğinde çağrılır.
func (h *Hub) OnViewModeUpdate(fn func(sessionID, mode string)) { h.onViewModeUpdate = fn }

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
// Shutdown çağrılınca döner.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

			// Callback ayrı goroutine'de, Hub mutex'i ile BroadcastToSession'ın RLock'u çakışmasın.
			if h.onConnect != nil {
				go h.onConnect(client.sessionID)
			}

		case client := <-h.unregister:
			h.removeClient(client)

		case <-h.done:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.sessionID]; !ok {
		h.clients[client.sessionID] = make(map[*Client]bool)
	}
	h.clients[client.sessionID][client] = true

	log.Printf("[ws] client connected: session=%s (connections for session: %d)",
		client.sessionID, len(h.clients[client.sessionID]))
}

// removeClient, bir client'ı Hub'dan çıkarır ve send channel'ını kapatır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.sessionID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	client.closeSend()

	if len(clients) == 0 {
		delete(h.clients, client.sessionID)
		log.Printf("[ws] session fully disconnected: %s", client.sessionID)
	} else {
		log.Printf("[ws] client disconnected: session=%s (remaining: %d)",
			client.sessionID, len(clients))
	}
}

// BroadcastToAll, tüm bağlı client'lara event gönderir.
func (h *Hub) BroadcastToAll(event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.deliver(client, data)
		}
	}
}

// BroadcastToSession, bir oturumun tüm bağlantılarına event gönderir.
func (h *Hub) BroadcastToSession(sessionID string, event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[sessionID] {
		h.deliver(client, data)
	}
}

// ConnectionCount, açık bağlantı sayısı (health endpoint'i için).
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

func (h *Hub) encode(event Event) ([]byte, bool) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal %s event: %v", event.Op, err)
		return nil, false
	}
	return data, true
}

// deliver, RLock altında çağrılır.
func (h *Hub) deliver(client *Client, data []byte) {
	if !client.enqueue(data) {
		// Buffer dolu, bu client yavaş, kapat
		go h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Shutdown, tüm client bağlantılarını kapatır ve Run döngüsünü durdurur.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}

	for _, clients := range h.clients {
		for client := range clients {
			client.closeSend()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	log.Println("[ws] hub shut down, all connections closed")
}
