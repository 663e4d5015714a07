// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Kullanıcı çalışan ekler → HTTP POST → Service → KV store
// 2. Service, Hub'ın BroadcastToAll metodunu çağırır
// 3. Hub, event'i tüm bağlı client'lara iletir
// 4. Her client'ın WritePump'ı event'i WebSocket'e yazar
package ws

import "github.com/akinalp/personel/models"

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op: Event türü, "employee_create", "heartbeat" vb.
// Data: Event'e özgü payload.
// Seq: Her outbound event'e verilen artan sayı; istemci kayıp event tespiti için takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat      = "heartbeat"       // Client her 30sn'de gönderir
	OpLanguageUpdate = "language_update" // Dil seçici
	OpViewModeUpdate = "view_mode_update"
)

// Server → Client operasyonları
const (
	OpReady          = "ready"
	OpHeartbeatAck   = "heartbeat_ack"
	OpEmployeeCreate = "employee_create"
	OpEmployeeUpdate = "employee_update"
	OpEmployeeDelete = "employee_delete"
	OpLanguageChange = "language_change"
	OpViewModeChange = "view_mode_change"
)

// ReadyData, bağlantı kurulduğunda client'a gönderilen ilk event'in payload'ı.
type ReadyData struct {
	SessionID string          `json:"session_id"`
	Language  string          `json:"language"`
	ViewMode  models.ViewMode `json:"view_mode"`
}

// EmployeeDeleteData, employee_delete payload'ı, sadece ID taşır.
type EmployeeDeleteData struct {
	ID int64 `json:"id"`
}

// LanguageData, language_change ve language_update payload'ı.
type LanguageData struct {
	Language string `json:"language"`
}

// ViewModeData, view_mode_change ve view_mode_update payload'ı.
type ViewModeData struct {
	ViewMode models.ViewMode `json:"view_mode"`
	PageSize int             `json:"page_size,omitempty"`
}
