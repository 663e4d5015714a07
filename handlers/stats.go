package handlers

import (
	"context"
	"net/http"

	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/services"
)

// Pinger, veritabanı bağlantısını yoklar. *sql.DB bunu karşılar.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// ConnectionCounter, açık WebSocket bağlantı sayısı. *ws.Hub bunu karşılar.
type ConnectionCounter interface {
	ConnectionCount() int
}

// HealthResponse, health endpoint'inin response formatı.
type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Connections int    `json:"connections"`
}

// StatsResponse, istatistik endpoint'inin response formatı.
type StatsResponse struct {
	TotalEmployees int    `json:"total_employees"`
	Language       string `json:"language"`
	ViewMode       string `json:"view_mode"`
}

// StatsHandler, health ve istatistik endpoint'leri. Oturum gerektirmez.
type StatsHandler struct {
	db        Pinger
	hub       ConnectionCounter
	employees services.EmployeeService
	language  services.LanguageService
	viewModes services.ViewModeService
}

// NewStatsHandler, constructor. main.go'da wire-up edilir.
func NewStatsHandler(
	db Pinger,
	hub ConnectionCounter,
	employees services.EmployeeService,
	language services.LanguageService,
	viewModes services.ViewModeService,
) *StatsHandler {
	return &StatsHandler{
		db:        db,
		hub:       hub,
		employees: employees,
		language:  language,
		viewModes: viewModes,
	}
}

// Health godoc
// GET /api/health
// Veritabanı cevap vermiyorsa 503.
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:      "ok",
		Database:    "ok",
		Connections: h.hub.ConnectionCount(),
	}

	if err := h.db.PingContext(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		pkg.JSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}

// GetStats godoc
// GET /api/stats
// Response: { "success": true, "data": { "total_employees": 42, ... } }
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	page, err := h.employees.List(r.Context(), services.ListQuery{Page: 1, ViewMode: h.viewModes.Current()})
	if err != nil {
		pkg.ErrorWithMessage(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	pkg.JSON(w, http.StatusOK, StatsResponse{
		TotalEmployees: page.Total,
		Language:       h.language.Current(),
		ViewMode:       string(h.viewModes.Current()),
	})
}
