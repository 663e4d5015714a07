// Package main: Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Handler'lar "thin" dir, sadece HTTP parse + service call + response write.
package main

import (
	"database/sql"

	"github.com/akinalp/personel/config"
	"github.com/akinalp/personel/handlers"
	"github.com/akinalp/personel/middleware"
	"github.com/akinalp/personel/pkg/i18n"
	"github.com/akinalp/personel/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Employee   *handlers.EmployeeHandler
	Screen     *handlers.ScreenHandler
	Preference *handlers.PreferenceHandler
	I18n       *handlers.I18nHandler
	Stats      *handlers.StatsHandler
	WS         *ws.Handler
}

// initHandlers, handler'ları service dependency'leri ile oluşturur.
// sessions, WebSocket handler'ının upgrade isteğindeki oturumu bulması için.
func initHandlers(
	svcs *Services,
	db *sql.DB,
	hub *ws.Hub,
	catalog *i18n.Catalog,
	sessions *middleware.SessionManager,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Employee:   handlers.NewEmployeeHandler(svcs.Employee, svcs.Language, svcs.ViewMode),
		Screen:     handlers.NewScreenHandler(svcs.Screens, svcs.Language, svcs.ViewMode),
		Preference: handlers.NewPreferenceHandler(svcs.Language, svcs.ViewMode),
		I18n:       handlers.NewI18nHandler(catalog),
		Stats:      handlers.NewStatsHandler(db, hub, svcs.Employee, svcs.Language, svcs.ViewMode),
		WS:         ws.NewHandler(hub, sessions, cfg.Server.CORSOrigins),
	}
}
