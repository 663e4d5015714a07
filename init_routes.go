// Package main: HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Oturum middleware'i mux'ın tamamına main.go'da sarılır; yazma limiti ise
// route bazında, sadece store'u değiştiren endpoint'lere uygulanır.
package main

import (
	"log"
	"net/http"

	"github.com/akinalp/personel/middleware"
	"github.com/akinalp/personel/static"
)

// initRoutes, endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Literal path'ler parametrik path'lerle çakışmasın.
// Go 1.22+ mux'ı en spesifik pattern'i seçer; yine de ekran aksiyonları
// literal segment'lerle ayrılmıştır.
func initRoutes(mux *http.ServeMux, h *Handlers, writes *middleware.WriteLimiter) {
	// limited, handler'ı yazma limitine sarar.
	// Sadece kalıcı store'a yazan route'lar için: ekran gezinmesi sayılmaz.
	limited := func(handler http.HandlerFunc) http.Handler {
		return writes.Middleware(handler)
	}

	// Health & stats: oturum gerektirmez
	mux.HandleFunc("GET /api/health", h.Stats.Health)
	mux.HandleFunc("GET /api/stats", h.Stats.GetStats)

	// Employees: REST
	mux.HandleFunc("GET /api/employees", h.Employee.List)
	mux.Handle("POST /api/employees", limited(h.Employee.Create))
	mux.HandleFunc("GET /api/employees/{id}", h.Employee.Get)
	mux.Handle("PUT /api/employees/{id}", limited(h.Employee.Update))
	mux.Handle("DELETE /api/employees/{id}", limited(h.Employee.Delete))

	// List screen
	mux.HandleFunc("GET /api/screens/list", h.Screen.ListView)
	mux.HandleFunc("POST /api/screens/list/search", h.Screen.Search)
	mux.HandleFunc("POST /api/screens/list/page", h.Screen.ChangePage)
	mux.HandleFunc("POST /api/screens/list/view-mode", h.Screen.ChangeViewMode)
	mux.HandleFunc("POST /api/screens/list/selection/{id}", h.Screen.ToggleSelection)
	mux.HandleFunc("POST /api/screens/list/delete-request/{id}", h.Screen.RequestDelete)
	mux.Handle("POST /api/screens/list/delete-confirm", limited(h.Screen.ConfirmDelete))
	mux.HandleFunc("POST /api/screens/list/delete-cancel", h.Screen.CancelDelete)

	// Form screen
	mux.HandleFunc("GET /api/screens/form", h.Screen.FormView)
	mux.HandleFunc("POST /api/screens/form/open", h.Screen.OpenForm)
	mux.HandleFunc("POST /api/screens/form/submit", h.Screen.SubmitForm)
	mux.HandleFunc("POST /api/screens/form/cancel", h.Screen.CancelForm)
	mux.Handle("POST /api/screens/form/confirm", limited(h.Screen.ConfirmForm))
	mux.HandleFunc("POST /api/screens/form/close", h.Screen.CloseForm)

	// Preferences
	mux.HandleFunc("GET /api/preferences/language", h.Preference.GetLanguage)
	mux.Handle("PUT /api/preferences/language", limited(h.Preference.SetLanguage))
	mux.HandleFunc("GET /api/preferences/view-mode", h.Preference.GetViewMode)
	mux.Handle("PUT /api/preferences/view-mode", limited(h.Preference.SetViewMode))

	// i18n: {lang} yoksa Accept-Language'a göre seçilir
	mux.HandleFunc("GET /api/i18n", h.I18n.GetTable)
	mux.HandleFunc("GET /api/i18n/{lang}", h.I18n.GetTable)

	// WebSocket: oturum cookie'si upgrade isteğiyle gelir
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	// Frontend: build gömülüyse SPA fallback
	dist, err := static.Dist()
	if err != nil || !static.HasIndex(dist) {
		log.Println("[main] frontend build not embedded, serving API only")
		return
	}
	mux.Handle("GET /", static.SPAHandler(dist))
}
