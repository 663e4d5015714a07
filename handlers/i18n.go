package handlers

import (
	"net/http"

	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/pkg/i18n"
)

// I18nHandler, frontend'in string tablosunu sunar.
type I18nHandler struct {
	catalog *i18n.Catalog
}

// NewI18nHandler, constructor.
func NewI18nHandler(catalog *i18n.Catalog) *I18nHandler {
	return &I18nHandler{catalog: catalog}
}

// GetTable godoc
// GET /api/i18n/{lang}
// Response: { "success": true, "data": { "nav.employees": "Employees", ... } }
func (h *I18nHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("lang")
	if lang == "" {
		lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	}

	table := h.catalog.Table(lang)
	if table == nil {
		pkg.Error(w, pkg.ErrUnsupportedLanguage)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	pkg.JSON(w, http.StatusOK, table)
}
