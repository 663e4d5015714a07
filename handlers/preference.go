package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/pkg/i18n"
	"github.com/akinalp/personel/services"
)

// PreferenceHandler, kalıcı dil ve görünüm modu tercihleri.
type PreferenceHandler struct {
	language  services.LanguageService
	viewModes services.ViewModeService
}

// NewPreferenceHandler, constructor.
func NewPreferenceHandler(language services.LanguageService, viewModes services.ViewModeService) *PreferenceHandler {
	return &PreferenceHandler{language: language, viewModes: viewModes}
}

// LanguageResponse, GET/PUT /api/preferences/language yanıtı.
type LanguageResponse struct {
	Language  string   `json:"language"`
	Supported []string `json:"supported"`
}

// ViewModeResponse, GET/PUT /api/preferences/view-mode yanıtı.
type ViewModeResponse struct {
	ViewMode models.ViewMode `json:"viewMode"`
	PageSize int             `json:"pageSize"`
}

type languageRequest struct {
	Language string `json:"language"`
}

// GetLanguage godoc
// GET /api/preferences/language
func (h *PreferenceHandler) GetLanguage(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, h.languageResponse())
}

// SetLanguage godoc
// PUT /api/preferences/language
// Body: {"language": "tr"}. Desteklenmeyen dilde 400, mevcut dil değişmez.
func (h *PreferenceHandler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req languageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.Error(w, err)
		return
	}

	if err := h.language.Set(r.Context(), req.Language); err != nil {
		if errors.Is(err, pkg.ErrUnsupportedLanguage) {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, h.language.Localizer().T("errors.unsupportedLanguage"))
			return
		}
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, h.languageResponse())
}

// GetViewMode godoc
// GET /api/preferences/view-mode
func (h *PreferenceHandler) GetViewMode(w http.ResponseWriter, r *http.Request) {
	mode := h.viewModes.Current()
	pkg.JSON(w, http.StatusOK, ViewModeResponse{ViewMode: mode, PageSize: h.viewModes.PageSize(mode)})
}

// SetViewMode godoc
// PUT /api/preferences/view-mode
// Body: {"viewMode": "card"}
func (h *PreferenceHandler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	var req viewModeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.Error(w, err)
		return
	}

	mode, ok := models.ParseViewMode(req.ViewMode)
	if !ok {
		pkg.Error(w, fmt.Errorf("%w: unknown view mode %q", pkg.ErrBadRequest, req.ViewMode))
		return
	}
	if err := h.viewModes.Set(r.Context(), mode); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, ViewModeResponse{ViewMode: mode, PageSize: h.viewModes.PageSize(mode)})
}

func (h *PreferenceHandler) languageResponse() LanguageResponse {
	return LanguageResponse{
		Language:  h.language.Current(),
		Supported: i18n.SupportedLanguages,
	}
}
