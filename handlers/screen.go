package handlers

import (
	"fmt"
	"net/http"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/services"
)

// ScreenHandler, oturum başına liste ve form ekranı durum makinelerini sunar.
// Ekran durumu ScreenStore'da tutulur; istemci her geçişten sonra güncel görünümü alır.
type ScreenHandler struct {
	screens   *services.ScreenStore
	language  services.LanguageService
	viewModes services.ViewModeService
}

// NewScreenHandler, constructor.
func NewScreenHandler(
	screens *services.ScreenStore,
	language services.LanguageService,
	viewModes services.ViewModeService,
) *ScreenHandler {
	return &ScreenHandler{screens: screens, language: language, viewModes: viewModes}
}

type searchRequest struct {
	Query string `json:"query"`
}

type pageRequest struct {
	Page int `json:"page"`
}

type viewModeRequest struct {
	ViewMode string `json:"viewMode"`
}

type openFormRequest struct {
	ID       int64  `json:"id"`
	Page     int    `json:"page"`
	ViewMode string `json:"viewMode"`
}

// ─── Liste ekranı ───

// ListView godoc
// GET /api/screens/list?page=&viewMode=
// Query parametreleri verilmişse önce uygulanır (URL → ekran senkronu).
func (h *ScreenHandler) ListView(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.listScreen(w, r)
	if !ok {
		return
	}

	var page int
	if r.URL.Query().Has("page") {
		page = queryPage(r)
	}
	mode, err := queryViewMode(r, "")
	if err != nil {
		pkg.Error(w, err)
		return
	}

	var view *services.ListView
	if page > 0 || mode != "" {
		view, err = screen.Navigate(r.Context(), page, mode)
	} else {
		view, err = screen.View(r.Context())
	}
	writeView(w, view, err)
}

// Search godoc
// POST /api/screens/list/search
func (h *ScreenHandler) Search(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.listScreen(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.Error(w, err)
		return
	}

	view, err := screen.Search(r.Context(), req.Query)
	writeView(w, view, err)
}

// ChangePage godoc
// POST /api/screens/list/page
func (h *ScreenHandler) ChangePage(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.listScreen(w, r)
	if !ok {
		return
	}

	var req pageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.Error(w, err)
		return
	}

	view, err := screen.ChangePage(r.Context(), req.Page)
	writeView(w, view, err)
}

// ChangeViewMode godoc
// POST /api/screens/list/view-mode
// Sadece bu oturumun listesini değiştirir; kalıcı tercih /api/preferences/view-mode'dadır.
func (h *ScreenHandler) ChangeViewMode(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.listScreen(w, r)
	if !ok {
		return
	}

	var req viewModeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkg.Error(w, err)
		return
	}
	mode, valid := models.ParseViewMode(req.ViewMode)
	if !valid {
		pkg.Error(w, fmt.Errorf("%w: unknown view mode %q", pkg.ErrBadRequest, req.ViewMode))
		return
	}

	view, err := screen.ChangeViewMode(r.Context(), mode)
	writeView(w, view, err)
}

// ToggleSelection godoc
// POST /api/screens/list/selection/{id}
func (h *ScreenHandler) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.listScreen(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	view, err := screen.ToggleSelection(r.Context(), id)
	writeView(w, view, err)
}

// RequestDelete godoc
// POST /api/screens/list/delete-request/{id}
func (h *ScreenHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.listScreen(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	view, err := screen.RequestDelete(r.Context(), id)
	writeView(w, view, err)
}

// ConfirmDelete godoc
// POST /api/screens/list/delete-confirm
func (h *ScreenHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.listScreen(w, r)
	if !ok {
		return
	}

	view, err := screen.ConfirmDelete(r.Context())
	writeView(w, view, err)
}

// CancelDelete godoc
// POST /api/screens/list/delete-cancel
func (h *ScreenHandler) CancelDelete(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.listScreen(w, r)
	if !ok {
		return
	}

	view, err := screen.CancelDelete(r.Context())
	writeView(w, view, err)
}

// ─── Form ekranı ───

// FormView godoc
// GET /api/screens/form
func (h *ScreenHandler) FormView(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.formScreen(w, r)
	if !ok {
		return
	}
	pkg.JSON(w, http.StatusOK, screen.View())
}

// OpenForm godoc
// POST /api/screens/form/open, id verilirse düzenleme, yoksa ekleme.
// page/viewMode, çıkışta dönülecek liste konumudur.
//
// Listeden ayrılmak liste durumunu (arama, seçim, bekleyen silme) atar;
// dönüşte liste sadece page/viewMode ile yeniden kurulur.
func (h *ScreenHandler) OpenForm(w http.ResponseWriter, r *http.Request) {
	sid, ok := SessionIDFromRequest(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "missing session")
		return
	}

	var req openFormRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			pkg.Error(w, err)
			return
		}
	}
	if req.ID < 0 {
		pkg.Error(w, fmt.Errorf("%w: invalid employee id", pkg.ErrBadRequest))
		return
	}

	mode := h.viewModes.Current()
	if req.ViewMode != "" {
		parsed, valid := models.ParseViewMode(req.ViewMode)
		if !valid {
			pkg.Error(w, fmt.Errorf("%w: unknown view mode %q", pkg.ErrBadRequest, req.ViewMode))
			return
		}
		mode = parsed
	}

	h.screens.Reset(sid)
	view, err := h.screens.FormFor(sid).Open(r.Context(), req.ID, req.Page, mode)
	writeView(w, view, err)
}

// SubmitForm godoc
// POST /api/screens/form/submit
// Doğrulama hataları 200 ile görünümde döner; form düzenlenebilir kalır.
func (h *ScreenHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.formScreen(w, r)
	if !ok {
		return
	}

	form, err := decodeEmployeeForm(w, r)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	view, err := screen.Submit(form, h.language.Localizer())
	writeView(w, view, err)
}

// CancelForm godoc
// POST /api/screens/form/cancel
func (h *ScreenHandler) CancelForm(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.formScreen(w, r)
	if !ok {
		return
	}

	view, err := screen.Cancel()
	writeView(w, view, err)
}

// ConfirmForm godoc
// POST /api/screens/form/confirm
func (h *ScreenHandler) ConfirmForm(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.formScreen(w, r)
	if !ok {
		return
	}

	result, err := screen.Confirm(r.Context(), h.language.Localizer())
	if err != nil {
		// Kaydetme sırasında yakalanan doğrulama hatası: form görünümü hatalarla döner
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// CloseForm godoc
// POST /api/screens/form/close
func (h *ScreenHandler) CloseForm(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.formScreen(w, r)
	if !ok {
		return
	}
	pkg.JSON(w, http.StatusOK, screen.Close())
}

func (h *ScreenHandler) listScreen(w http.ResponseWriter, r *http.Request) (*services.ListScreen, bool) {
	sid, ok := SessionIDFromRequest(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "missing session")
		return nil, false
	}
	return h.screens.ListFor(sid), true
}

func (h *ScreenHandler) formScreen(w http.ResponseWriter, r *http.Request) (*services.FormScreen, bool) {
	sid, ok := SessionIDFromRequest(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "missing session")
		return nil, false
	}
	return h.screens.FormFor(sid), true
}

func writeView[V any](w http.ResponseWriter, view *V, err error) {
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, view)
}
