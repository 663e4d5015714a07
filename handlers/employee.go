package handlers

import (
	"errors"
	"net/http"

	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/services"
)

// EmployeeHandler, /api/employees endpoint'leri.
type EmployeeHandler struct {
	employees services.EmployeeService
	language  services.LanguageService
	viewModes services.ViewModeService
}

// NewEmployeeHandler, constructor.
func NewEmployeeHandler(
	employees services.EmployeeService,
	language services.LanguageService,
	viewModes services.ViewModeService,
) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, language: language, viewModes: viewModes}
}

// List godoc
// GET /api/employees?q=&page=&viewMode=
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	mode, err := queryViewMode(r, h.viewModes.Current())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	page, err := h.employees.List(r.Context(), services.ListQuery{
		Query:    r.URL.Query().Get("q"),
		Page:     queryPage(r),
		ViewMode: mode,
	})
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, page)
}

// Get godoc
// GET /api/employees/{id}
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	e, err := h.employees.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, e)
}

// Create godoc
// POST /api/employees (JSON veya urlencoded form)
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := decodeEmployeeForm(w, r)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	created, fieldErrs, err := h.employees.Create(r.Context(), form, h.language.Localizer())
	if err != nil {
		h.writeFormError(w, err, fieldErrs)
		return
	}

	pkg.JSON(w, http.StatusCreated, created)
}

// Update godoc
// PUT /api/employees/{id}
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	form, err := decodeEmployeeForm(w, r)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	updated, fieldErrs, err := h.employees.Update(r.Context(), id, form, h.language.Localizer())
	if err != nil {
		h.writeFormError(w, err, fieldErrs)
		return
	}

	pkg.JSON(w, http.StatusOK, updated)
}

// Delete godoc
// DELETE /api/employees/{id}
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	if err := h.employees.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{
		"message": h.language.Localizer().T("list.employeeDeleted"),
	})
}

func (h *EmployeeHandler) writeFormError(w http.ResponseWriter, err error, fieldErrs map[string]string) {
	if errors.Is(err, pkg.ErrValidation) {
		pkg.ValidationError(w, fieldErrs)
		return
	}
	h.writeError(w, err)
}

// writeError, NotFound'u şu anki dilde mesajla döner.
func (h *EmployeeHandler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, pkg.ErrNotFound) {
		pkg.ErrorWithMessage(w, http.StatusNotFound, h.language.Localizer().T("errors.notFound"))
		return
	}
	pkg.Error(w, err)
}
