package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg/i18n"
	"github.com/akinalp/personel/repository"
	"github.com/akinalp/personel/services"
	"github.com/akinalp/personel/ws"
)

type nopHub struct{}

func (nopHub) BroadcastToAll(ws.Event) {}

func (nopHub) BroadcastToSession(string, ws.Event) {}

func (nopHub) ConnectionCount() int { return 3 }

type envelope[T any] struct {
	Success bool              `json:"success"`
	Data    T                 `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

type testAPI struct {
	mux       *http.ServeMux
	employees services.EmployeeService
	language  services.LanguageService
	screens   *services.ScreenStore
}

// newTestAPI, main.go'daki route'ların aynısını bellek içi store ile kurar.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	catalog, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	store := repository.NewMemoryKeyValueStore()
	prefs := repository.NewKVPreferenceRepo(store)
	sizes := services.PageSizes{List: 12, Card: 15}

	employees := services.NewEmployeeService(repository.NewKVEmployeeRepo(store), nopHub{}, sizes)
	language := services.NewLanguageService(catalog, prefs, nopHub{}, "en")
	viewModes := services.NewViewModeService(prefs, nopHub{}, sizes, models.ViewModeList)
	screens := services.NewScreenStore(employees, viewModes, time.Minute)
	t.Cleanup(screens.Close)

	eh := NewEmployeeHandler(employees, language, viewModes)
	sh := NewScreenHandler(screens, language, viewModes)
	ph := NewPreferenceHandler(language, viewModes)
	ih := NewI18nHandler(catalog)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/employees", eh.List)
	mux.HandleFunc("POST /api/employees", eh.Create)
	mux.HandleFunc("GET /api/employees/{id}", eh.Get)
	mux.HandleFunc("PUT /api/employees/{id}", eh.Update)
	mux.HandleFunc("DELETE /api/employees/{id}", eh.Delete)

	mux.HandleFunc("GET /api/screens/list", sh.ListView)
	mux.HandleFunc("POST /api/screens/list/search", sh.Search)
	mux.HandleFunc("POST /api/screens/list/page", sh.ChangePage)
	mux.HandleFunc("POST /api/screens/list/delete-request/{id}", sh.RequestDelete)
	mux.HandleFunc("POST /api/screens/list/delete-confirm", sh.ConfirmDelete)
	mux.HandleFunc("POST /api/screens/list/delete-cancel", sh.CancelDelete)
	mux.HandleFunc("POST /api/screens/list/selection/{id}", sh.ToggleSelection)
	mux.HandleFunc("GET /api/screens/form", sh.FormView)
	mux.HandleFunc("POST /api/screens/form/open", sh.OpenForm)
	mux.HandleFunc("POST /api/screens/form/submit", sh.SubmitForm)
	mux.HandleFunc("POST /api/screens/form/cancel", sh.CancelForm)
	mux.HandleFunc("POST /api/screens/form/confirm", sh.ConfirmForm)
	mux.HandleFunc("POST /api/screens/form/close", sh.CloseForm)

	mux.HandleFunc("GET /api/preferences/language", ph.GetLanguage)
	mux.HandleFunc("PUT /api/preferences/language", ph.SetLanguage)
	mux.HandleFunc("PUT /api/preferences/view-mode", ph.SetViewMode)
	mux.HandleFunc("GET /api/i18n/{lang}", ih.GetTable)

	return &testAPI{mux: mux, employees: employees, language: language, screens: screens}
}

// do, isteği "s1" oturumuyla gönderir. body string ise JSON kabul edilir.
func (a *testAPI) do(t *testing.T, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req = req.WithContext(WithSessionID(req.Context(), "s1"))

	rec := httptest.NewRecorder()
	a.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

const adaJSON = `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","phone":"5551234567",
	"department":"Tech","position":"Senior","employmentDate":"2020-01-15","dateOfBirth":"1990-12-10"}`

func (a *testAPI) createAda(t *testing.T) models.Employee {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/employees", strings.NewReader(adaJSON))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Employee](t, rec).Data
}

func TestEmployeeHandler_CreateJSONAndList(t *testing.T) {
	api := newTestAPI(t)
	created := api.createAda(t)
	require.NotZero(t, created.ID)
	require.Equal(t, "5551234567", created.PhoneNumber)

	rec := api.do(t, http.MethodGet, "/api/employees?q=love&viewMode=card", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	page := decode[models.EmployeePage](t, rec).Data
	require.Equal(t, 1, page.Total)
	require.Equal(t, 15, page.PageSize)
	require.Equal(t, models.ViewModeCard, page.ViewMode)
	require.Equal(t, created.ID, page.Items[0].ID)
}

func TestEmployeeHandler_HugePageIsEmpty(t *testing.T) {
	api := newTestAPI(t)
	api.createAda(t)

	rec := api.do(t, http.MethodGet, "/api/employees?page=768614336404564652", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[models.EmployeePage](t, rec).Data
	require.Empty(t, page.Items)
	require.Equal(t, 1, page.Total)
}

func TestEmployeeHandler_CreateURLEncodedForm(t *testing.T) {
	api := newTestAPI(t)

	form := url.Values{
		"firstName":      {"Grace"},
		"lastName":       {"Hopper"},
		"email":          {"grace@example.com"},
		"phone":          {"5550000000"},
		"department":     {"Analytics"},
		"position":       {"Medior"},
		"employmentDate": {"2019-03-01"},
		"dateOfBirth":    {"1985-06-20"},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	e := decode[models.Employee](t, rec).Data
	require.Equal(t, "Grace", e.FirstName)
	require.Equal(t, "5550000000", e.PhoneNumber)
	require.Equal(t, models.Department("Analytics"), e.Department)
}

func TestEmployeeHandler_ValidationReturns422WithFields(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/employees", strings.NewReader(`{"lastName":"X","email":"nope","phone":"12a"}`))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	env := decode[any](t, rec)
	require.False(t, env.Success)
	require.Equal(t, "First name is required", env.Fields["firstName"])
	require.Equal(t, "Email address is not valid", env.Fields["email"])
	require.Equal(t, "Phone number must contain only digits", env.Fields["phone"])
	require.NotContains(t, env.Fields, "lastName")
}

func TestEmployeeHandler_BadBodyAndID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/employees", strings.NewReader(`{`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/employees/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/employees?viewMode=grid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployeeHandler_UpdateAndDelete(t *testing.T) {
	api := newTestAPI(t)
	created := api.createAda(t)
	path := "/api/employees/" + jsonID(created.ID)

	updated := strings.Replace(adaJSON, `"Senior"`, `"Junior"`, 1)
	rec := api.do(t, http.MethodPut, path, strings.NewReader(updated))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, models.Position("Junior"), decode[models.Employee](t, rec).Data.Position)

	rec = api.do(t, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Employee not found", decode[any](t, rec).Error)

	rec = api.do(t, http.MethodPut, path, strings.NewReader(adaJSON))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScreenHandler_DeleteFlow(t *testing.T) {
	api := newTestAPI(t)
	created := api.createAda(t)
	id := jsonID(created.ID)

	rec := api.do(t, http.MethodPost, "/api/screens/list/delete-request/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[services.ListView](t, rec).Data
	require.Equal(t, services.ListDeleteConfirmPending, view.State)
	require.True(t, view.ModalVisible)
	require.Equal(t, created.ID, view.PendingDeleteID)

	// Onay beklerken ikinci istek geçersiz
	rec = api.do(t, http.MethodPost, "/api/screens/list/delete-request/"+id, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/screens/list/delete-cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, services.ListIdle, decode[services.ListView](t, rec).Data.State)

	api.do(t, http.MethodPost, "/api/screens/list/delete-request/"+id, nil)
	rec = api.do(t, http.MethodPost, "/api/screens/list/delete-confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[services.ListView](t, rec).Data
	require.Equal(t, services.ListIdle, view.State)
	require.Zero(t, view.Page.Total)

	rec = api.do(t, http.MethodPost, "/api/screens/list/delete-confirm", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestScreenHandler_SearchResetsPageAndNavigate(t *testing.T) {
	api := newTestAPI(t)
	api.createAda(t)

	rec := api.do(t, http.MethodGet, "/api/screens/list?page=3&viewMode=table", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[services.ListView](t, rec).Data.Page
	require.Equal(t, 3, page.Page)
	require.Equal(t, models.ViewModeCard, page.ViewMode)
	require.Empty(t, page.Items, "out of range page is empty")

	rec = api.do(t, http.MethodPost, "/api/screens/list/search", strings.NewReader(`{"query":"ada"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[services.ListView](t, rec).Data.Page
	require.Equal(t, 1, page.Page)
	require.Len(t, page.Items, 1)

	rec = api.do(t, http.MethodPost, "/api/screens/list/page", strings.NewReader(`{"page":0}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScreenHandler_SelectionToggle(t *testing.T) {
	api := newTestAPI(t)
	created := api.createAda(t)
	path := "/api/screens/list/selection/" + jsonID(created.ID)

	rec := api.do(t, http.MethodPost, path, nil)
	require.Equal(t, []int64{created.ID}, decode[services.ListView](t, rec).Data.Selected)

	rec = api.do(t, http.MethodPost, path, nil)
	require.Empty(t, decode[services.ListView](t, rec).Data.Selected)
}

func TestScreenHandler_AddFormFlow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/screens/form/open", strings.NewReader(`{"page":2,"viewMode":"card"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "add", decode[services.FormView](t, rec).Data.Mode)

	// Hatalı gönderim 200 döner, form düzenlemede kalır
	rec = api.do(t, http.MethodPost, "/api/screens/form/submit", strings.NewReader(`{"firstName":"Ada"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[services.FormView](t, rec).Data
	require.Equal(t, services.FormEditing, view.State)
	require.Equal(t, "Last name is required", view.Errors["lastName"])

	rec = api.do(t, http.MethodPost, "/api/screens/form/confirm", nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/screens/form/submit", strings.NewReader(adaJSON))
	view = decode[services.FormView](t, rec).Data
	require.Equal(t, services.FormSubmitConfirmPending, view.State)
	require.True(t, view.ModalVisible)

	rec = api.do(t, http.MethodPost, "/api/screens/form/confirm", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[services.FormResult](t, rec).Data
	require.Equal(t, "/?page=2&viewMode=card", result.Redirect)
	require.Equal(t, "Ada Lovelace has been added", result.Notice)

	all, err := api.employees.List(context.Background(), services.ListQuery{Page: 1, ViewMode: models.ViewModeList})
	require.NoError(t, err)
	require.Equal(t, 1, all.Total)
}

func TestScreenHandler_FormRoundTripStartsFreshList(t *testing.T) {
	api := newTestAPI(t)
	created := api.createAda(t)
	id := jsonID(created.ID)

	rec := api.do(t, http.MethodPost, "/api/screens/list/search", strings.NewReader(`{"query":"zzz"}`))
	require.Zero(t, decode[services.ListView](t, rec).Data.Page.Total)
	api.do(t, http.MethodPost, "/api/screens/list/selection/"+id, nil)
	rec = api.do(t, http.MethodPost, "/api/screens/list/delete-request/"+id, nil)
	require.Equal(t, services.ListDeleteConfirmPending, decode[services.ListView](t, rec).Data.State)

	rec = api.do(t, http.MethodPost, "/api/screens/form/open", strings.NewReader(`{"page":1,"viewMode":"list"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodPost, "/api/screens/form/close", nil)
	require.Equal(t, "/?page=1&viewMode=list", decode[services.FormResult](t, rec).Data.Redirect)

	rec = api.do(t, http.MethodGet, "/api/screens/list?page=1&viewMode=list", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[services.ListView](t, rec).Data
	require.Equal(t, services.ListIdle, view.State)
	require.Empty(t, view.Selected)
	require.Empty(t, view.Page.Query)
	require.Equal(t, 1, view.Page.Total)
}

func TestScreenHandler_EditMissingEmployee(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/screens/form/open", strings.NewReader(`{"id":42}`))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScreenHandler_RequiresSession(t *testing.T) {
	api := newTestAPI(t)

	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/screens/list", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPreferenceHandler_Language(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/api/preferences/language", strings.NewReader(`{"language":"de"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Language is not supported", decode[any](t, rec).Error)
	require.Equal(t, "en", api.language.Current())

	rec = api.do(t, http.MethodPut, "/api/preferences/language", strings.NewReader(`{"language":"tr"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "tr", decode[LanguageResponse](t, rec).Data.Language)

	// Hata mesajları artık Türkçe
	rec = api.do(t, http.MethodGet, "/api/employees/1", nil)
	require.Equal(t, "Çalışan bulunamadı", decode[any](t, rec).Error)
}

func TestPreferenceHandler_ViewMode(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/api/preferences/view-mode", strings.NewReader(`{"viewMode":"card"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ViewModeResponse](t, rec).Data
	require.Equal(t, models.ViewModeCard, resp.ViewMode)
	require.Equal(t, 15, resp.PageSize)

	rec = api.do(t, http.MethodPut, "/api/preferences/view-mode", strings.NewReader(`{"viewMode":"grid"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Yeni oturumun listesi kalıcı tercihle açılır
	api.screens.Reset("s1")
	rec = api.do(t, http.MethodGet, "/api/screens/list", nil)
	require.Equal(t, models.ViewModeCard, decode[services.ListView](t, rec).Data.Page.ViewMode)
}

func TestI18nHandler_Table(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/i18n/tr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	table := decode[map[string]string](t, rec).Data
	require.Equal(t, "{{name}} eklendi", table["form.employeeAdded"])

	rec = api.do(t, http.MethodGet, "/api/i18n/xx", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsHandler_Health(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	api := newTestAPI(t)
	h := NewStatsHandler(db, nopHub{}, api.employees, api.language, nil)

	mock.ExpectPing()
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, decode[HealthResponse](t, rec).Data.Connections)

	mock.ExpectPing().WillReturnError(errors.New("disk I/O error"))
	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "degraded", decode[HealthResponse](t, rec).Data.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
