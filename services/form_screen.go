package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg"
)

// FormState, ekleme/düzenleme ekranının durumu.
type FormState string

const (
	FormEditing              FormState = "editing"
	FormSubmitConfirmPending FormState = "submit_confirm_pending"
	FormSubmitting           FormState = "submitting"
)

// NoticeTranslator, onay sonrası "{{name}} eklendi" bildirimini üretebilen çevirici.
// *i18n.Localizer bunu karşılar.
type NoticeTranslator interface {
	models.Translator
	TWithParams(key string, params map[string]string) string
}

// FormView, form ekranının anlık görüntüsü.
type FormView struct {
	State        FormState           `json:"state"`
	Mode         string              `json:"mode"` // "add" | "edit"
	EmployeeID   int64               `json:"employee_id,omitempty"`
	Form         models.EmployeeForm `json:"form"`
	Errors       models.FieldErrors  `json:"errors"`
	ModalVisible bool                `json:"modal_visible"`
}

// FormResult, ekrandan ayrılırken (onay veya kapatma) istemcinin gideceği yer.
type FormResult struct {
	Redirect string           `json:"redirect"`
	Notice   string           `json:"notice,omitempty"`
	Employee *models.Employee `json:"employee,omitempty"`
}

// FormScreen, bir oturumun form ekranı.
//
// Geçişler:
//
//	Editing → SubmitConfirmPending (Submit, doğrulama hatası yoksa; varsa Editing'de kalır)
//	SubmitConfirmPending → Editing (Cancel)
//	SubmitConfirmPending → Submitting → ekrandan çıkış (Confirm)
type FormScreen struct {
	employees EmployeeService

	mu         sync.Mutex
	state      FormState
	editID     int64
	form       models.EmployeeForm
	errors     models.FieldErrors
	returnPage int
	returnMode models.ViewMode
}

// NewFormScreen, boş bir "ekle" formu oluşturur.
func NewFormScreen(employees EmployeeService) *FormScreen {
	return &FormScreen{
		employees:  employees,
		state:      FormEditing,
		errors:     models.FieldErrors{},
		returnPage: 1,
		returnMode: models.ViewModeList,
	}
}

// Open, formu sıfırlar. id > 0 ise mevcut kayıt düzenlenmek üzere yüklenir.
// page ve mode, çıkışta dönülecek liste konumudur.
func (s *FormScreen) Open(ctx context.Context, id int64, page int, mode models.ViewMode) (*FormView, error) {
	form := models.EmployeeForm{}
	if id > 0 {
		e, err := s.employees.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		form = models.FormFromEmployee(*e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = FormEditing
	s.editID = id
	s.form = form
	s.errors = models.FieldErrors{}
	s.returnPage = max(page, 1)
	s.returnMode = mode
	if s.returnMode == "" {
		s.returnMode = models.ViewModeList
	}
	return s.view(), nil
}

// View, mevcut durumu döner.
func (s *FormScreen) View() *FormView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// Submit, formu doğrular. Hata yoksa onay bekleme durumuna geçer;
// varsa Editing'de kalır ve hatalar görünümde döner.
func (s *FormScreen) Submit(form models.EmployeeForm, t models.Translator) (*FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != FormEditing {
		return nil, s.invalid("submit")
	}

	s.form = form
	s.errors = form.Validate(t)
	if s.errors.OK() {
		s.state = FormSubmitConfirmPending
	}
	return s.view(), nil
}

// Cancel, onay penceresini kapatır; form içeriği korunur.
func (s *FormScreen) Cancel() (*FormView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != FormSubmitConfirmPending {
		return nil, s.invalid("cancel")
	}

	s.state = FormEditing
	return s.view(), nil
}

// Confirm, kaydı ekler veya günceller ve listeye dönüş adresini döner.
//
// Düzenlenen kayıt bu arada silinmişse (NotFound) hata gösterilmez;
// bildirim yine de üretilir. Başarılı çıkışta ekran sıfırlanır.
func (s *FormScreen) Confirm(ctx context.Context, t NoticeTranslator) (*FormResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != FormSubmitConfirmPending {
		return nil, s.invalid("confirm")
	}
	s.state = FormSubmitting

	var (
		saved     *models.Employee
		fieldErrs models.FieldErrors
		err       error
		noticeKey string
	)
	if s.editID > 0 {
		saved, fieldErrs, err = s.employees.Update(ctx, s.editID, s.form, t)
		noticeKey = "form.employeeUpdated"
		if errors.Is(err, pkg.ErrNotFound) {
			err = nil
		}
	} else {
		saved, fieldErrs, err = s.employees.Create(ctx, s.form, t)
		noticeKey = "form.employeeAdded"
	}

	if err != nil {
		if errors.Is(err, pkg.ErrValidation) {
			s.errors = fieldErrs
			s.state = FormEditing
		} else {
			s.state = FormSubmitConfirmPending
		}
		return nil, err
	}

	n := s.form.Normalized()
	result := &FormResult{
		Redirect: s.redirect(),
		Notice:   t.TWithParams(noticeKey, map[string]string{"name": n.FirstName + " " + n.LastName}),
		Employee: saved,
	}
	s.reset()
	return result, nil
}

// Close, kaydetmeden listeye döner.
func (s *FormScreen) Close() *FormResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &FormResult{Redirect: s.redirect()}
	s.reset()
	return result
}

// State, test ve log için.
func (s *FormScreen) State() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *FormScreen) redirect() string {
	return fmt.Sprintf("/?page=%d&viewMode=%s", s.returnPage, s.returnMode)
}

func (s *FormScreen) reset() {
	s.state = FormEditing
	s.editID = 0
	s.form = models.EmployeeForm{}
	s.errors = models.FieldErrors{}
}

func (s *FormScreen) invalid(action string) error {
	return fmt.Errorf("%w: %s not allowed in state %s", pkg.ErrConflict, action, s.state)
}

func (s *FormScreen) view() *FormView {
	mode := "add"
	if s.editID > 0 {
		mode = "edit"
	}

	errs := make(models.FieldErrors, len(s.errors))
	for k, v := range s.errors {
		errs[k] = v
	}

	return &FormView{
		State:        s.state,
		Mode:         mode,
		EmployeeID:   s.editID,
		Form:         s.form,
		Errors:       errs,
		ModalVisible: s.state == FormSubmitConfirmPending,
	}
}
