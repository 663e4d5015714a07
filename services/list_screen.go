package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg"
)

// ListState, liste ekranının durumu.
type ListState string

const (
	ListIdle                 ListState = "idle"
	ListDeleteConfirmPending ListState = "delete_confirm_pending"
	ListDeleting             ListState = "deleting"
)

// ListView, liste ekranının istemciye gösterilen anlık görüntüsü.
type ListView struct {
	State           ListState            `json:"state"`
	PendingDeleteID int64                `json:"pending_delete_id,omitempty"`
	ModalVisible    bool                 `json:"modal_visible"`
	Selected        []int64              `json:"selected"`
	Page            *models.EmployeePage `json:"page"`
}

// ListScreen, bir oturumun liste ekranı durumu.
//
// Geçişler:
//
//	Idle → DeleteConfirmPending (RequestDelete, store değişmez)
//	DeleteConfirmPending → Idle (CancelDelete)
//	DeleteConfirmPending → Deleting → Idle (ConfirmDelete: sil + yeniden yükle)
//
// Geçersiz geçişler pkg.ErrConflict döner.
type ListScreen struct {
	employees EmployeeService

	mu            sync.Mutex
	state         ListState
	query         string
	page          int
	viewMode      models.ViewMode
	pendingDelete int64
	selection     Selection
}

// NewListScreen, 1. sayfada, boş aramayla başlayan bir ekran oluşturur.
func NewListScreen(employees EmployeeService, mode models.ViewMode) *ListScreen {
	return &ListScreen{
		employees: employees,
		state:     ListIdle,
		page:      1,
		viewMode:  mode,
	}
}

// View, mevcut durumu ve sayfayı döner.
func (s *ListScreen) View(ctx context.Context) (*ListView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(ctx)
}

// Navigate, URL'den gelen (sayfa, görünüm modu) parametrelerini uygular.
// Sıfır değerler mevcut değeri korur.
func (s *ListScreen) Navigate(ctx context.Context, page int, mode models.ViewMode) (*ListView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page > 0 {
		s.page = page
	}
	if mode != "" {
		s.viewMode = mode
	}
	return s.view(ctx)
}

// Search, aramayı değiştirir ve 1. sayfaya döner.
func (s *ListScreen) Search(ctx context.Context, query string) (*ListView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.page = 1
	return s.view(ctx)
}

// ChangePage, sayfayı değiştirir. Aralık dışı sayfa boş liste gösterir.
func (s *ListScreen) ChangePage(ctx context.Context, page int) (*ListView, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1", pkg.ErrBadRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.page = page
	return s.view(ctx)
}

// ChangeViewMode, görünüm modunu (ve dolayısıyla sayfa boyutunu) değiştirir.
// Sayfa numarası olduğu gibi kalır; yeni boyutta aralık dışına düşerse sayfa boş görünür.
func (s *ListScreen) ChangeViewMode(ctx context.Context, mode models.ViewMode) (*ListView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewMode = mode
	return s.view(ctx)
}

// ToggleSelection, id'yi seçer veya seçimi kaldırır.
func (s *ListScreen) ToggleSelection(ctx context.Context, id int64) (*ListView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selection.Toggle(id)
	return s.view(ctx)
}

// RequestDelete, silme onayı bekleme durumuna geçer. Store'a dokunmaz.
func (s *ListScreen) RequestDelete(ctx context.Context, id int64) (*ListView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != ListIdle {
		return nil, s.invalid("delete-request")
	}

	s.state = ListDeleteConfirmPending
	s.pendingDelete = id
	return s.view(ctx)
}

// CancelDelete, onayı iptal eder.
func (s *ListScreen) CancelDelete(ctx context.Context) (*ListView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != ListDeleteConfirmPending {
		return nil, s.invalid("delete-cancel")
	}

	s.state = ListIdle
	s.pendingDelete = 0
	return s.view(ctx)
}

// ConfirmDelete, bekleyen kaydı siler ve listeyi yeniden yükler.
// Kayıt zaten yoksa (NotFound) sessizce yok sayılır.
// Store hatasında onay durumuna geri dönülür.
func (s *ListScreen) ConfirmDelete(ctx context.Context) (*ListView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != ListDeleteConfirmPending {
		return nil, s.invalid("delete-confirm")
	}

	id := s.pendingDelete
	s.state = ListDeleting

	if err := s.employees.Delete(ctx, id); err != nil && !errors.Is(err, pkg.ErrNotFound) {
		s.state = ListDeleteConfirmPending
		return nil, err
	}

	s.selection.Remove(id)
	s.pendingDelete = 0
	s.state = ListIdle
	return s.view(ctx)
}

// State, test ve log için.
func (s *ListScreen) State() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ListScreen) invalid(action string) error {
	return fmt.Errorf("%w: %s not allowed in state %s", pkg.ErrConflict, action, s.state)
}

// view, s.mu altında çağrılır.
func (s *ListScreen) view(ctx context.Context) (*ListView, error) {
	page, err := s.employees.List(ctx, ListQuery{Query: s.query, Page: s.page, ViewMode: s.viewMode})
	if err != nil {
		return nil, err
	}

	return &ListView{
		State:           s.state,
		PendingDeleteID: s.pendingDelete,
		ModalVisible:    s.state == ListDeleteConfirmPending,
		Selected:        s.selection.IDs(),
		Page:            page,
	}, nil
}
