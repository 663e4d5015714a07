package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/repository"
	"github.com/akinalp/personel/ws"
)

// ListQuery, liste görünümünü türeten girdi: arama, sayfa, görünüm modu.
type ListQuery struct {
	Query    string
	Page     int
	ViewMode models.ViewMode
}

// EmployeeService, çalışan iş mantığı interface'i.
//
// Create/Update: form doğrulanır; hata varsa FieldErrors ile birlikte
// pkg.ErrValidation döner ve store değişmez.
type EmployeeService interface {
	List(ctx context.Context, q ListQuery) (*models.EmployeePage, error)
	Get(ctx context.Context, id int64) (*models.Employee, error)
	Create(ctx context.Context, form models.EmployeeForm, t models.Translator) (*models.Employee, models.FieldErrors, error)
	Update(ctx context.Context, id int64, form models.EmployeeForm, t models.Translator) (*models.Employee, models.FieldErrors, error)
	Delete(ctx context.Context, id int64) error
	// Seed, store boşsa r'deki JSON dizisini içeri aktarır. Eklenen kayıt sayısını döner.
	Seed(ctx context.Context, r io.Reader) (int, error)
}

type employeeService struct {
	repo  repository.EmployeeRepository
	hub   ws.EventPublisher
	sizes PageSizes
}

// NewEmployeeService, constructor.
// hub: create/update/delete event'lerini tüm client'lara broadcast etmek için.
func NewEmployeeService(repo repository.EmployeeRepository, hub ws.EventPublisher, sizes PageSizes) EmployeeService {
	return &employeeService{repo: repo, hub: hub, sizes: sizes}
}

// List, tüm kayıtları filtreler ve istenen sayfayı keser.
// Page < 1 ise 1 kabul edilir. Sayfa sayıdan büyükse boş sayfa döner (clamp yok).
func (s *employeeService) List(ctx context.Context, q ListQuery) (*models.EmployeePage, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	mode := q.ViewMode
	if mode == "" {
		mode = models.ViewModeList
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	size := s.sizes.For(mode)

	filtered := FilterEmployees(all, q.Query)
	items := Paginate(filtered, page, size)

	return &models.EmployeePage{
		Items:     items,
		Total:     len(filtered),
		Page:      page,
		PageSize:  size,
		PageCount: PageCount(len(filtered), size),
		Query:     q.Query,
		ViewMode:  mode,
	}, nil
}

func (s *employeeService) Get(ctx context.Context, id int64) (*models.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *employeeService) Create(ctx context.Context, form models.EmployeeForm, t models.Translator) (*models.Employee, models.FieldErrors, error) {
	if errs := form.Validate(t); !errs.OK() {
		return nil, errs, pkg.ErrValidation
	}

	candidate, err := form.ToEmployee(0)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", pkg.ErrBadRequest, err)
	}

	created, err := s.repo.Add(ctx, candidate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to add employee: %w", err)
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpEmployeeCreate, Data: created})
	log.Printf("[employees] created id=%d (%s)", created.ID, created.FullName())
	return created, nil, nil
}

func (s *employeeService) Update(ctx context.Context, id int64, form models.EmployeeForm, t models.Translator) (*models.Employee, models.FieldErrors, error) {
	if errs := form.Validate(t); !errs.OK() {
		return nil, errs, pkg.ErrValidation
	}

	updated, err := form.ToEmployee(id)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", pkg.ErrBadRequest, err)
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, nil, err
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpEmployeeUpdate, Data: updated})
	log.Printf("[employees] updated id=%d", id)
	return &updated, nil, nil
}

func (s *employeeService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.hub.BroadcastToAll(ws.Event{Op: ws.OpEmployeeDelete, Data: ws.EmployeeDeleteData{ID: id}})
	log.Printf("[employees] deleted id=%d", id)
	return nil
}

// Seed, sadece boş store'a yazar; tekrar çalıştırmak güvenlidir.
// Gelen kayıtların ID'leri yok sayılır, her biri yeni ID alır.
func (s *employeeService) Seed(ctx context.Context, r io.Reader) (int, error) {
	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	var records []models.Employee
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("failed to decode seed file: %w", err)
	}

	var invalid []string
	added := 0
	for i, e := range records {
		if errs := models.FormFromEmployee(e).Validate(keyOnly{}); !errs.OK() {
			invalid = append(invalid, fmt.Sprintf("#%d", i))
			continue
		}
		if _, err := s.repo.Add(ctx, e); err != nil {
			return added, fmt.Errorf("failed to seed employee #%d: %w", i, err)
		}
		added++
	}

	if len(invalid) > 0 {
		log.Printf("[employees] warning: skipped %d invalid seed record(s): %s", len(invalid), strings.Join(invalid, ", "))
	}
	return added, nil
}

// keyOnly, seed doğrulamasında mesaj yerine anahtarı kullanır.
type keyOnly struct{}

func (keyOnly) T(key string) string { return key }
