package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg"
)

// Store anahtarları.
const (
	KeyEmployees       = "employees"
	KeyEmployeesLastID = "employees_last_id"
)

// EmployeeRepository, çalışan koleksiyonu üzerindeki işlemler.
//
// Sıralama garantisi sadece "bir sonraki mutasyona kadar sabit"tir.
// Çoklu kayıt transaction'ı yoktur.
type EmployeeRepository interface {
	GetAll(ctx context.Context) ([]models.Employee, error)
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	// Add, yeni bir ID atar ve kaydı sona ekler; e.ID yok sayılır.
	Add(ctx context.Context, e models.Employee) (*models.Employee, error)
	// Update, e.ID'li kaydı yerinde değiştirir. Kayıt yoksa pkg.ErrNotFound.
	Update(ctx context.Context, e models.Employee) error
	// DeleteByID, kaydı siler. Kayıt yoksa pkg.ErrNotFound.
	DeleteByID(ctx context.Context, id int64) error
}

// kvEmployeeRepo, koleksiyonu tek bir JSON dizi olarak KeyValueStore'da tutar.
// Her mutasyon oku → değiştir → tamamını yaz döngüsüdür; mu bu döngüyü
// aynı process içindeki eşzamanlı isteklere karşı sıralar.
type kvEmployeeRepo struct {
	store KeyValueStore
	now   func() time.Time
	mu    sync.Mutex
}

// NewKVEmployeeRepo, constructor, interface döner.
func NewKVEmployeeRepo(store KeyValueStore) EmployeeRepository {
	return &kvEmployeeRepo{store: store, now: time.Now}
}

func (r *kvEmployeeRepo) GetAll(ctx context.Context) ([]models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

func (r *kvEmployeeRepo) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(employees, id)
	if idx < 0 {
		return nil, pkg.ErrNotFound
	}
	e := employees[idx]
	return &e, nil
}

func (r *kvEmployeeRepo) Add(ctx context.Context, e models.Employee) (*models.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	id, err := r.nextID(ctx, employees)
	if err != nil {
		return nil, err
	}
	e.ID = id

	// Önce yüksek su işareti yazılır: koleksiyon yazımı başarısız olsa bile
	// bu ID bir daha verilmez.
	if err := r.store.Set(ctx, KeyEmployeesLastID, strconv.FormatInt(id, 10)); err != nil {
		return nil, fmt.Errorf("failed to persist last employee id: %w", err)
	}

	if err := r.save(ctx, append(employees, e)); err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *kvEmployeeRepo) Update(ctx context.Context, e models.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(employees, e.ID)
	if idx < 0 {
		return pkg.ErrNotFound
	}
	employees[idx] = e

	return r.save(ctx, employees)
}

func (r *kvEmployeeRepo) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	employees, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(employees, id)
	if idx < 0 {
		return pkg.ErrNotFound
	}

	remaining := make([]models.Employee, 0, len(employees)-1)
	remaining = append(remaining, employees[:idx]...)
	remaining = append(remaining, employees[idx+1:]...)

	return r.save(ctx, remaining)
}

// nextID, zaman damgası tabanlı ve kesin artan bir ID üretir:
// max(şimdi, kayıtlı en büyük ID + 1). Saat geri gitse bile tekrar olmaz.
func (r *kvEmployeeRepo) nextID(ctx context.Context, employees []models.Employee) (int64, error) {
	var last int64

	raw, ok, err := r.store.Get(ctx, KeyEmployeesLastID)
	if err != nil {
		return 0, fmt.Errorf("failed to read last employee id: %w", err)
	}
	if ok {
		last, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("corrupt %s value %q: %w", KeyEmployeesLastID, raw, err)
		}
	}

	// İşaret yazılmadan önce oluşmuş kayıtlar için
	for _, e := range employees {
		if e.ID > last {
			last = e.ID
		}
	}

	id := r.now().UnixMilli()
	if id <= last {
		id = last + 1
	}
	return id, nil
}

func (r *kvEmployeeRepo) load(ctx context.Context) ([]models.Employee, error) {
	raw, ok, err := r.store.Get(ctx, KeyEmployees)
	if err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}
	if !ok || raw == "" {
		return []models.Employee{}, nil
	}

	var employees []models.Employee
	if err := json.Unmarshal([]byte(raw), &employees); err != nil {
		return nil, fmt.Errorf("failed to decode employees: %w", err)
	}
	if employees == nil {
		employees = []models.Employee{}
	}
	return employees, nil
}

func (r *kvEmployeeRepo) save(ctx context.Context, employees []models.Employee) error {
	data, err := json.Marshal(employees)
	if err != nil {
		return fmt.Errorf("failed to encode employees: %w", err)
	}
	if err := r.store.Set(ctx, KeyEmployees, string(data)); err != nil {
		return fmt.Errorf("failed to write employees: %w", err)
	}
	return nil
}

func indexOf(employees []models.Employee, id int64) int {
	for i := range employees {
		if employees[i].ID == id {
			return i
		}
	}
	return -1
}
