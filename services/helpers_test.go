package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg/i18n"
	"github.com/akinalp/personel/repository"
	"github.com/akinalp/personel/ws"
)

// recordingHub, broadcast edilen event'leri kaydeden EventPublisher.
type recordingHub struct {
	mu     sync.Mutex
	events []ws.Event
}

func (h *recordingHub) BroadcastToAll(event ws.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func (h *recordingHub) BroadcastToSession(_ string, event ws.Event) {
	h.BroadcastToAll(event)
}

func (h *recordingHub) ConnectionCount() int { return 0 }

func (h *recordingHub) ops() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	ops := make([]string, len(h.events))
	for i, e := range h.events {
		ops[i] = e.Op
	}
	return ops
}

var testSizes = PageSizes{List: 12, Card: 15}

type fixture struct {
	store     repository.KeyValueStore
	repo      repository.EmployeeRepository
	hub       *recordingHub
	employees EmployeeService
	localizer *i18n.Localizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := i18n.LoadEmbedded()
	require.NoError(t, err)

	store := repository.NewMemoryKeyValueStore()
	repo := repository.NewKVEmployeeRepo(store)
	hub := &recordingHub{}

	return &fixture{
		store:     store,
		repo:      repo,
		hub:       hub,
		employees: NewEmployeeService(repo, hub, testSizes),
		localizer: catalog.NewLocalizer("en"),
	}
}

func validForm(first, last string) models.EmployeeForm {
	return models.EmployeeForm{
		FirstName:      first,
		LastName:       last,
		Email:          "someone@example.com",
		Phone:          "5551234567",
		Department:     "Tech",
		Position:       "Senior",
		EmploymentDate: "2020-01-15",
		DateOfBirth:    "1990-12-10",
	}
}

// addN, n çalışan ekler ve ID'lerini ekleme sırasıyla döner.
func (f *fixture) addN(t *testing.T, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		e, errs, err := f.employees.Create(context.Background(), validForm("Person", string(rune('A'+i%26))), f.localizer)
		require.NoError(t, err)
		require.Empty(t, errs)
		ids = append(ids, e.ID)
	}
	return ids
}

// addWithID, belirli bir ID ile kayıt ekler (senaryo testleri için).
func (f *fixture) addWithID(t *testing.T, id int64, first string) {
	t.Helper()
	ctx := context.Background()

	all, err := f.repo.GetAll(ctx)
	require.NoError(t, err)
	e, err := validForm(first, "Test").ToEmployee(id)
	require.NoError(t, err)
	all = append(all, e)

	data, err := jsonMarshal(all)
	require.NoError(t, err)
	require.NoError(t, f.store.Set(ctx, repository.KeyEmployees, data))
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatal("no notification")
		return ""
	}
}

func jsonMarshal(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}
