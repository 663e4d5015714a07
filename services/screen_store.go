package services

import (
	"log"
	"time"

	"github.com/akinalp/personel/pkg/cache"
)

// Screens, bir oturumun geçici ekran durumları. Kalıcı değildir.
type Screens struct {
	List *ListScreen
	Form *FormScreen
}

// ScreenStore, oturum ID → Screens. Sessiz kalan oturumların durumu TTL ile düşer.
type ScreenStore struct {
	employees EmployeeService
	viewModes ViewModeService
	cache     *cache.TTLCache[string, *Screens]
}

// NewScreenStore, constructor. ttl oturumun hareketsiz kalabileceği süredir.
func NewScreenStore(employees EmployeeService, viewModes ViewModeService, ttl time.Duration) *ScreenStore {
	c := cache.New[string, *Screens](ttl, cleanupInterval(ttl))
	c.OnEvict(func(sessionID string, _ *Screens) {
		log.Printf("[session] view state expired: %s", sessionID)
	})

	return &ScreenStore{
		employees: employees,
		viewModes: viewModes,
		cache:     c,
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Second)
}

// For, oturumun ekranlarını döner; yoksa kalıcı görünüm modu tercihiyle oluşturur.
func (s *ScreenStore) For(sessionID string) *Screens {
	return s.cache.GetOrCreate(sessionID, func() *Screens {
		return &Screens{
			List: NewListScreen(s.employees, s.viewModes.Current()),
			Form: NewFormScreen(s.employees),
		}
	})
}

// Reset, oturumun ekran durumunu atar (ekrandan ayrılma).
func (s *ScreenStore) Reset(sessionID string) {
	s.cache.Delete(sessionID)
}

// Close, arka plan temizleyicisini durdurur.
func (s *ScreenStore) Close() {
	s.cache.Close()
}

// ListFor ve FormFor, handler'lar için kısayollar.
func (s *ScreenStore) ListFor(sessionID string) *ListScreen { return s.For(sessionID).List }

func (s *ScreenStore) FormFor(sessionID string) *FormScreen { return s.For(sessionID).Form }

