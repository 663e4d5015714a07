package services

import (
	"slices"
	"strings"

	"github.com/akinalp/personel/models"
)

// FilterEmployees, query'yi "ad soyad departman pozisyon" metninde
// büyük/küçük harf duyarsız arar. Sıra korunur, sıralama (ranking) yoktur.
//
// Boş query girdiyi olduğu gibi döner (kopya değil, aynı slice).
func FilterEmployees(employees []models.Employee, query string) []models.Employee {
	if query == "" {
		return employees
	}

	needle := strings.ToLower(query)
	filtered := make([]models.Employee, 0, len(employees))
	for _, e := range employees {
		if strings.Contains(strings.ToLower(e.SearchText()), needle) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Paginate, 1 tabanlı page için [(page-1)*size, page*size) aralığını döner.
// Aralık dışı sayfa boş slice döner, hata değildir.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}

	// Çarpmadan önce sayfa sayısıyla karşılaştır: çok büyük page taşmasın.
	if page > PageCount(len(items), size) || len(items) == 0 {
		return []T{}
	}

	start := (page - 1) * size
	end := start + min(size, len(items)-start)
	return items[start:end]
}

// PageCount, ceil(total/size); en az 1.
func PageCount(total, size int) int {
	if size < 1 || total <= 0 {
		return 1
	}
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return pages
}

// Selection, "seçili" işaretlenmiş çalışan ID'leri kümesi.
// Sayfaya bağlı değildir ve kalıcı değildir. Sıfır değeri kullanıma hazırdır.
type Selection struct {
	ids map[int64]struct{}
}

// Toggle, id seçili değilse ekler, seçiliyse çıkarır. Yeni durumu döner.
func (s *Selection) Toggle(id int64) bool {
	if s.ids == nil {
		s.ids = make(map[int64]struct{})
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Has, id seçili mi.
func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Remove, silinen kayıtlar için.
func (s *Selection) Remove(id int64) {
	delete(s.ids, id)
}

// IDs, seçili ID'leri artan sırada döner.
func (s *Selection) IDs() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *Selection) Len() int {
	return len(s.ids)
}
