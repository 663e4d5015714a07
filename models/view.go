package models

// ViewMode, listenin nasıl gösterildiği: tablo satırları veya kart ızgarası.
// Sayfa boyutu görünüm moduna göre belirlenir.
type ViewMode string

const (
	ViewModeList ViewMode = "list"
	ViewModeCard ViewMode = "card"
)

// ParseViewMode, query/tercih değerini ViewMode'a çevirir.
// Eski istemcilerin gönderdiği "table" değeri kart görünümü demektir.
func ParseViewMode(s string) (ViewMode, bool) {
	switch s {
	case "list":
		return ViewModeList, true
	case "card", "table":
		return ViewModeCard, true
	}
	return "", false
}

// EmployeePage, filtrelenmiş ve sayfalanmış liste görünümü.
type EmployeePage struct {
	Items     []Employee `json:"items"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
	PageCount int        `json:"page_count"`
	Query     string     `json:"query"`
	ViewMode  ViewMode   `json:"view_mode"`
}
