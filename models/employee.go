package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Department, çalışanın bağlı olduğu departman.
type Department string

const (
	DepartmentTech      Department = "Tech"
	DepartmentAnalytics Department = "Analytics"
)

// Departments, form seçeneklerinin sırası.
var Departments = []Department{DepartmentTech, DepartmentAnalytics}

// IsValid, değerin tanımlı bir departman olup olmadığını kontrol eder.
func (d Department) IsValid() bool {
	return d == DepartmentTech || d == DepartmentAnalytics
}

// Position, çalışanın kıdem seviyesi.
type Position string

const (
	PositionJunior Position = "Junior"
	PositionMedior Position = "Medior"
	PositionSenior Position = "Senior"
)

// Positions, form seçeneklerinin sırası.
var Positions = []Position{PositionJunior, PositionMedior, PositionSenior}

// IsValid, değerin tanımlı bir pozisyon olup olmadığını kontrol eder.
func (p Position) IsValid() bool {
	switch p {
	case PositionJunior, PositionMedior, PositionSenior:
		return true
	}
	return false
}

// DateLayout, takvim tarihlerinin tel formatı (HTML date input ile aynı).
const DateLayout = "2006-01-02"

// Date, saat bilgisi olmayan takvim tarihi.
// JSON'da "YYYY-MM-DD" string olarak taşınır; sıfır değer "" olur.
type Date struct {
	time.Time
}

// ParseDate, "YYYY-MM-DD" formatındaki string'i Date'e çevirir.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String, tarihi DateLayout ile formatlar.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON/UnmarshalJSON, gömülü time.Time'ın RFC3339 davranışını gölgeler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Employee, store'daki tek bir çalışan kaydı.
//
// ID oluşturma anında atanır ve bir daha değişmez; silinen bir kaydın
// ID'si yeni kayda verilmez. Diğer tüm alanlar kullanıcı tarafından düzenlenebilir.
type Employee struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	DateOfBirth    Date       `json:"dateOfBirth"`
	EmploymentDate Date       `json:"employmentDate"`
	PhoneNumber    string     `json:"phoneNumber"`
	Email          string     `json:"email"`
	Department     Department `json:"department"`
	Position       Position   `json:"position"`
}

// FullName, "Ad Soyad" döner (bildirim mesajları için).
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// SearchText, arama filtresinin eşleştiği metin:
// ad, soyad, departman ve pozisyonun boşlukla birleşimi.
func (e Employee) SearchText() string {
	return e.FirstName + " " + e.LastName + " " + string(e.Department) + " " + string(e.Position)
}

// UnmarshalJSON, eski kayıtlarda telefonun "phone" anahtarıyla yazılmış
// olmasını tolere eder; "phoneNumber" varsa o kazanır.
func (e *Employee) UnmarshalJSON(data []byte) error {
	type plain Employee
	aux := struct {
		*plain
		Phone string `json:"phone"`
	}{plain: (*plain)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if e.PhoneNumber == "" {
		e.PhoneNumber = aux.Phone
	}
	return nil
}
