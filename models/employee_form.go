package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors, alan adı → yerelleştirilmiş hata mesajı.
// Anahtarın yokluğu alanın geçerli olduğu anlamına gelir.
type FieldErrors map[string]string

// OK, hiç hata yoksa true döner.
func (f FieldErrors) OK() bool {
	return len(f) == 0
}

// Translator, Validate'in mesajları çevirmek için ihtiyaç duyduğu tek metod.
// *i18n.Localizer bunu karşılar.
type Translator interface {
	T(key string) string
}

// EmployeeForm, ekleme/düzenleme formundan gelen ham aday kayıt.
// Tüm alanlar string, doğrulamadan önce tip dönüşümü yapılmaz.
// Telefon alanının form anahtarı "phone", kayıttaki karşılığı "phoneNumber".
type EmployeeForm struct {
	FirstName      string `json:"firstName" form:"firstName" validate:"required"`
	LastName       string `json:"lastName" form:"lastName" validate:"required"`
	Email          string `json:"email" form:"email" validate:"required,simple_email"`
	Phone          string `json:"phone" form:"phone" validate:"required,digits"`
	Department     string `json:"department" form:"department" validate:"required,oneof=Tech Analytics"`
	Position       string `json:"position" form:"position" validate:"required,oneof=Junior Medior Senior"`
	EmploymentDate string `json:"employmentDate" form:"employmentDate" validate:"required,datetime=2006-01-02"`
	DateOfBirth    string `json:"dateOfBirth" form:"dateOfBirth" validate:"required,datetime=2006-01-02"`
}

var (
	// İçinde boşluksuz bir local@domain.tld parçası olmalı. Anchor yok:
	// "a b@c.d" gibi değerler mevcut kayıtlarla uyumlu kalsın diye kabul edilir.
	emailPattern  = regexp.MustCompile(`\S+@\S+\.\S+`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Hata anahtarları Go alan adı yerine json adını kullansın.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "simple_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "digits", func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("models: register validation %q: %v", tag, err))
	}
}

// Normalized, baş/son boşlukları kırpılmış bir kopya döner.
func (f EmployeeForm) Normalized() EmployeeForm {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Department = strings.TrimSpace(f.Department)
	f.Position = strings.TrimSpace(f.Position)
	f.EmploymentDate = strings.TrimSpace(f.EmploymentDate)
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	return f
}

// Validate, tüm kuralları çalıştırır ve alan bazlı hata haritası döner.
//
// Her alan bağımsız kontrol edilir; bir alanın hatası diğerlerini atlatmaz.
// Saf fonksiyondur: form değişmez, aynı girdi aynı haritayı üretir.
func (f EmployeeForm) Validate(t Translator) FieldErrors {
	errs := FieldErrors{}

	err := validate.Struct(f.Normalized())
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// InvalidValidationError sadece nil/yanlış tip geçilince oluşur.
		panic(fmt.Sprintf("models: unexpected validation error: %v", err))
	}

	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = t.T(messageKey(field, fe.Tag()))
	}
	return errs
}

// messageKey, (alan, başarısız kural) çiftini çeviri anahtarına eşler.
// Enum dışı departman/pozisyon "zorunlu" mesajıyla raporlanır.
func messageKey(field, tag string) string {
	switch tag {
	case "simple_email":
		return "validation.invalidEmail"
	case "digits":
		return "validation.invalidPhone"
	case "datetime":
		return "validation.invalidDate"
	default:
		return "validation." + field + "Required"
	}
}

// ToEmployee, doğrulanmış formu id ile bir Employee'ye çevirir.
// Validate'ten geçmemiş formda tarih parse hatası dönebilir.
func (f EmployeeForm) ToEmployee(id int64) (Employee, error) {
	n := f.Normalized()

	dob, err := ParseDate(n.DateOfBirth)
	if err != nil {
		return Employee{}, fmt.Errorf("dateOfBirth: %w", err)
	}
	employed, err := ParseDate(n.EmploymentDate)
	if err != nil {
		return Employee{}, fmt.Errorf("employmentDate: %w", err)
	}

	return Employee{
		ID:             id,
		FirstName:      n.FirstName,
		LastName:       n.LastName,
		DateOfBirth:    dob,
		EmploymentDate: employed,
		PhoneNumber:    n.Phone,
		Email:          n.Email,
		Department:     Department(n.Department),
		Position:       Position(n.Position),
	}, nil
}

// FormFromEmployee, düzenleme ekranı için mevcut kaydı forma doldurur.
func FormFromEmployee(e Employee) EmployeeForm {
	return EmployeeForm{
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		Phone:          e.PhoneNumber,
		Department:     string(e.Department),
		Position:       string(e.Position),
		EmploymentDate: e.EmploymentDate.String(),
		DateOfBirth:    e.DateOfBirth.String(),
	}
}

// UnmarshalJSON, "phone" yerine "phoneNumber" gönderen istemcileri de kabul eder.
func (f *EmployeeForm) UnmarshalJSON(data []byte) error {
	type plain EmployeeForm
	aux := struct {
		*plain
		PhoneNumber string `json:"phoneNumber"`
	}{plain: (*plain)(f)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if f.Phone == "" {
		f.Phone = aux.PhoneNumber
	}
	return nil
}
