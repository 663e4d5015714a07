// Package i18n, UI metinleri için çoklu dil desteği sağlar (en, tr).
//
// Çeviri tabloları locales/*.json dosyalarından bir Catalog'a yüklenir.
// "Aktif dil" burada tutulmaz; services.LanguageService onu açıkça taşır
// ve her istek için bir Localizer üretir.
//
// Kullanım:
//
//	cat, _ := i18n.LoadEmbedded()
//	l := cat.NewLocalizer("tr")
//	l.T("validation.firstNameRequired") // → "Ad zorunludur"
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"slices"
	"strings"
)

// SupportedLanguages, desteklenen dil kodları.
var SupportedLanguages = []string{"en", "tr"}

// DefaultLanguage, varsayılan dil.
const DefaultLanguage = "en"

// Catalog, dil → (düz anahtar → metin) tablosu.
// Yüklendikten sonra sadece okunur, goroutine'ler arası paylaşılabilir.
type Catalog struct {
	tables map[string]map[string]string
}

// Load, her desteklenen dil için <lang>.json dosyasını localesFS'ten okur.
// Nested JSON düz anahtarlara çevrilir: {"form": {"yes": "..."}} → "form.yes".
func Load(localesFS fs.FS) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]map[string]string, len(SupportedLanguages))}

	for _, lang := range SupportedLanguages {
		fileName := lang + ".json"

		data, err := fs.ReadFile(localesFS, fileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read translation file %s: %w", fileName, err)
		}

		var nested map[string]any
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
		}

		flat := make(map[string]string)
		flattenMap("", nested, flat)
		c.tables[lang] = flat

		log.Printf("[i18n] loaded %d keys for language: %s", len(flat), lang)
	}

	return c, nil
}

// LoadEmbedded, binary'ye gömülü locales/ dizininden yükler.
func LoadEmbedded() (*Catalog, error) {
	sub, err := fs.Sub(EmbeddedLocales, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded locales: %w", err)
	}
	return Load(sub)
}

// Table, bir dilin tüm düz anahtarlarının kopyasını döner (frontend string tablosu).
// Desteklenmeyen dilde nil döner.
func (c *Catalog) Table(lang string) map[string]string {
	src, ok := c.tables[lang]
	if !ok {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Localizer, belirli bir dil için çeviri yapan struct.
type Localizer struct {
	catalog *Catalog
	lang    string
}

// NewLocalizer, belirli bir dil için Localizer oluşturur.
// Desteklenmeyen dil verilirse varsayılana düşer.
func (c *Catalog) NewLocalizer(lang string) *Localizer {
	if !IsSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{catalog: c, lang: lang}
}

// Lang, Localizer'ın dil kodunu döner.
func (l *Localizer) Lang() string {
	return l.lang
}

// T, çeviri anahtarına karşılık gelen metni döner.
// Anahtar bulunamazsa İngilizce'ye, orada da yoksa anahtarın kendisine düşer.
func (l *Localizer) T(key string) string {
	if l == nil || l.catalog == nil {
		return key
	}
	if msg, ok := l.catalog.tables[l.lang][key]; ok {
		return msg
	}
	if msg, ok := l.catalog.tables[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams, metindeki {{param}} yer tutucularını değerlerle değiştirir.
//
//	l.TWithParams("form.employeeAdded", map[string]string{"name": "Ali Veli"})
//	→ "Ali Veli eklendi"
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// DetectLanguage, Accept-Language header'ından en uygun dili belirler.
// Header formatı: "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		lang = strings.ToLower(strings.Split(lang, "-")[0])

		if IsSupported(lang) {
			return lang
		}
	}
	return DefaultLanguage
}

// IsSupported, dil kodunun desteklenip desteklenmediğini söyler.
func IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, lang)
}

// flattenMap, nested JSON'u "dot notation" key'lere dönüştürür.
func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
