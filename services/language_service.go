package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/pkg/i18n"
	"github.com/akinalp/personel/repository"
	"github.com/akinalp/personel/ws"
)

// LanguageService, uygulama genelindeki "şu anki dil" bağlamı.
//
// Global değişken yerine bu servis dependency olarak geçilir.
// Dil değişikliği iki kanaldan duyurulur: Subscribe ile alınan Go channel'ları
// (process içi dinleyiciler) ve WebSocket language_change event'i (istemciler).
type LanguageService interface {
	Current() string
	// Localizer, şu anki dil için çevirici döner.
	Localizer() *i18n.Localizer
	// Set, dili değiştirir. Desteklenmeyen dilde pkg.ErrUnsupportedLanguage döner
	// ve mevcut dil değişmez.
	Set(ctx context.Context, lang string) error
	// Subscribe, her dil değişikliğinde yeni dil kodunu alan bir channel döner.
	// Yavaş dinleyici ara değerleri kaçırabilir; son değer her zaman iletilir.
	// Dönen fonksiyon aboneliği bitirir ve channel'ı kapatır.
	Subscribe() (<-chan string, func())
	// Restore, kalıcı dil tercihini yükler.
	Restore(ctx context.Context) error
}

type languageService struct {
	catalog *i18n.Catalog
	prefs   repository.PreferenceRepository
	hub     ws.EventPublisher

	mu          sync.RWMutex
	current     string
	subscribers map[int]chan string
	nextSubID   int
}

// NewLanguageService, constructor. defaultLang desteklenmiyorsa İngilizce kullanılır.
func NewLanguageService(
	catalog *i18n.Catalog,
	prefs repository.PreferenceRepository,
	hub ws.EventPublisher,
	defaultLang string,
) LanguageService {
	if !i18n.IsSupported(defaultLang) {
		log.Printf("[language] warning: default language %q not supported, using %s", defaultLang, i18n.DefaultLanguage)
		defaultLang = i18n.DefaultLanguage
	}

	return &languageService{
		catalog:     catalog,
		prefs:       prefs,
		hub:         hub,
		current:     defaultLang,
		subscribers: make(map[int]chan string),
	}
}

func (s *languageService) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *languageService) Localizer() *i18n.Localizer {
	return s.catalog.NewLocalizer(s.Current())
}

func (s *languageService) Set(ctx context.Context, lang string) error {
	if !i18n.IsSupported(lang) {
		log.Printf("[language] warning: language %q not supported", lang)
		return fmt.Errorf("%w: %q", pkg.ErrUnsupportedLanguage, lang)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.prefs.SetLanguage(ctx, lang); err != nil {
		return err
	}
	if s.current == lang {
		return nil
	}
	s.current = lang

	for _, ch := range s.subscribers {
		notify(ch, lang)
	}
	s.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpLanguageChange,
		Data: ws.LanguageData{Language: lang},
	})

	log.Printf("[language] switched to %s", lang)
	return nil
}

// notify, buffer'lı (1) channel'a bloklamadan yazar; dolu ise eski değeri atar.
// Sadece s.mu Lock altında çağrılır, yani tek yazar vardır.
func notify(ch chan string, lang string) {
	select {
	case ch <- lang:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- lang:
	default:
	}
}

func (s *languageService) Subscribe() (<-chan string, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan string, 1)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
}

func (s *languageService) Restore(ctx context.Context) error {
	lang, ok, err := s.prefs.GetLanguage(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !i18n.IsSupported(lang) {
		log.Printf("[language] warning: stored language %q not supported, keeping %s", lang, s.Current())
		return nil
	}

	s.mu.Lock()
	s.current = lang
	s.mu.Unlock()
	return nil
}
