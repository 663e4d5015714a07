package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/repository"
	"github.com/akinalp/personel/ws"
)

// PageSizes, görünüm modu başına sayfa boyutu.
type PageSizes struct {
	List int
	Card int
}

// For, mod için sayfa boyutunu döner. Bilinmeyen mod liste boyutunu alır.
func (p PageSizes) For(mode models.ViewMode) int {
	if mode == models.ViewModeCard {
		return p.Card
	}
	return p.List
}

// ViewModeService, oturumlar arası kalıcı görünüm modu tercihi.
type ViewModeService interface {
	Current() models.ViewMode
	// Set, modu kalıcı yazar ve view_mode_change yayınlar.
	Set(ctx context.Context, mode models.ViewMode) error
	PageSize(mode models.ViewMode) int
	// Restore, kayıtlı tercihi yükler; yoksa varsayılan kalır.
	Restore(ctx context.Context) error
}

type viewModeService struct {
	prefs repository.PreferenceRepository
	hub   ws.EventPublisher
	sizes PageSizes

	mu      sync.RWMutex
	current models.ViewMode
}

// NewViewModeService, constructor.
func NewViewModeService(
	prefs repository.PreferenceRepository,
	hub ws.EventPublisher,
	sizes PageSizes,
	defaultMode models.ViewMode,
) ViewModeService {
	return &viewModeService{
		prefs:   prefs,
		hub:     hub,
		sizes:   sizes,
		current: defaultMode,
	}
}

func (s *viewModeService) Current() models.ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *viewModeService) PageSize(mode models.ViewMode) int {
	return s.sizes.For(mode)
}

func (s *viewModeService) Set(ctx context.Context, mode models.ViewMode) error {
	parsed, ok := models.ParseViewMode(string(mode))
	if !ok {
		return fmt.Errorf("%w: unknown view mode %q", pkg.ErrBadRequest, mode)
	}
	mode = parsed

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.prefs.SetViewMode(ctx, string(mode)); err != nil {
		return err
	}
	s.current = mode

	s.hub.BroadcastToAll(ws.Event{
		Op:   ws.OpViewModeChange,
		Data: ws.ViewModeData{ViewMode: mode, PageSize: s.sizes.For(mode)},
	})
	return nil
}

func (s *viewModeService) Restore(ctx context.Context) error {
	raw, ok, err := s.prefs.GetViewMode(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	mode, valid := models.ParseViewMode(raw)
	if !valid {
		log.Printf("[viewmode] warning: ignoring stored view mode %q", raw)
		return nil
	}

	s.mu.Lock()
	s.current = mode
	s.mu.Unlock()
	return nil
}
