// Package main: Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve hub'ı
// constructor injection ile alır.
//
// Sıralama: EmployeeService ve ViewModeService, ScreenStore'dan ÖNCE.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/akinalp/personel/config"
	"github.com/akinalp/personel/models"
	"github.com/akinalp/personel/pkg/i18n"
	"github.com/akinalp/personel/pkg/ratelimit"
	"github.com/akinalp/personel/services"
	"github.com/akinalp/personel/ws"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Employee services.EmployeeService
	Language services.LanguageService
	ViewMode services.ViewModeService
	Screens  *services.ScreenStore
}

// initServices, service'leri ve yazma rate limiter'ını oluşturur.
func initServices(repos *Repositories, hub ws.EventPublisher, catalog *i18n.Catalog, cfg *config.Config) (*Services, *ratelimit.Limiter) {
	sizes := services.PageSizes{
		List: cfg.Roster.ListPageSize,
		Card: cfg.Roster.CardPageSize,
	}

	defaultMode, ok := models.ParseViewMode(cfg.Roster.DefaultViewMode)
	if !ok {
		log.Printf("[main] warning: unknown DEFAULT_VIEW_MODE %q, using list", cfg.Roster.DefaultViewMode)
		defaultMode = models.ViewModeList
	}

	employeeService := services.NewEmployeeService(repos.Employee, hub, sizes)
	languageService := services.NewLanguageService(catalog, repos.Preference, hub, cfg.Roster.DefaultLanguage)
	viewModeService := services.NewViewModeService(repos.Preference, hub, sizes, defaultMode)
	screens := services.NewScreenStore(
		employeeService, viewModeService,
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
	)

	writeLimiter := ratelimit.New(
		cfg.RateLimit.MaxWrites,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
	)

	return &Services{
		Employee: employeeService,
		Language: languageService,
		ViewMode: viewModeService,
		Screens:  screens,
	}, writeLimiter
}

// restoreState, kalıcı tercihleri yükler ve varsa seed dosyasını içe aktarır.
// Hiçbiri fatal değildir: tercih okunamazsa varsayılanlarla devam edilir.
func restoreState(ctx context.Context, svcs *Services, seedPath string) {
	if err := svcs.Language.Restore(ctx); err != nil {
		log.Printf("[main] warning: failed to restore language: %v", err)
	}
	if err := svcs.ViewMode.Restore(ctx); err != nil {
		log.Printf("[main] warning: failed to restore view mode: %v", err)
	}

	if seedPath == "" {
		return
	}

	f, err := os.Open(seedPath)
	if err != nil {
		log.Printf("[main] warning: failed to open seed file %s: %v", seedPath, err)
		return
	}
	defer f.Close()

	n, err := svcs.Employee.Seed(ctx, f)
	if err != nil {
		log.Printf("[main] warning: seed failed: %v", err)
		return
	}
	log.Printf("[main] seeded %d employee(s) from %s", n, seedPath)
}
