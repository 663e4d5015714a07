// Package main, personel backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (gömülü migration'lar)
//  3. i18n çevirilerini yükle
//  4. Repository'leri oluştur
//  5. WebSocket Hub'ı başlat
//  6. Service'leri oluştur, kalıcı tercihleri geri yükle
//  7. Handler'ları ve route'ları kur
//  8. Middleware zinciri + CORS
//  9. HTTP Server'ı başlat, graceful shutdown
//
// Global değişken YOK, her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/akinalp/personel/config"
	"github.com/akinalp/personel/database"
	"github.com/akinalp/personel/middleware"
	"github.com/akinalp/personel/pkg/i18n"
	"github.com/akinalp/personel/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] personel server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	ctx := context.Background()

	// ─── 2. Database ───
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to open embedded migrations: %v", err)
	}
	db, err := database.New(ctx, cfg.Database.Path, migrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. i18n ───
	catalog, err := i18n.LoadEmbedded()
	if err != nil {
		log.Fatalf("[main] failed to load i18n translations: %v", err)
	}

	// ─── 4. Repository Layer ───
	repos := initRepositories(db.Conn)

	// ─── 5. WebSocket Hub ───
	hub := ws.NewHub()

	// ─── 6. Service Layer ───
	svcs, writeLimiter := initServices(repos, hub, catalog, cfg)
	restoreState(ctx, svcs, cfg.Roster.SeedPath)

	registerHubCallbacks(hub, svcs)
	go hub.Run()

	stopWatch := watchLanguage(svcs.Language)

	// ─── 7. Handlers & Routes ───
	sessions := middleware.NewSessionManager(
		cfg.Session.Secret,
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		cfg.Session.Secure,
	)
	h := initHandlers(svcs, db.Conn, hub, catalog, sessions, cfg)

	mux := http.NewServeMux()
	writes := middleware.NewWriteLimiter(writeLimiter, svcs.Language, cfg.RateLimit.TrustProxy)
	initRoutes(mux, h, writes)

	// ─── 8. Middleware + CORS ───
	// Sıra (dıştan içe): CORS → Logger → Session → mux (WriteLimiter route bazında)
	handler := middleware.Logger(sessions.Middleware(mux))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
	})

	// ─── 9. HTTP Server ───
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler.Handler(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Önce WebSocket bağlantıları, sonra HTTP server (5sn timeout).
	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] forced shutdown: %v", err)
	}

	stopWatch()
	svcs.Screens.Close()
	writeLimiter.Stop()

	log.Println("[main] server stopped gracefully")
}
