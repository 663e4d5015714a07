// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct, her struct tek bir concern'ü temsil eder.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Roster    RosterConfig
	RateLimit RateLimitConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/personel.db)
}

// SessionConfig, oturum cookie'si ayarları.
type SessionConfig struct {
	Secret     string // Cookie imzalama anahtarı, GİZLİ TUTULMALI
	TTLMinutes int    // Ekran state'inin boşta yaşam süresi
	Secure     bool   // HTTPS arkasında true: cookie Secure flag'i
}

// RosterConfig, çalışan listesi ekranının varsayılanları.
type RosterConfig struct {
	ListPageSize    int
	CardPageSize    int
	DefaultLanguage string
	DefaultViewMode string
	SeedPath        string // Opsiyonel: boş store'a yüklenecek JSON dosyası
}

// RateLimitConfig, yazma isteklerinin IP bazlı limiti.
type RateLimitConfig struct {
	MaxWrites     int
	WindowSeconds int
	TrustProxy    bool // Reverse proxy arkasında true: IP, X-Forwarded-For'dan okunur
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load() (*Config, error) {
	// .env dosyası yoksa hata vermez, sessizce devam eder.
	_ = godotenv.Load()

	port, err := getInt("SERVER_PORT", 9090)
	if err != nil {
		return nil, err
	}

	sessionTTL, err := getInt("SESSION_TTL_MINUTES", 30)
	if err != nil {
		return nil, err
	}

	listPageSize, err := getInt("LIST_PAGE_SIZE", 12)
	if err != nil {
		return nil, err
	}

	cardPageSize, err := getInt("CARD_PAGE_SIZE", 15)
	if err != nil {
		return nil, err
	}
	if listPageSize <= 0 || cardPageSize <= 0 {
		return nil, fmt.Errorf("page sizes must be positive (list=%d, card=%d)", listPageSize, cardPageSize)
	}

	maxWrites, err := getInt("WRITE_RATE_LIMIT", 30)
	if err != nil {
		return nil, err
	}

	window, err := getInt("WRITE_RATE_WINDOW_SECONDS", 60)
	if err != nil {
		return nil, err
	}

	secure, err := strconv.ParseBool(getEnv("SESSION_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_SECURE: %w", err)
	}

	trustProxy, err := strconv.ParseBool(getEnv("TRUST_PROXY_HEADERS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY_HEADERS: %w", err)
	}

	secret := getEnv("SESSION_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        port,
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/personel.db"),
		},
		Session: SessionConfig{
			Secret:     secret,
			TTLMinutes: sessionTTL,
			Secure:     secure,
		},
		Roster: RosterConfig{
			ListPageSize:    listPageSize,
			CardPageSize:    cardPageSize,
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
			DefaultViewMode: getEnv("DEFAULT_VIEW_MODE", "list"),
			SeedPath:        getEnv("SEED_PATH", ""),
		},
		RateLimit: RateLimitConfig{
			MaxWrites:     maxWrites,
			WindowSeconds: window,
			TrustProxy:    trustProxy,
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
