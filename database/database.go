// Package database, SQLite bağlantısını ve migration sistemini yönetir.
//
// Uygulamanın tüm kalıcı state'i tek bir key-value tablosunda (kv_store) durur:
// "employees" → JSON dizi, "language" → dil kodu, "viewMode" → görünüm modu.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver, CGO gerekmez
)

// DB, veritabanı bağlantısını saran struct.
type DB struct {
	Conn *sql.DB
}

// New, SQLite dosyasını açar ve bekleyen migration'ları uygular.
//
// dbPath ":memory:" olabilir (testler). migrationsFS genelde
// fs.Sub(EmbeddedMigrations, "migrations") ile verilir.
func New(ctx context.Context, dbPath string, migrationsFS fs.FS) (*DB, error) {
	dsn := ":memory:"
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// WAL: okuma yazmayı bloklamaz. busy_timeout: SQLITE_BUSY yerine bekle.
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Tek yazar: read-modify-write döngüsü bağlantılar arasında bölünmesin.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn}

	applied, err := Migrate(ctx, conn, migrationsFS)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Printf("[database] connected (%s), %d migration(s) applied", dbPath, applied)
	return db, nil
}

// Close, veritabanı bağlantısını kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}
