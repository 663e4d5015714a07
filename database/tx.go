package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier, hem *sql.DB hem *sql.Tx tarafından karşılanan interface.
//
// Repository'ler bunu dependency olarak alır: normal operasyonlarda *sql.DB,
// transaction içinde *sql.Tx geçilir.
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx, fn'i tek bir transaction içinde çalıştırır; Migrate her migration
// dosyasını bununla uygular. Dosyanın statement'ları ile schema_migrations
// kaydı birlikte commit edilir: yarım uygulanmış dosya kalmaz, başarısız
// dosya bir sonraki açılışta baştan denenir.
//
// fn'e *sql.Tx yerine TxQuerier verilir; execStatements gibi yardımcılar
// transaction dışında da aynı imzayla çağrılabilir. label hata mesajlarını
// hangi işin başarısız olduğuyla işaretler (ör: migration dosya adı).
//
// fn error dönerse veya panic atarsa ROLLBACK; panic rollback'ten sonra
// tekrar fırlatılır.
func WithTx(ctx context.Context, db *sql.DB, label string, fn func(q TxQuerier) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", label, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (%s: rollback also failed: %v)", err, label, rbErr)
			}
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("%s: failed to commit transaction: %w", label, commitErr)
		}
	}()

	return fn(tx)
}
