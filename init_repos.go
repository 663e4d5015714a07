// Package main: Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Kalıcı state tek bir key-value tablosunda durur; repository'ler bu
// store'un üstünde çalışan ince katmanlardır.
package main

import (
	"database/sql"

	"github.com/akinalp/personel/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	Store      repository.KeyValueStore
	Employee   repository.EmployeeRepository
	Preference repository.PreferenceRepository
}

// initRepositories, veritabanı bağlantısından repository'leri oluşturur.
// Employee ve Preference aynı store'u paylaşır.
func initRepositories(conn *sql.DB) *Repositories {
	store := repository.NewSQLiteKeyValueStore(conn)

	return &Repositories{
		Store:      store,
		Employee:   repository.NewKVEmployeeRepo(store),
		Preference: repository.NewKVPreferenceRepo(store),
	}
}
