package repository

import "context"

// KeyValueStore, uygulama state'inin kalıcı olarak tutulduğu anahtar-değer deposu.
//
// Tüm bileşenler bu interface'i dependency olarak alır; production'da SQLite,
// testlerde bellek içi implementasyon verilir.
type KeyValueStore interface {
	// Get, anahtarın değerini döner. Anahtar yoksa ok=false, err=nil.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Delete, anahtarı siler; anahtarın olmaması hata değildir.
	Delete(ctx context.Context, key string) error
}
