package repository

import (
	"context"
	"fmt"
)

// Tercih anahtarları, oturumlar arası kalıcıdır.
const (
	KeyLanguage = "language"
	KeyViewMode = "viewMode"
)

// PreferenceRepository, dil ve görünüm modu tercihlerini saklar.
// Değer hiç yazılmamışsa ok=false döner.
type PreferenceRepository interface {
	GetLanguage(ctx context.Context) (lang string, ok bool, err error)
	SetLanguage(ctx context.Context, lang string) error
	GetViewMode(ctx context.Context) (mode string, ok bool, err error)
	SetViewMode(ctx context.Context, mode string) error
}

type kvPreferenceRepo struct {
	store KeyValueStore
}

// NewKVPreferenceRepo, constructor, interface döner.
func NewKVPreferenceRepo(store KeyValueStore) PreferenceRepository {
	return &kvPreferenceRepo{store: store}
}

func (r *kvPreferenceRepo) GetLanguage(ctx context.Context) (string, bool, error) {
	return r.get(ctx, KeyLanguage)
}

func (r *kvPreferenceRepo) SetLanguage(ctx context.Context, lang string) error {
	return r.set(ctx, KeyLanguage, lang)
}

func (r *kvPreferenceRepo) GetViewMode(ctx context.Context) (string, bool, error) {
	return r.get(ctx, KeyViewMode)
}

func (r *kvPreferenceRepo) SetViewMode(ctx context.Context, mode string) error {
	return r.set(ctx, KeyViewMode, mode)
}

func (r *kvPreferenceRepo) get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return v, ok && v != "", nil
}

func (r *kvPreferenceRepo) set(ctx context.Context, key, value string) error {
	if err := r.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to write preference %s: %w", key, err)
	}
	return nil
}
