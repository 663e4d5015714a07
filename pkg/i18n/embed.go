package i18n

import "embed"

// EmbeddedLocales, locales/ dizinindeki JSON dosyalarını binary'ye gömer.
//
//go:embed locales/*.json
var EmbeddedLocales embed.FS
