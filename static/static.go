// Package static, frontend build çıktısını binary'ye gömer.
//
// Build sırasında frontend dist/ içeriği static/dist/ dizinine kopyalanır,
// ardından Go derleyicisi bu dosyaları binary'ye gömer.
//
// Development modunda dist/ içi boş olabilir (.gitkeep),
// bu durumda frontend kendi dev server'ından gelir.
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// FrontendFS, dist/ dizinindeki frontend build dosyalarını içerir.
// "all:" prefix'i .gitkeep gibi nokta ile başlayan dosyaları da dahil eder.
//
//go:embed all:dist
var FrontendFS embed.FS

// Dist, FrontendFS'in dist/ alt dizini.
func Dist() (fs.FS, error) {
	return fs.Sub(FrontendFS, "dist")
}

// HasIndex, build çıktısının gömülüp gömülmediğini söyler.
func HasIndex(fsys fs.FS) bool {
	_, err := fs.Stat(fsys, "index.html")
	return err == nil
}

// SPAHandler, var olan dosyaları servis eder; bilinmeyen path'lerde index.html
// döner (client-side routing: /employees/42/edit gibi).
// /api/ ve /ws altı buraya hiç düşmemeli; düşerse 404.
func SPAHandler(fsys fs.FS) http.Handler {
	files := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") || r.URL.Path == "/ws" {
			http.NotFound(w, r)
			return
		}

		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name != "" {
			if info, err := fs.Stat(fsys, name); err == nil && !info.IsDir() {
				// Vite asset'leri hash'li isimlidir
				if strings.HasPrefix(name, "assets/") {
					w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
				}
				files.ServeHTTP(w, r)
				return
			}
		}

		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, r, fsys, "index.html")
	})
}
