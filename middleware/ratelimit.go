package middleware

import (
	"log"
	"net/http"
	"strconv"

	"github.com/akinalp/personel/pkg"
	"github.com/akinalp/personel/pkg/i18n"
	"github.com/akinalp/personel/pkg/ratelimit"
)

// LocalizerSource, 429 mesajını şu anki dilde üretmek için.
// services.LanguageService bunu karşılar.
type LocalizerSource interface {
	Localizer() *i18n.Localizer
}

// WriteLimiter, store'u değiştiren isteklere (POST/PUT/PATCH/DELETE) IP bazlı
// limit uygular. GET/HEAD/OPTIONS serbesttir.
//
// Mux'ın tamamına değil, sadece mutasyon route'larına sarılır (init_routes.go):
// ekran gezinmesi (arama, sayfa, seçim) limite takılmaz.
type WriteLimiter struct {
	limiter    *ratelimit.Limiter
	lang       LocalizerSource
	trustProxy bool
}

// NewWriteLimiter, constructor. limiter nil ise middleware devre dışıdır.
// trustProxy: client IP'si X-Forwarded-For / X-Real-IP'den okunsun mu.
func NewWriteLimiter(limiter *ratelimit.Limiter, lang LocalizerSource, trustProxy bool) *WriteLimiter {
	return &WriteLimiter{limiter: limiter, lang: lang, trustProxy: trustProxy}
}

func (l *WriteLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limiter == nil || !isWrite(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		ip := ratelimit.ExtractIP(r, l.trustProxy)
		if !l.limiter.Allow(ip) {
			retryAfter := l.limiter.RetryAfterSeconds(ip)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			log.Printf("[http] write rate limit hit for %s, retry in %s", ip, ratelimit.FormatRetryMessage(retryAfter))

			msg := l.lang.Localizer().TWithParams("errors.tooManyRequests",
				map[string]string{"seconds": strconv.Itoa(retryAfter)})
			pkg.ErrorWithMessage(w, http.StatusTooManyRequests, msg)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
