package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SameOrigin は別オリジンからの書き込みリクエストを拒否する。
// 送信元は Origin、無ければ Referer で判定する
func SameOrigin(allowedOrigins []string) mux.MiddlewareFunc {
	allowed := originSet(allowedOrigins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			source := r.Header.Get("Origin")
			if source == "" {
				source = r.Referer()
			}
			// ブラウザ以外のクライアントはどちらも送らない
			if source == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !trusted(source, r.Host, allowed) {
				zap.L().Warn("Rejected cross-origin request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("origin", source))
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AllowOrigin は CORS で許可するオリジンの判定関数を返す。空なら別オリジンは全て拒否
func AllowOrigin(allowedOrigins []string) func(origin string) bool {
	allowed := originSet(allowedOrigins)
	return func(origin string) bool {
		_, ok := allowed[normalizeOrigin(origin)]
		return ok
	}
}

func originSet(origins []string) map[string]struct{} {
	set := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		set[normalizeOrigin(o)] = struct{}{}
	}
	return set
}

func normalizeOrigin(origin string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func trusted(source, host string, allowed map[string]struct{}) bool {
	u, err := url.Parse(source)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, host) {
		return true
	}
	_, ok := allowed[normalizeOrigin(u.Scheme+"://"+u.Host)]
	return ok
}
