package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
)

const requestHeadersHeader = "Access-Control-Request-Headers"

// CORS allows every origin on every route, answering preflight requests
// before they reach the router. Preflights may ask for any request header;
// the requested ones are allowed back.
func CORS() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		static := corsHandler(next, nil)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested := requestedHeaders(r)
			if r.Method != http.MethodOptions || len(requested) == 0 {
				static.ServeHTTP(w, r)
				return
			}
			corsHandler(next, requested).ServeHTTP(w, r)
		})
	}
}

func corsHandler(next http.Handler, extraHeaders []string) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders(append([]string{"Content-Type", "X-Requested-With", "Authorization"}, extraHeaders...)),
	)(next)
}

func requestedHeaders(r *http.Request) []string {
	var out []string
	for _, value := range r.Header.Values(requestHeadersHeader) {
		for _, h := range strings.Split(value, ",") {
			if h = strings.TrimSpace(h); h != "" {
				out = append(out, h)
			}
		}
	}
	return out
}
