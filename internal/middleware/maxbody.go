package middleware

import "net/http"

// MaxBodySize caps request body reads at limit bytes. Reads past the limit
// fail inside the handler's decoder, which reports it as a bad request.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
