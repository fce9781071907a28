package shield

import "net/http"

// HeadToGet lets GET routes (/health, /metrics) answer HEAD probes instead
// of 405. net/http strips the body of HEAD responses.
func HeadToGet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			r.Method = http.MethodGet
		}
		next.ServeHTTP(w, r)
	})
}
