package middleware

import (
	"log"
	"net/http"
	"time"
)

// Logging logs one line per request: request id, method, path, remote
// address, status, response size and duration. It runs after RequestID so
// the id is already in the context.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Printf(
			"[HTTP] rid=%s %s %s %s %d %dB %s",
			GetRequestID(r.Context()),
			r.Method,
			r.URL.Path,
			r.RemoteAddr,
			rec.status,
			rec.bytes,
			time.Since(start),
		)
	})
}

// statusRecorder captures the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(p)
	rec.bytes += n
	return n, err
}
