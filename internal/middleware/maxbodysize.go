package middleware

import (
	"net/http"

	"github.com/pkordes/tripplanner/internal/apierror"
)

// NewMaxBodySizeHandler limits request bodies to limit bytes. A declared
// Content-Length over the limit is rejected with 413 before the next handler
// runs; otherwise the body is wrapped so reads past the limit fail.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				apierror.Write(w, http.StatusRequestEntityTooLarge,
					apierror.New(apierror.CodeTooLarge, "request body is too large"))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
