package middleware

import (
	"net/http"
	"strings"

	"github.com/pkordes/tripplanner/internal/apierror"
	"github.com/pkordes/tripplanner/internal/auth"
	"github.com/pkordes/tripplanner/internal/domain"
)

// TokenVerifier turns a bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(token string) (domain.Identity, error)
}

// Authenticate attaches the bearer token's identity to the request context.
// Requests without a token continue as anonymous; an invalid token is 401.
func Authenticate(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := v.Verify(token)
			if err != nil {
				apierror.Write(w, http.StatusUnauthorized,
					apierror.New(apierror.CodeUnauthenticated, "invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireIdentity rejects anonymous requests with 401.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.IdentityFrom(r.Context()).Anonymous() {
			w.Header().Set("WWW-Authenticate", "Bearer")
			apierror.Write(w, http.StatusUnauthorized,
				apierror.New(apierror.CodeUnauthenticated, "sign in to manage saved trips"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
