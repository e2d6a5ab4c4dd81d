package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/tripplanner/internal/auth"
	"github.com/pkordes/tripplanner/internal/domain"
	"github.com/pkordes/tripplanner/internal/middleware"
)

// mockVerifier accepts "good" and rejects everything else.
type mockVerifier struct {
	id domain.Identity
}

func (m mockVerifier) Verify(token string) (domain.Identity, error) {
	if token != "good" {
		return domain.Identity{}, errors.New("bad token")
	}
	return m.id, nil
}

var _ middleware.TokenVerifier = mockVerifier{}

// identityEcho writes the caller's email, or "anonymous".
var identityEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	if id.Anonymous() {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(id.Email))
})

func TestAuthenticate(t *testing.T) {
	v := mockVerifier{id: domain.Identity{UserID: uuid.New(), Email: "me@example.com"}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header is anonymous", "", http.StatusOK, "anonymous"},
		{"valid token", "Bearer good", http.StatusOK, "me@example.com"},
		{"scheme is case-insensitive", "bearer good", http.StatusOK, "me@example.com"},
		{"other scheme is anonymous", "Basic Zm9vOmJhcg==", http.StatusOK, "anonymous"},
		{"invalid token", "Bearer bad", http.StatusUnauthorized, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := middleware.Authenticate(v)(identityEcho)
			req := httptest.NewRequest(http.MethodGet, "/trips", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), "unauthenticated")
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	h := middleware.RequireIdentity(identityEcho)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), domain.Identity{UserID: uuid.New(), Email: "me@example.com"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
