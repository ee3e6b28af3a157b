package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openinventory/inventory-admin/internal/auth"
	"github.com/openinventory/inventory-admin/internal/http/apierr"
)

// Auth authenticates the bearer token and stores the caller identity in the
// request context. Requests without a valid session are rejected before any
// handler runs.
func Auth(authn auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authn.Authenticate(r.Context(), bearerToken(r))
			if err != nil {
				res := apierr.New(err)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(res.StatusCode)
				//nolint:errcheck
				json.NewEncoder(w).Encode(res)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return ""
}
