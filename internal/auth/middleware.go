package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"near2door-tracker/internal/domain"
	"near2door-tracker/internal/session"
)

type identityKey struct{}

// WithIdentity stores the caller in ctx.
func WithIdentity(ctx context.Context, who domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, who)
}

// IdentityFrom returns the caller stored by the middleware.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	who, ok := ctx.Value(identityKey{}).(domain.Identity)
	return who, ok
}

// Middleware rejects requests without a valid token. Browsers cannot set
// headers on WebSocket upgrades, so access_token in the query is accepted too.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			raw = r.URL.Query().Get("access_token")
		}
		who, err := m.Parse(raw)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("WWW-Authenticate", `Bearer realm="near2door"`)
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}

		ctx := WithIdentity(r.Context(), who)
		ctx = session.WithToken(ctx, stripBearer(raw))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func stripBearer(raw string) string {
	if len(raw) > 7 && raw[:7] == "Bearer " {
		return raw[7:]
	}
	return raw
}
