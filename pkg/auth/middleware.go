package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const operatorIDKey contextKey = "operator_id"

// OperatorIDFromContext returns the authenticated operator id, if any.
func OperatorIDFromContext(ctx context.Context) (int64, bool) {
	v, ok := ctx.Value(operatorIDKey).(int64)
	return v, ok
}

// WithOperatorID stores the operator id in the context.
func WithOperatorID(ctx context.Context, operatorID int64) context.Context {
	return context.WithValue(ctx, operatorIDKey, operatorID)
}

// RequireAuth verifies the session cookie and stores the operator id in the
// request context. Unauthenticated requests get a 401 and never reach the
// wrapped handler, so they cannot mutate anything.
func RequireAuth(sessionSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName())
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}

			operatorID, err := VerifySessionToken(cookie.Value, sessionSecret)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_session"})
				return
			}

			ctx := WithOperatorID(r.Context(), operatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DevOperatorID is the dummy operator id used when AUTH_REQUIRED=false.
const DevOperatorID int64 = 1

// DevAuth is the local-development middleware: it injects a dummy admin
// operator instead of checking a session.
func DevAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithOperatorID(r.Context(), DevOperatorID)
		ctx = WithIsAdmin(ctx, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
