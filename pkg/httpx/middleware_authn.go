package httpx

import (
	"net/http"
	"strings"

	"github.com/triptab/triptab/pkg/jwtx"
	"github.com/triptab/triptab/pkg/slogx"
)

// BearerOrCookieToken extracts the raw access token from either the named
// http-only cookie or an Authorization: Bearer header. The cookie is the
// primary transport for the browser client; the header serves API callers.
func BearerOrCookieToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	return ""
}

// AuthnMiddleware verifies the session access token and injects the subject
// user id into the request context. Requests without a valid, unexpired
// access token are rejected as unauthenticated; there is no role model, so
// every failure here means "no session", never "forbidden".
func AuthnMiddleware(v jwtx.Verifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := BearerOrCookieToken(r, cookieName)
			if raw == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Debug("session token verify failed", "err", err)
				WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if err := jwtx.RequireType(claims, jwtx.TokenTypeAccess); err != nil {
				WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx = ContextWithUserID(ctx, claims.UserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
