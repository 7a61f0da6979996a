package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"voxpop/internal/auth"
	"voxpop/internal/httputil"
)

// Identity establishes the requesting principal for every request.
//
// A valid Bearer token marks the request as account-authenticated. In
// all other cases the visitor gets a stable anonymous session ID, read
// from the session cookie (or X-Session-ID header for non-browser
// clients) and minted on first contact. Identity establishment never
// rejects a request; endpoints that need an account enforce that
// themselves.
func Identity(verifier auth.JWTVerifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				token := strings.TrimPrefix(header, "Bearer ")
				if claims, err := verifier.VerifyToken(token); err == nil {
					r = httputil.WithAccountID(r, claims.GetAccountID())
				}
			}

			sessionID := r.Header.Get("X-Session-ID")
			if sessionID == "" {
				if cookie, err := r.Cookie(cookieName); err == nil {
					sessionID = cookie.Value
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			r = httputil.WithSessionID(r, sessionID)

			next.ServeHTTP(w, r)
		})
	}
}
