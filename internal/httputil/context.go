package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	accountIDKey contextKey = "accountID"
	sessionIDKey contextKey = "sessionID"
)

// WithAccountID adds the verified account ID to the request context
func WithAccountID(r *http.Request, accountID string) *http.Request {
	ctx := context.WithValue(r.Context(), accountIDKey, accountID)
	return r.WithContext(ctx)
}

// AccountIDFromContext retrieves the account ID, or empty string when
// the request is not authenticated.
func AccountIDFromContext(ctx context.Context) string {
	accountID, _ := ctx.Value(accountIDKey).(string)
	return accountID
}

// WithSessionID adds the anonymous session ID to the request context
func WithSessionID(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
	return r.WithContext(ctx)
}

// SessionIDFromContext retrieves the session ID, or empty string when
// none was established.
func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionIDKey).(string)
	return sessionID
}
