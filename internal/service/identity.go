package service

import (
	"context"

	"github.com/google/uuid"
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/services"
	"voxpop/internal/httputil"
)

// identityResolver implements the IdentityResolver interface. It is a
// pure read of the request context markers established by the identity
// middleware.
type identityResolver struct{}

// NewIdentityResolver creates a new identity resolver
func NewIdentityResolver() services.IdentityResolver {
	return identityResolver{}
}

// Resolve returns the authenticated account identity when the request
// carries a verified account marker, otherwise the anonymous session
// identity. A fresh session ID is minted in the degenerate case where
// no session was established: anonymous identity is always
// constructible.
func (identityResolver) Resolve(ctx context.Context) models.Identity {
	if accountID := httputil.AccountIDFromContext(ctx); accountID != "" {
		return models.AccountIdentity(accountID)
	}
	if sessionID := httputil.SessionIDFromContext(ctx); sessionID != "" {
		return models.AnonymousIdentity(sessionID)
	}
	return models.AnonymousIdentity(uuid.NewString())
}
