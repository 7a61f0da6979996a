package services

import (
	"context"

	"voxpop/internal/domain/models"
)

// IdentityResolver produces the requesting principal from a request
// context: an authenticated account when the request carries a verified
// account marker, otherwise an anonymous session identity. It never
// fails; an anonymous identity is always constructible.
type IdentityResolver interface {
	Resolve(ctx context.Context) models.Identity
}
