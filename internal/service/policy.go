package service

import (
	"voxpop/internal/domain/models"
	"voxpop/internal/domain/services"
)

// visibilityPolicy implements the VisibilityPolicy interface.
type visibilityPolicy struct{}

// NewVisibilityPolicy creates a new board visibility policy
func NewVisibilityPolicy() services.VisibilityPolicy {
	return visibilityPolicy{}
}

// CanView is true when the board is public or the identity owns it.
func (visibilityPolicy) CanView(identity models.Identity, board *models.Board) bool {
	return board.IsPublic || identity.IsOwnerOf(board)
}

// CanVote requires CanView; anonymous voters additionally need the
// board to allow anonymous votes.
func (p visibilityPolicy) CanVote(identity models.Identity, board *models.Board) bool {
	if !p.CanView(identity, board) {
		return false
	}
	if identity.Kind == models.IdentityAnonymous {
		return board.AllowAnonymousVotes
	}
	return true
}

// CanSubmit requires CanView; anonymous submitters additionally need
// the board to allow public submissions.
func (p visibilityPolicy) CanSubmit(identity models.Identity, board *models.Board) bool {
	if !p.CanView(identity, board) {
		return false
	}
	if identity.Kind == models.IdentityAnonymous {
		return board.AllowPublicSubmissions
	}
	return true
}
