package services

import (
	"voxpop/internal/domain/models"
)

// VisibilityPolicy decides whether an identity may view, vote, or submit
// on a board. Callers surface violations as authorization failures,
// never as silent downgrades.
type VisibilityPolicy interface {
	// CanView is true when the board is public or the identity owns it.
	CanView(identity models.Identity, board *models.Board) bool

	// CanVote requires CanView; anonymous identities additionally require
	// the board to allow anonymous votes.
	CanVote(identity models.Identity, board *models.Board) bool

	// CanSubmit requires CanView; anonymous identities additionally
	// require the board to allow public submissions.
	CanSubmit(identity models.Identity, board *models.Board) bool
}
