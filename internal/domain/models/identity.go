package models

// IdentityKind discriminates account-backed identities from anonymous
// browser-session identities. The two kinds are independent namespaces:
// a signed-in visitor's session ID and account ID never collapse into
// one key.
type IdentityKind string

const (
	IdentityAccount   IdentityKind = "account"
	IdentityAnonymous IdentityKind = "anonymous"
)

// Identity is the voter/submitter principal. Exactly one of AccountID or
// SessionID is set, depending on Kind. It is the dedup key for votes.
type Identity struct {
	Kind      IdentityKind `json:"kind"`
	AccountID string       `json:"account_id,omitempty"`
	SessionID string       `json:"session_id,omitempty"`
}

// AccountIdentity returns an authenticated identity for the given account.
func AccountIdentity(accountID string) Identity {
	return Identity{Kind: IdentityAccount, AccountID: accountID}
}

// AnonymousIdentity returns an anonymous identity for the given session.
func AnonymousIdentity(sessionID string) Identity {
	return Identity{Kind: IdentityAnonymous, SessionID: sessionID}
}

// IsAccount reports whether the identity is account-backed.
func (i Identity) IsAccount() bool {
	return i.Kind == IdentityAccount
}

// IsOwnerOf reports whether the identity is the owning account of a board.
// Anonymous identities never own boards.
func (i Identity) IsOwnerOf(b *Board) bool {
	return i.Kind == IdentityAccount && i.AccountID == b.OwnerID
}
