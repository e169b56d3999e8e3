package server

import (
	"net/http"

	"github.com/swaplane/swaplane/engine"
)

// Identity headers set by the authenticating proxy in front of the service
const (
	headerUserID             = "X-User-Id"
	headerVerificationStatus = "X-Verification-Status"
)

// IdentityResolver establishes the authenticated caller for a request.
// A nil identity means the request is unauthenticated
type IdentityResolver interface {
	Resolve(r *http.Request) *engine.Identity
}

// HeaderIdentityResolver trusts the identity headers injected by an
// upstream auth proxy. Suitable only behind such a proxy
type HeaderIdentityResolver struct{}

func (HeaderIdentityResolver) Resolve(r *http.Request) *engine.Identity {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		return nil
	}

	status := engine.VerificationStatus(r.Header.Get(headerVerificationStatus))

	switch status {
	case engine.VerificationPending,
		engine.VerificationVerified,
		engine.VerificationRejected:
		// Recognized as-is
	default:
		status = engine.VerificationUnverified
	}

	return &engine.Identity{
		UserID: userID,
		Status: status,
	}
}
