package chat

import (
	"errors"

	"relaychat/internal/app/user"
	"relaychat/internal/pkg/auth/jwt"
)

// ErrNoCredential is returned by BindIdentity when the handshake carried no session token.
var ErrNoCredential = errors.New("no session credential")

// Verifier checks a session token and returns the identity it was issued for.
type Verifier interface {
	Verify(token string) (user.User, error)
}

// BindIdentity resolves the identity of a handshake from its raw Cookie header.
//
// A nil identity means the connection stays anonymous: it is registered and receives
// presence, but never appears in presence snapshots or as a delivery target. The error
// only explains why; it is never a reason to refuse the connection.
func BindIdentity(cookieHeader string, verifier Verifier) (*user.User, error) {
	token := jwt.TokenFromCookieHeader(cookieHeader)
	if token == "" {
		return nil, ErrNoCredential
	}

	identity, err := verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}
