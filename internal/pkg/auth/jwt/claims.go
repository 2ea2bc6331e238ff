package jwt

import "github.com/golang-jwt/jwt"

// Payload is the claim set of a session token. The identity fields are the only
// thing the relay trusts about a connection's owner.
type Payload struct {
	jwt.StandardClaims

	// UserID is the persisted id of the account.
	UserID string `json:"userId"`

	// Username is the display name shown in presence snapshots.
	Username string `json:"username"`
}
