/*
Package jwt issues and verifies the signed session tokens carried in the "token" cookie.
*/
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"relaychat/internal/app/user"
)

const (
	// SessionExpiration is the lifetime of a session token.
	SessionExpiration = 7 * 24 * time.Hour

	// TokenIssuer identifies tokens minted by this server.
	TokenIssuer = "relaychat"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// GenerateToken signs a token for u that expires after duration.
func GenerateToken(u user.User, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	claims := &Payload{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(duration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    TokenIssuer,
			Subject:   u.ID,
		},
		UserID:   u.ID,
		Username: u.Username,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
}

// ParseToken verifies tokenString with secretKey and returns its claims.
func ParseToken(tokenString string, secretKey string) (*Payload, error) {
	claims := &Payload{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Verifier checks session tokens against a fixed secret.
type Verifier struct {
	Secret string
}

// Verify returns the identity carried by a valid token.
func (v Verifier) Verify(token string) (user.User, error) {
	claims, err := ParseToken(token, v.Secret)
	if err != nil {
		return user.User{}, err
	}

	return user.User{ID: claims.UserID, Username: claims.Username}, nil
}
