package jwt

import (
	"context"
	"net/http"
	"strings"

	"relaychat/internal/app/user"
	"relaychat/internal/pkg/logx"
)

type contextKey string

const (
	// CookieName is the cookie carrying the session token.
	CookieName = "token"

	// ContextIdentityKey stores the verified user.User in a request context.
	ContextIdentityKey contextKey = "identity"
)

// TokenFromCookieHeader extracts the session token from a raw Cookie header value.
// It returns "" when the cookie is absent or empty.
func TokenFromCookieHeader(header string) string {
	for _, part := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && name == CookieName {
			return value
		}
	}
	return ""
}

// tokenFromRequest prefers the session cookie and falls back to a Bearer header.
func tokenFromRequest(r *http.Request) string {
	if token := TokenFromCookieHeader(r.Header.Get("Cookie")); token != "" {
		return token
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && scheme == "Bearer" {
		return token
	}
	return ""
}

// IdentityExtractorMiddleware verifies the request's session token and stores the
// identity in the context. Missing or invalid tokens leave the request anonymous;
// handlers decide whether that is acceptable.
func IdentityExtractorMiddleware(verifier Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				logx.Warn("invalid session token, treating request as anonymous", "error", err.Error())
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextIdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the verified identity, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *user.User {
	identity, ok := ctx.Value(ContextIdentityKey).(user.User)
	if !ok {
		return nil
	}
	return &identity
}
