/*
Package pow guards account registration with a hashcash-style proof of work.

A client fetches a nonce, searches for a counter such that sha256(nonce+counter)
starts with Difficulty hex zeros, and trades the solution for a short-lived proof
token. Register requests must carry that token.
*/
package pow

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// TokenHeaderKey carries the proof token on guarded requests.
	TokenHeaderKey = "X-PoW-Token"

	// ProofTokenDuration is how long a proof token stays redeemable.
	ProofTokenDuration = 30 * time.Second

	// NonceExpiryDuration is how long a challenge may be worked on.
	NonceExpiryDuration = 5 * time.Minute
)

var (
	// ErrNonceInvalid covers unknown, expired and already-used nonces.
	ErrNonceInvalid = errors.New("nonce expired or invalid")

	// ErrInsufficientWork means the hash lacks the required leading zeros.
	ErrInsufficientWork = errors.New("proof does not meet difficulty requirement")
)

// Guard issues challenges and single-use proof tokens. Safe for concurrent use.
type Guard struct {
	difficulty int
	now        func() time.Time

	mu     sync.Mutex
	nonces map[string]time.Time
	tokens map[string]time.Time
}

// NewGuard returns a Guard requiring difficulty leading hex zeros.
// A difficulty of zero or less disables the guard.
func NewGuard(difficulty int) *Guard {
	return &Guard{
		difficulty: difficulty,
		now:        time.Now,
		nonces:     make(map[string]time.Time),
		tokens:     make(map[string]time.Time),
	}
}

// Enabled reports whether requests must present proof.
func (g *Guard) Enabled() bool {
	return g.difficulty > 0
}

// Difficulty returns the required number of leading hex zeros.
func (g *Guard) Difficulty() int {
	return g.difficulty
}

// Challenge issues a new nonce.
func (g *Guard) Challenge() string {
	nonce := uuid.NewString()

	g.mu.Lock()
	defer g.mu.Unlock()

	g.purgeLocked()
	g.nonces[nonce] = g.now().Add(NonceExpiryDuration)
	return nonce
}

// Solve consumes nonce if counter satisfies the difficulty and returns a proof token.
func (g *Guard) Solve(nonce, counter string) (string, error) {
	if !meetsDifficulty(nonce, counter, g.difficulty) {
		return "", ErrInsufficientWork
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	expiry, ok := g.nonces[nonce]
	if !ok || g.now().After(expiry) {
		return "", ErrNonceInvalid
	}
	delete(g.nonces, nonce)

	token := uuid.NewString()
	g.tokens[token] = g.now().Add(ProofTokenDuration)
	return token, nil
}

// Redeem consumes the proof token carried by r. Disabled guards accept everything.
func (g *Guard) Redeem(r *http.Request) bool {
	if !g.Enabled() {
		return true
	}

	token := r.Header.Get(TokenHeaderKey)
	if token == "" {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	expiry, ok := g.tokens[token]
	if !ok {
		return false
	}
	delete(g.tokens, token)

	return !g.now().After(expiry)
}

// purgeLocked drops expired entries. Callers hold g.mu.
func (g *Guard) purgeLocked() {
	now := g.now()
	for k, exp := range g.nonces {
		if now.After(exp) {
			delete(g.nonces, k)
		}
	}
	for k, exp := range g.tokens {
		if now.After(exp) {
			delete(g.tokens, k)
		}
	}
}

func meetsDifficulty(nonce, counter string, difficulty int) bool {
	sum := sha256.Sum256([]byte(nonce + counter))
	return strings.HasPrefix(hex.EncodeToString(sum[:]), strings.Repeat("0", max(difficulty, 0)))
}
