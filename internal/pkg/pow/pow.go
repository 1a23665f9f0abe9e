/*
Package pow gates room creation behind a small Proof-of-Work puzzle.

A client fetches a nonce, searches for a counter such that sha256(nonce+counter) in hex starts with
`difficulty` zeros, and trades the solution for a short-lived proof token that the create-room
endpoint accepts once.
*/
package pow

import (
	"context"
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
	// TokenHeaderKey is the header carrying the proof token.
	TokenHeaderKey = "X-PoW-Token"

	// ProofTokenDuration is how long a proof token stays valid.
	ProofTokenDuration = 30 * time.Second

	// NonceExpiryDuration is how long a challenge nonce stays valid.
	NonceExpiryDuration = 5 * time.Minute
)

var (
	// ErrNonceInvalid is returned for unknown, expired or already used nonces.
	ErrNonceInvalid = errors.New("nonce expired or invalid")

	// ErrProofInsufficient is returned when the hash lacks the required leading zeros.
	ErrProofInsufficient = errors.New("proof does not meet difficulty requirement")
)

// Guard issues challenges and redeems proof tokens. It is safe for concurrent use.
type Guard struct {
	// difficulty is the number of leading hex zeros required; 0 disables the guard.
	difficulty int

	mu     sync.Mutex
	nonces map[string]time.Time
	tokens map[string]time.Time

	now func() time.Time
}

// NewGuard creates a Guard. Expired entries are swept every minute until ctx is done.
func NewGuard(ctx context.Context, difficulty int) *Guard {
	g := &Guard{
		difficulty: difficulty,
		nonces:     make(map[string]time.Time),
		tokens:     make(map[string]time.Time),
		now:        time.Now,
	}

	go g.sweepLoop(ctx)

	return g
}

// Enabled reports whether requests must carry a proof token.
func (g *Guard) Enabled() bool {
	return g.difficulty > 0
}

// Difficulty returns the number of leading zeros a proof needs.
func (g *Guard) Difficulty() int {
	return g.difficulty
}

// Challenge returns a fresh nonce.
func (g *Guard) Challenge() string {
	nonce := uuid.NewString()

	g.mu.Lock()
	g.nonces[nonce] = g.now().Add(NonceExpiryDuration)
	g.mu.Unlock()

	return nonce
}

// Solves reports whether counter solves nonce at the given difficulty.
func Solves(nonce, counter string, difficulty int) bool {
	sum := sha256.Sum256([]byte(nonce + counter))
	return strings.HasPrefix(hex.EncodeToString(sum[:]), strings.Repeat("0", difficulty))
}

// Redeem consumes nonce if counter solves it and returns a proof token.
func (g *Guard) Redeem(nonce, counter string) (string, error) {
	if !Solves(nonce, counter, g.difficulty) {
		return "", ErrProofInsufficient
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

// Consume accepts a request carrying a valid proof token and invalidates the token.
// A disabled guard accepts every request.
func (g *Guard) Consume(r *http.Request) bool {
	if !g.Enabled() {
		return true
	}

	token := r.Header.Get(TokenHeaderKey)
	if token == "" {
		token = r.URL.Query().Get("pow_token")
	}
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

func (g *Guard) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

// sweep removes expired nonces and tokens.
func (g *Guard) sweep() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for nonce, expiry := range g.nonces {
		if now.After(expiry) {
			delete(g.nonces, nonce)
		}
	}
	for token, expiry := range g.tokens {
		if now.After(expiry) {
			delete(g.tokens, token)
		}
	}
}
