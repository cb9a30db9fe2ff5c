// Package otp issues and checks the one-time booking verification codes.
package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"
)

const (
	DefaultTTL = 5 * time.Minute

	minCode = 100000
	maxCode = 999999
)

type Generator struct {
	ttl time.Duration
}

func NewGenerator(ttl time.Duration) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Generator{ttl: ttl}
}

func (g *Generator) TTL() time.Duration {
	return g.ttl
}

// Generate returns a 6-digit code drawn uniformly from [100000, 999999].
func (g *Generator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+minCode), nil
}

// IsExpired is true once now is strictly past generatedAt + ttl.
func (g *Generator) IsExpired(generatedAt, now time.Time) bool {
	return now.After(generatedAt.Add(g.ttl))
}

func Equal(input, stored string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(input), []byte(stored)) == 1
}
