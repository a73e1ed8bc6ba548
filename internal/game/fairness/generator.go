// Package fairness implements the commitment-based fair random protocol:
// a keyed-hash commitment lets one party fix a secret number before the
// counterparty reveals theirs, and the two are combined into a joint result
// neither side could bias. Any observer can verify the commitment after the
// reveal.
package fairness

import (
	"crypto/hmac"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// KeySize is the commitment key length in bytes (256 bits).
const KeySize = 32

// ErrInvalidRange indicates a requested range with a negative maximum.
var ErrInvalidRange = errors.New("fairness: max value must be non-negative")

// ErrOutOfRange indicates a number outside the agreed [0, max] range.
var ErrOutOfRange = errors.New("fairness: number out of range")

// Generator produces cryptographically strong uniform integers and
// commitment keys, and computes keyed digests over messages.
//
// The entropy source is injected so tests can substitute a deterministic
// reader; production code uses crypto/rand.Reader.
type Generator struct {
	entropy io.Reader
}

// NewGenerator returns a Generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorFromReader returns a Generator drawing entropy from r.
// Intended for tests; r must never be a predictable source in production.
//
// Precondition: r must be non-nil.
func NewGeneratorFromReader(r io.Reader) *Generator {
	if r == nil {
		panic("fairness: NewGeneratorFromReader called with nil reader")
	}
	return &Generator{entropy: r}
}

// Key returns a fresh KeySize-byte commitment key.
//
// Postcondition: the key is drawn entirely from the entropy source and is
// never reused; each call returns an independent key.
func (g *Generator) Key() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(g.entropy, key); err != nil {
		return nil, fmt.Errorf("generating commitment key: %w", err)
	}
	return key, nil
}

// UniformInt returns an integer uniformly distributed over [0, max]
// inclusive. The draw is bias-free: crypto/rand.Int rejection-samples
// rather than reducing a fixed-width value modulo the range.
//
// Precondition: max >= 0; max < 0 fails with ErrInvalidRange.
// Postcondition: 0 <= result <= max; UniformInt(0) is always 0.
func (g *Generator) UniformInt(max int) (int, error) {
	if max < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRange, max)
	}
	n, err := rand.Int(g.entropy, big.NewInt(int64(max)+1))
	if err != nil {
		return 0, fmt.Errorf("drawing uniform int in [0,%d]: %w", max, err)
	}
	return int(n.Int64()), nil
}

// Digest computes HMAC-SHA3-256 over the UTF-8 bytes of message, keyed by
// key, rendered as uppercase hexadecimal. Deterministic given identical
// inputs.
//
// Precondition: key must be non-empty.
func (g *Generator) Digest(key []byte, message string) string {
	mac := hmac.New(sha3.New256, key)
	mac.Write([]byte(message))
	return strings.ToUpper(fmt.Sprintf("%x", mac.Sum(nil)))
}
