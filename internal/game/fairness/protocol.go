package fairness

import (
	"crypto/hmac"
	"errors"
	"fmt"
	"strconv"
)

// ErrVerificationFailed indicates a revealed (number, key) pair does not
// reproduce the published digest. This is a trust violation: the committer
// changed their number after seeing the counterparty's. It is fatal to the
// round and must never be downgraded or retried.
var ErrVerificationFailed = errors.New("fairness: commitment verification failed")

// Commitment is one party's committed secret for a single exchange.
//
// Invariant: Digest == HMAC(Key, stringOf(Number)) at generation time.
// Only Digest may be shown to the counterparty before their number is
// received; Number and Key are revealed together afterwards so the digest
// can be independently recomputed.
type Commitment struct {
	// Number is the committed secret in [0, max].
	Number int
	// Digest is the published uppercase-hex HMAC over Number.
	Digest string
	// Key is the fresh secret key the digest was computed with.
	Key []byte
}

// Protocol orchestrates one commit/reveal cycle over an inclusive range
// [0, max]. It holds no state across calls: every Commit produces a fresh,
// self-contained Commitment, and nothing outlives the exchange it belongs
// to.
type Protocol struct {
	gen *Generator
}

// NewProtocol creates a Protocol drawing randomness from gen.
//
// Precondition: gen must be non-nil.
func NewProtocol(gen *Generator) *Protocol {
	if gen == nil {
		panic("fairness: NewProtocol called with nil generator")
	}
	return &Protocol{gen: gen}
}

// Commit draws a secret number uniform over [0, max], a fresh key, and the
// digest binding them. The call takes no counterparty input: the digest
// exists before the counterparty's number can even be requested, which is
// what makes the exchange fair.
//
// Precondition: max >= 0; max < 0 fails with ErrInvalidRange.
// Postcondition: returned Commitment satisfies
// Digest == HMAC(Key, itoa(Number)) and 0 <= Number <= max.
func (p *Protocol) Commit(max int) (Commitment, error) {
	number, err := p.gen.UniformInt(max)
	if err != nil {
		return Commitment{}, err
	}
	key, err := p.gen.Key()
	if err != nil {
		return Commitment{}, err
	}
	return Commitment{
		Number: number,
		Digest: p.gen.Digest(key, strconv.Itoa(number)),
		Key:    key,
	}, nil
}

// Combine folds the committed number and the counterparty's number into the
// joint result (committed + counterparty) mod (max+1). The result is
// uniform over [0, max] whenever the committed number is uniform and
// independent, regardless of how the counterparty chose theirs.
//
// Precondition: both numbers in [0, max]; violations fail with ErrOutOfRange.
// Postcondition: 0 <= result <= max; Combine is commutative in its two
// number arguments.
func (p *Protocol) Combine(committed, counterparty, max int) (int, error) {
	if max < 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidRange, max)
	}
	if committed < 0 || committed > max {
		return 0, fmt.Errorf("%w: committed number %d not in [0,%d]", ErrOutOfRange, committed, max)
	}
	if counterparty < 0 || counterparty > max {
		return 0, fmt.Errorf("%w: counterparty number %d not in [0,%d]", ErrOutOfRange, counterparty, max)
	}
	return (committed + counterparty) % (max + 1), nil
}

// Verify recomputes the digest from a revealed (number, key) pair and
// compares it in constant time against the originally published digest.
//
// Postcondition: returns nil only when the revealed pair reproduces digest
// exactly; any mismatch is ErrVerificationFailed.
func (p *Protocol) Verify(digest string, number int, key []byte) error {
	recomputed := p.gen.Digest(key, strconv.Itoa(number))
	if !hmac.Equal([]byte(recomputed), []byte(digest)) {
		return fmt.Errorf("%w: revealed number %d and key do not reproduce the published digest", ErrVerificationFailed, number)
	}
	return nil
}
