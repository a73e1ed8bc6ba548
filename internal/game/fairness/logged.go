package fairness

import "go.uber.org/zap"

// LoggedProtocol wraps a Protocol and logs every commit, combine, and
// verification at debug level, with verification failures at error level.
// The committed number and key are logged only at reveal time, never while
// the exchange is still open.
type LoggedProtocol struct {
	proto  *Protocol
	logger *zap.Logger
}

// NewLoggedProtocol creates a LoggedProtocol.
//
// Precondition: proto and logger must be non-nil.
func NewLoggedProtocol(proto *Protocol, logger *zap.Logger) *LoggedProtocol {
	return &LoggedProtocol{proto: proto, logger: logger}
}

// Commit delegates to the wrapped Protocol and logs the published digest.
// Only the digest is logged; the secret number and key stay out of the log
// until Verify is called for this exchange.
func (l *LoggedProtocol) Commit(max int) (Commitment, error) {
	c, err := l.proto.Commit(max)
	if err != nil {
		return Commitment{}, err
	}
	l.logger.Debug("commitment published",
		zap.Int("max", max),
		zap.String("digest", c.Digest),
	)
	return c, nil
}

// Combine delegates to the wrapped Protocol and logs the joint result.
func (l *LoggedProtocol) Combine(committed, counterparty, max int) (int, error) {
	combined, err := l.proto.Combine(committed, counterparty, max)
	if err != nil {
		return 0, err
	}
	l.logger.Debug("numbers combined",
		zap.Int("committed", committed),
		zap.Int("counterparty", counterparty),
		zap.Int("max", max),
		zap.Int("combined", combined),
	)
	return combined, nil
}

// Verify delegates to the wrapped Protocol. A failure is a trust violation
// and is logged at error level before being returned verbatim.
func (l *LoggedProtocol) Verify(digest string, number int, key []byte) error {
	if err := l.proto.Verify(digest, number, key); err != nil {
		l.logger.Error("commitment verification failed",
			zap.String("digest", digest),
			zap.Int("revealed_number", number),
			zap.Error(err),
		)
		return err
	}
	l.logger.Debug("commitment verified",
		zap.String("digest", digest),
		zap.Int("revealed_number", number),
	)
	return nil
}
