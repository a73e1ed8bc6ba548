package handlers

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cory-johannsen/fairdice/internal/game/dice"
	"github.com/cory-johannsen/fairdice/internal/game/fairness"
	"github.com/cory-johannsen/fairdice/internal/game/match"
	"github.com/cory-johannsen/fairdice/internal/game/session"
	"github.com/cory-johannsen/fairdice/internal/game/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestHandler(t *testing.T) *GameHandler {
	t.Helper()
	set := []dice.Die{
		dice.MustNew([]int{2, 2, 4, 4, 9, 9}),
		dice.MustNew([]int{1, 1, 6, 6, 8, 8}),
		dice.MustNew([]int{3, 3, 5, 5, 7, 7}),
	}
	proto := fairness.NewProtocol(fairness.NewGenerator())
	return NewGameHandler(set, proto, strategy.NewGreedy(), session.NewManager(), zaptest.NewLogger(t))
}

// TestPlay_FullRound drives one complete round over a console transport.
// The input script tolerates both first-mover orders: "1" is consumed as
// the die choice when the player goes first, and re-prompted into "2" when
// the computer already took that die.
func TestPlay_FullRound(t *testing.T) {
	input := "0\n1\n2\n0\n0\nn\nn\n"
	out := &bytes.Buffer{}
	transport := NewConsoleTransport(strings.NewReader(input), out)

	var outcomes []match.Outcome
	h := newTestHandler(t)
	err := h.Play(context.Background(), transport, func(o match.Outcome) {
		outcomes = append(outcomes, o)
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	transcript := out.String()
	assert.Contains(t, transcript, "Welcome to the non-transitive dice game")
	assert.Contains(t, transcript, "HMAC=", "the digest must be published to the player")
	assert.Contains(t, transcript, "KEY=", "the key must be revealed after the exchange")
	assert.Contains(t, transcript, "Score: ")
	assert.Contains(t, transcript, "Thanks for playing")
	assert.Len(t, outcomes, 1, "exactly one round was played and recorded")

	// The digest must appear in the transcript before the key reveal.
	assert.Less(t, strings.Index(transcript, "HMAC="), strings.Index(transcript, "KEY="))
}

// TestPlay_ExitAtFirstPrompt verifies E at the very first prompt ends the
// session cleanly with a goodbye message and no recorded rounds.
func TestPlay_ExitAtFirstPrompt(t *testing.T) {
	out := &bytes.Buffer{}
	transport := NewConsoleTransport(strings.NewReader("e\n"), out)

	h := newTestHandler(t)
	err := h.Play(context.Background(), transport, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Thanks for playing")
}

// TestPlay_Disconnect verifies an input stream that ends mid-round (EOF,
// as when a Telnet client drops) is not treated as a failure.
func TestPlay_Disconnect(t *testing.T) {
	out := &bytes.Buffer{}
	transport := NewConsoleTransport(strings.NewReader("0\n"), out)

	h := newTestHandler(t)
	err := h.Play(context.Background(), transport, nil, zaptest.NewLogger(t))
	assert.NoError(t, err)
}

// TestPlay_ContextCancelled verifies shutdown stops the loop between rounds.
func TestPlay_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &bytes.Buffer{}
	transport := NewConsoleTransport(strings.NewReader("0\n0\n"), out)

	h := newTestHandler(t)
	err := h.Play(ctx, transport, nil, zaptest.NewLogger(t))
	assert.ErrorIs(t, err, context.Canceled)
}
