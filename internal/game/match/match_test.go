package match_test

import (
	"fmt"
	mathrand "math/rand"
	"strings"
	"testing"

	"github.com/cory-johannsen/fairdice/internal/game/dice"
	"github.com/cory-johannsen/fairdice/internal/game/fairness"
	"github.com/cory-johannsen/fairdice/internal/game/match"
	"github.com/cory-johannsen/fairdice/internal/game/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// scriptedPrompter answers prompts from fixed lists and records every
// interaction in order, so tests can assert the commit-before-input
// ordering of the protocol.
type scriptedPrompter struct {
	numbers []int
	choices []int
	events  []string
}

func (p *scriptedPrompter) Say(format string, args ...interface{}) error {
	p.events = append(p.events, "say: "+fmt.Sprintf(format, args...))
	return nil
}

func (p *scriptedPrompter) RequestNumber(prompt string, max int) (int, error) {
	p.events = append(p.events, "number")
	if len(p.numbers) == 0 {
		return 0, match.ErrAborted
	}
	n := p.numbers[0]
	p.numbers = p.numbers[1:]
	return n, nil
}

func (p *scriptedPrompter) RequestChoice(prompt string, options []string) (int, error) {
	p.events = append(p.events, "choice")
	if len(p.choices) == 0 {
		return 0, match.ErrAborted
	}
	c := p.choices[0]
	p.choices = p.choices[1:]
	return c, nil
}

func newTestGame(t *testing.T, prompter match.Prompter) *match.Game {
	t.Helper()
	set := []dice.Die{
		dice.MustNew([]int{2, 2, 4, 4, 9, 9}),
		dice.MustNew([]int{1, 1, 6, 6, 8, 8}),
		dice.MustNew([]int{3, 3, 5, 5, 7, 7}),
	}
	gen := fairness.NewGeneratorFromReader(mathrand.New(mathrand.NewSource(7)))
	proto := fairness.NewProtocol(gen)
	return match.NewGame(set, proto, strategy.NewGreedy(), prompter, zaptest.NewLogger(t))
}

// TestPlayRound_Complete runs a full round and verifies the structural
// postconditions: distinct dice, rolls drawn from the selected dice, and an
// outcome consistent with the rolls.
func TestPlayRound_Complete(t *testing.T) {
	prompter := &scriptedPrompter{numbers: []int{0, 0, 0}, choices: []int{0, 1}}
	game := newTestGame(t, prompter)

	result, err := game.PlayRound()
	require.NoError(t, err)

	assert.NotEqual(t, result.PlayerDie, result.ComputerDie, "parties must hold different dice")
	assert.Contains(t, game.Set()[result.PlayerDie].Faces(), result.PlayerRoll)
	assert.Contains(t, game.Set()[result.ComputerDie].Faces(), result.ComputerRoll)

	switch {
	case result.PlayerRoll > result.ComputerRoll:
		assert.Equal(t, match.PlayerWins, result.Outcome)
	case result.ComputerRoll > result.PlayerRoll:
		assert.Equal(t, match.ComputerWins, result.Outcome)
	default:
		assert.Equal(t, match.Draw, result.Outcome)
	}

	assert.NotEqual(t, result.ID.String(), "00000000-0000-0000-0000-000000000000")
}

// TestPlayRound_DigestBeforeNumber verifies the fairness ordering: every
// request for the human's number is preceded by a published digest, and the
// reveal (number + key) only happens after the number was supplied.
func TestPlayRound_DigestBeforeNumber(t *testing.T) {
	prompter := &scriptedPrompter{numbers: []int{1, 3, 2}, choices: []int{0, 1}}
	game := newTestGame(t, prompter)

	_, err := game.PlayRound()
	require.NoError(t, err)

	lastDigest := -1
	exchanges := 0
	for i, ev := range prompter.events {
		switch {
		case strings.Contains(ev, "HMAC="):
			lastDigest = i
		case ev == "number":
			exchanges++
			require.Greater(t, lastDigest, -1, "number requested before any digest was published")
			// No reveal may sit between the digest and the number request.
			for _, between := range prompter.events[lastDigest:i] {
				assert.NotContains(t, between, "KEY=", "key revealed before the human's number")
			}
			lastDigest = -1
		}
	}
	assert.Equal(t, 3, exchanges, "one exchange for the toss and one per roll")
}

// TestPlayRound_Deterministic verifies a substituted entropy source makes
// rounds reproducible end to end.
func TestPlayRound_Deterministic(t *testing.T) {
	play := func() match.Result {
		prompter := &scriptedPrompter{numbers: []int{0, 0, 0}, choices: []int{0, 1}}
		r, err := newTestGame(t, prompter).PlayRound()
		require.NoError(t, err)
		return r
	}

	r1, r2 := play(), play()
	assert.Equal(t, r1.First, r2.First)
	assert.Equal(t, r1.PlayerDie, r2.PlayerDie)
	assert.Equal(t, r1.ComputerDie, r2.ComputerDie)
	assert.Equal(t, r1.PlayerRoll, r2.PlayerRoll)
	assert.Equal(t, r1.ComputerRoll, r2.ComputerRoll)
	assert.Equal(t, r1.Outcome, r2.Outcome)
}

// TestPlayRound_Aborted verifies ErrAborted propagates when the human quits
// at the first prompt.
func TestPlayRound_Aborted(t *testing.T) {
	prompter := &scriptedPrompter{} // empty scripts: every request aborts
	game := newTestGame(t, prompter)

	_, err := game.PlayRound()
	assert.ErrorIs(t, err, match.ErrAborted)
}

// cheatingProtocol commits honestly but swaps the number after seeing the
// counterparty's input, simulating a cheating committer.
type cheatingProtocol struct {
	inner *fairness.Protocol
}

func (c *cheatingProtocol) Commit(max int) (fairness.Commitment, error) {
	commitment, err := c.inner.Commit(max)
	if err != nil {
		return fairness.Commitment{}, err
	}
	// Retroactively change the committed number; the digest still binds the
	// original one.
	commitment.Number = (commitment.Number + 1) % (max + 1)
	return commitment, nil
}

func (c *cheatingProtocol) Combine(committed, counterparty, max int) (int, error) {
	return c.inner.Combine(committed, counterparty, max)
}

func (c *cheatingProtocol) Verify(digest string, number int, key []byte) error {
	return c.inner.Verify(digest, number, key)
}

// TestPlayRound_CheatDetected verifies a tampered commitment aborts the
// round with ErrVerificationFailed surfaced verbatim.
func TestPlayRound_CheatDetected(t *testing.T) {
	set := []dice.Die{
		dice.MustNew([]int{2, 3, 4, 5, 6, 1}),
		dice.MustNew([]int{1, 1, 1, 1, 9, 9}),
		dice.MustNew([]int{7, 7, 7, 2, 2, 2}),
	}
	prompter := &scriptedPrompter{numbers: []int{0, 0, 0}, choices: []int{0, 1}}
	proto := &cheatingProtocol{inner: fairness.NewProtocol(fairness.NewGenerator())}
	game := match.NewGame(set, proto, strategy.NewGreedy(), prompter, zaptest.NewLogger(t))

	_, err := game.PlayRound()
	require.ErrorIs(t, err, fairness.ErrVerificationFailed)

	// The failure must also have been surfaced to the human, not only returned.
	surfaced := false
	for _, ev := range prompter.events {
		if strings.Contains(ev, "verification FAILED") {
			surfaced = true
		}
	}
	assert.True(t, surfaced, "verification failure must be shown to the player")
}
