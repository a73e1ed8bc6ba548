// Package match orchestrates one game round between the human player and
// the computer opponent: a fair toss for move order, dice selection, one
// committed roll per party, and the face comparison. All chance events go
// through the fairness protocol; all human interaction goes through the
// injected Prompter.
package match

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/fairdice/internal/game/dice"
	"github.com/cory-johannsen/fairdice/internal/game/fairness"
	"github.com/cory-johannsen/fairdice/internal/game/strategy"
)

// ErrAborted indicates the human quit mid-round. The open commitment is
// simply discarded unrevealed; nothing needs cleaning up.
var ErrAborted = errors.New("match: round aborted by player")

// Party identifies one of the two players.
type Party int

const (
	// Player is the human.
	Player Party = iota
	// Computer is the automated opponent.
	Computer
)

// String returns the display name of the party.
func (p Party) String() string {
	if p == Player {
		return "player"
	}
	return "computer"
}

// Outcome is the result of a completed round.
type Outcome int

const (
	// Draw means both parties rolled the same face value.
	Draw Outcome = iota
	// PlayerWins means the human's face value was higher.
	PlayerWins
	// ComputerWins means the computer's face value was higher.
	ComputerWins
)

// String returns the display name of the outcome.
func (o Outcome) String() string {
	switch o {
	case PlayerWins:
		return "player wins"
	case ComputerWins:
		return "computer wins"
	default:
		return "draw"
	}
}

// Protocol is the commit/reveal surface the round consumes. Satisfied by
// both fairness.Protocol and fairness.LoggedProtocol.
type Protocol interface {
	Commit(max int) (fairness.Commitment, error)
	Combine(committed, counterparty, max int) (int, error)
	Verify(digest string, number int, key []byte) error
}

// Prompter is the capability interface for human interaction. The round
// logic never touches a console or socket directly; console and Telnet
// frontends both implement this.
//
// RequestNumber and RequestChoice re-prompt internally on invalid input and
// return ErrAborted when the human quits.
type Prompter interface {
	// Say displays a formatted message to the human.
	Say(format string, args ...interface{}) error
	// RequestNumber asks for an integer in [0, max] inclusive.
	RequestNumber(prompt string, max int) (int, error)
	// RequestChoice asks the human to pick one of options; returns its index.
	RequestChoice(prompt string, options []string) (int, error)
}

// Result is the audit record of one completed round.
type Result struct {
	// ID uniquely identifies the round.
	ID uuid.UUID
	// First is the party that selected its die first.
	First Party
	// PlayerDie and ComputerDie are indexes into the game's dice set.
	PlayerDie   int
	ComputerDie int
	// PlayerRoll and ComputerRoll are the rolled face values.
	PlayerRoll   int
	ComputerRoll int
	// Outcome is the comparison of the two rolls.
	Outcome Outcome
}

// Game holds the collaborators for playing rounds over a fixed dice set.
// It keeps no secret state between rounds: every commitment lives and dies
// inside a single exchange.
type Game struct {
	set      []dice.Die
	proto    Protocol
	selector strategy.Selector
	prompter Prompter
	logger   *zap.Logger
}

// NewGame creates a Game.
//
// Precondition: set must have at least dice.MinSetSize dice; all
// collaborators must be non-nil.
func NewGame(set []dice.Die, proto Protocol, selector strategy.Selector, prompter Prompter, logger *zap.Logger) *Game {
	return &Game{
		set:      set,
		proto:    proto,
		selector: selector,
		prompter: prompter,
		logger:   logger,
	}
}

// Set returns the dice set the game is played over.
func (g *Game) Set() []dice.Die {
	return g.set
}

// PlayRound runs one full round: toss, selection, two rolls, comparison.
//
// A failed commitment verification aborts the round with
// fairness.ErrVerificationFailed propagated verbatim. ErrAborted is
// returned when the human quits at any prompt.
func (g *Game) PlayRound() (Result, error) {
	result := Result{ID: uuid.New()}
	log := g.logger.With(zap.String("round_id", result.ID.String()))

	first, err := g.decideFirstMover(log)
	if err != nil {
		return Result{}, err
	}
	result.First = first

	if err := g.selectDice(&result, log); err != nil {
		return Result{}, err
	}

	playerDie := g.set[result.PlayerDie]
	computerDie := g.set[result.ComputerDie]

	if err := g.prompter.Say("It's time for your roll of %s.", playerDie); err != nil {
		return Result{}, err
	}
	result.PlayerRoll, err = g.rollDie(playerDie, log.With(zap.String("roller", Player.String())))
	if err != nil {
		return Result{}, err
	}
	if err := g.prompter.Say("You rolled %d.", result.PlayerRoll); err != nil {
		return Result{}, err
	}

	if err := g.prompter.Say("It's time for my roll of %s.", computerDie); err != nil {
		return Result{}, err
	}
	result.ComputerRoll, err = g.rollDie(computerDie, log.With(zap.String("roller", Computer.String())))
	if err != nil {
		return Result{}, err
	}
	if err := g.prompter.Say("I rolled %d.", result.ComputerRoll); err != nil {
		return Result{}, err
	}

	switch {
	case result.PlayerRoll > result.ComputerRoll:
		result.Outcome = PlayerWins
	case result.ComputerRoll > result.PlayerRoll:
		result.Outcome = ComputerWins
	default:
		result.Outcome = Draw
	}

	log.Info("round complete",
		zap.String("first", result.First.String()),
		zap.Int("player_roll", result.PlayerRoll),
		zap.Int("computer_roll", result.ComputerRoll),
		zap.String("outcome", result.Outcome.String()),
	)
	return result, nil
}

// decideFirstMover runs a fair exchange over [0,1]: the computer commits a
// bit, the human guesses the combined value. A correct guess gives the
// human the first move.
func (g *Game) decideFirstMover(log *zap.Logger) (Party, error) {
	if err := g.prompter.Say("Let's determine who makes the first move."); err != nil {
		return Player, err
	}
	guess, combined, err := g.fairExchange(1, "Try to guess my selection")
	if err != nil {
		return Player, err
	}

	first := Computer
	if guess == combined {
		first = Player
	}
	log.Debug("first mover decided",
		zap.Int("guess", guess),
		zap.Int("combined", combined),
		zap.String("first", first.String()),
	)

	if first == Player {
		return first, g.prompter.Say("You guessed right, you make the first move.")
	}
	return first, g.prompter.Say("I make the first move.")
}

// selectDice fills in the die indexes in first-mover order. The human picks
// through the Prompter, the computer through its Selector; neither may take
// the other's die.
func (g *Game) selectDice(result *Result, log *zap.Logger) error {
	pickComputer := func(taken int) error {
		idx, err := g.selector.SelectDie(g.set, taken)
		if err != nil {
			return fmt.Errorf("computer selecting die: %w", err)
		}
		result.ComputerDie = idx
		log.Debug("computer selected die", zap.Int("die", idx), zap.String("faces", g.set[idx].String()))
		return g.prompter.Say("I choose the [%s] dice.", g.set[idx])
	}

	pickPlayer := func(taken int) error {
		options := make([]string, len(g.set))
		for i, d := range g.set {
			options[i] = d.String()
		}
		idx, err := g.requestUntakenDie(options, taken)
		if err != nil {
			return err
		}
		result.PlayerDie = idx
		log.Debug("player selected die", zap.Int("die", idx), zap.String("faces", g.set[idx].String()))
		return g.prompter.Say("You choose the [%s] dice.", g.set[idx])
	}

	if result.First == Player {
		if err := pickPlayer(-1); err != nil {
			return err
		}
		return pickComputer(result.PlayerDie)
	}
	if err := pickComputer(-1); err != nil {
		return err
	}
	return pickPlayer(result.ComputerDie)
}

// requestUntakenDie re-prompts until the human picks a die the computer
// does not already hold.
func (g *Game) requestUntakenDie(options []string, taken int) (int, error) {
	for {
		idx, err := g.prompter.RequestChoice("Choose your dice:", options)
		if err != nil {
			return 0, err
		}
		if idx != taken {
			return idx, nil
		}
		if err := g.prompter.Say("I already hold that dice, pick another."); err != nil {
			return 0, err
		}
	}
}

// rollDie resolves one die roll through a fair exchange over [0,5] and maps
// the combined index to a face value.
func (g *Game) rollDie(d dice.Die, log *zap.Logger) (int, error) {
	_, combined, err := g.fairExchange(dice.FaceCount-1, "Add your number modulo 6")
	if err != nil {
		return 0, err
	}
	face, err := d.Face(combined)
	if err != nil {
		return 0, fmt.Errorf("resolving face %d: %w", combined, err)
	}
	log.Debug("die rolled", zap.Int("index", combined), zap.Int("face", face))
	return face, nil
}

// fairExchange runs one full commit/reveal cycle over [0, max]: publish the
// digest, collect the human's number, combine, reveal, and verify. The
// digest reaches the human strictly before their number is requested.
//
// Returns the human's number and the combined result.
func (g *Game) fairExchange(max int, prompt string) (int, int, error) {
	c, err := g.proto.Commit(max)
	if err != nil {
		return 0, 0, err
	}

	if err := g.prompter.Say("I selected a random value in the range 0..%d (HMAC=%s).", max, c.Digest); err != nil {
		return 0, 0, err
	}

	number, err := g.prompter.RequestNumber(fmt.Sprintf("%s (0..%d):", prompt, max), max)
	if err != nil {
		return 0, 0, err
	}

	combined, err := g.proto.Combine(c.Number, number, max)
	if err != nil {
		return 0, 0, err
	}

	if err := g.prompter.Say("My number is %d (KEY=%s).", c.Number, hexUpper(c.Key)); err != nil {
		return 0, 0, err
	}
	if err := g.proto.Verify(c.Digest, c.Number, c.Key); err != nil {
		// Trust violation: surface verbatim and abort the round.
		if sayErr := g.prompter.Say("Commitment verification FAILED: %v", err); sayErr != nil {
			return 0, 0, sayErr
		}
		return 0, 0, err
	}
	if err := g.prompter.Say("The fair number generation result is %d + %d = %d (mod %d).", c.Number, number, combined, max+1); err != nil {
		return 0, 0, err
	}
	return number, combined, nil
}

// hexUpper renders key bytes the same way digests are rendered.
func hexUpper(key []byte) string {
	return strings.ToUpper(hex.EncodeToString(key))
}
