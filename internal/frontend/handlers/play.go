package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fairdice/internal/frontend/telnet"
	"github.com/cory-johannsen/fairdice/internal/game/dice"
	"github.com/cory-johannsen/fairdice/internal/game/fairness"
	"github.com/cory-johannsen/fairdice/internal/game/match"
	"github.com/cory-johannsen/fairdice/internal/game/session"
	"github.com/cory-johannsen/fairdice/internal/game/strategy"
)

// GameHandler runs the dice game for connected sessions. One handler
// serves many concurrent sessions; the protocol and selector are stateless
// across rounds, so they are shared safely.
type GameHandler struct {
	set      []dice.Die
	proto    match.Protocol
	selector strategy.Selector
	sessions *session.Manager
	logger   *zap.Logger
}

// NewGameHandler creates a GameHandler.
//
// Precondition: set must hold at least dice.MinSetSize dice; all
// collaborators must be non-nil.
func NewGameHandler(set []dice.Die, proto match.Protocol, selector strategy.Selector, sessions *session.Manager, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		set:      set,
		proto:    proto,
		selector: selector,
		sessions: sessions,
		logger:   logger,
	}
}

// HandleSession runs the game loop for one Telnet client until the player
// exits, the connection drops, or the server shuts down.
func (h *GameHandler) HandleSession(ctx context.Context, conn *telnet.Conn) error {
	sess := h.sessions.Add(conn.RemoteAddr().String())
	defer func() {
		_ = h.sessions.Remove(sess.ID)
	}()

	log := h.logger.With(
		zap.String("session_id", sess.ID.String()),
		zap.String("remote_addr", sess.RemoteAddr),
	)
	log.Info("game session started", zap.Int("active_sessions", h.sessions.Count()))

	return h.Play(ctx, conn, func(outcome match.Outcome) {
		_ = h.sessions.Record(sess.ID, outcome)
	}, log)
}

// Play runs the interactive game loop over any Transport. The record
// callback receives each completed round's outcome; pass nil to skip score
// tracking (console mode keeps score locally).
func (h *GameHandler) Play(ctx context.Context, transport Transport, record func(match.Outcome), log *zap.Logger) error {
	prompter := NewLinePrompter(transport)
	prompter.Help = func() string { return RenderHelp(h.set) }
	game := match.NewGame(h.set, h.proto, h.selector, prompter, log)

	if err := prompter.Say("Welcome to the non-transitive dice game. H for help, E to exit."); err != nil {
		return err
	}

	wins, losses, draws := 0, 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		result, err := game.PlayRound()
		switch {
		case errors.Is(err, match.ErrAborted):
			return prompter.Say("Thanks for playing. %s.", RenderScore(wins, losses, draws))
		case errors.Is(err, fairness.ErrVerificationFailed):
			// Trust violation: the round is aborted, never retried.
			log.Error("round aborted on verification failure", zap.Error(err))
			return err
		case errors.Is(err, io.EOF):
			log.Debug("client disconnected mid-round")
			return nil
		case err != nil:
			return fmt.Errorf("playing round: %w", err)
		}

		switch result.Outcome {
		case match.PlayerWins:
			wins++
			if err := prompter.Say("%s", telnet.Colorize(telnet.Green, fmt.Sprintf("You win (%d > %d)!", result.PlayerRoll, result.ComputerRoll))); err != nil {
				return err
			}
		case match.ComputerWins:
			losses++
			if err := prompter.Say("%s", telnet.Colorize(telnet.Red, fmt.Sprintf("I win (%d > %d)!", result.ComputerRoll, result.PlayerRoll))); err != nil {
				return err
			}
		default:
			draws++
			if err := prompter.Say("It's a draw (%d = %d).", result.PlayerRoll, result.ComputerRoll); err != nil {
				return err
			}
		}
		if record != nil {
			record(result.Outcome)
		}
		if err := prompter.Say("%s", RenderScore(wins, losses, draws)); err != nil {
			return err
		}

		again, err := h.askPlayAgain(prompter)
		if err != nil || !again {
			if err == nil || errors.Is(err, match.ErrAborted) {
				return prompter.Say("Thanks for playing. %s.", RenderScore(wins, losses, draws))
			}
			return err
		}
	}
}

// askPlayAgain prompts for another round.
func (h *GameHandler) askPlayAgain(prompter *LinePrompter) (bool, error) {
	for {
		if err := prompter.transport.WriteString("Play another round? (y/n): "); err != nil {
			return false, err
		}
		input, err := prompter.readCommand()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(input) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		case "":
			continue
		default:
			if err := prompter.Say("Please answer y or n."); err != nil {
				return false, err
			}
		}
	}
}
