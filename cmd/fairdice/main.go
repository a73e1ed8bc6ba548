// Package main provides the fairdice binary. It plays the non-transitive
// dice game on the console by default, or serves it over Telnet with
// --serve.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fairdice/internal/config"
	"github.com/cory-johannsen/fairdice/internal/frontend/handlers"
	"github.com/cory-johannsen/fairdice/internal/frontend/telnet"
	"github.com/cory-johannsen/fairdice/internal/game/dice"
	"github.com/cory-johannsen/fairdice/internal/game/fairness"
	"github.com/cory-johannsen/fairdice/internal/game/session"
	"github.com/cory-johannsen/fairdice/internal/game/strategy"
	"github.com/cory-johannsen/fairdice/internal/observability"
	"github.com/cory-johannsen/fairdice/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	diceFile := flag.String("dice-file", "", "path to a YAML dice set preset; overrides the config file")
	serve := flag.Bool("serve", false, "serve the game over Telnet instead of playing on the console")
	flag.Usage = usage
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *diceFile != "" {
		cfg.Game.DiceFile = *diceFile
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	set, setName, err := resolveDice(flag.Args(), cfg.Game)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		usage()
		os.Exit(2)
	}
	logger.Info("dice set loaded",
		zap.String("name", setName),
		zap.Int("dice", len(set)),
	)

	gen := fairness.NewGenerator()
	proto := fairness.NewLoggedProtocol(fairness.NewProtocol(gen), logger)

	selector, err := buildSelector(cfg.Game, gen)
	if err != nil {
		logger.Fatal("building opponent strategy", zap.Error(err))
	}
	logger.Info("opponent strategy selected", zap.String("strategy", cfg.Game.Strategy))

	sessions := session.NewManager()
	handler := handlers.NewGameHandler(set, proto, selector, sessions, logger)

	ctx := context.Background()

	if *serve {
		runServer(ctx, cfg, handler, logger, start)
		return
	}

	transport := handlers.NewConsoleTransport(os.Stdin, os.Stdout)
	if err := handler.Play(ctx, transport, nil, logger); err != nil {
		logger.Fatal("game ended with error", zap.Error(err))
	}
}

// runServer runs the Telnet acceptor under signal-driven lifecycle management.
func runServer(ctx context.Context, cfg config.Config, handler *handlers.GameHandler, logger *zap.Logger, start time.Time) {
	acceptor := telnet.NewAcceptor(cfg.Telnet, handler, logger)

	logger.Info("server initialized",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.Duration("startup", time.Since(start)),
	)

	runner := server.NewRunner(logger)
	err := runner.Run(ctx, "telnet", &server.FuncService{
		StartFn: acceptor.ListenAndServe,
		StopFn:  acceptor.Stop,
	})
	if err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// resolveDice builds the dice set from positional arguments, falling back to
// the configured YAML preset. Returns the set and a display name for logging.
func resolveDice(args []string, game config.GameConfig) ([]dice.Die, string, error) {
	if len(args) > 0 {
		set, err := dice.ParseSet(args)
		if err != nil {
			return nil, "", err
		}
		return set, "command line", nil
	}
	if game.DiceFile != "" {
		preset, err := dice.LoadSetFromFile(game.DiceFile)
		if err != nil {
			return nil, "", err
		}
		return preset.Dice, preset.Name, nil
	}
	return nil, "", fmt.Errorf("no dice given: pass at least %d dice as arguments or set game.dice_file", dice.MinSetSize)
}

// buildSelector constructs the opponent die-selection policy from config.
func buildSelector(game config.GameConfig, gen *fairness.Generator) (strategy.Selector, error) {
	switch game.Strategy {
	case "greedy":
		return strategy.NewGreedy(), nil
	case "lua":
		if _, err := os.Stat(game.StrategyScript); err != nil {
			return nil, fmt.Errorf("strategy script %s: %w", game.StrategyScript, err)
		}
		return strategy.NewLua(game.StrategyScript, game.ScriptInstructionLimit), nil
	case "random":
		return strategy.NewRandom(gen), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", game.Strategy)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: fairdice [flags] [die-spec ...]

Each die-spec is a comma-separated list of %d integer faces.
At least %d dice are required, for example:

  fairdice 2,2,4,4,9,9 6,8,1,1,8,6 7,5,3,7,5,3

Flags:
`, dice.FaceCount, dice.MinSetSize)
	flag.PrintDefaults()
}
