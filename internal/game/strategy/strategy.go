// Package strategy implements the computer opponent's dice selection
// policies. Selection never touches the roll protocol: a strategy only
// chooses which die to play, all chance events stay in the fairness package.
package strategy

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/fairdice/internal/game/dice"
	"github.com/cory-johannsen/fairdice/internal/game/fairness"
	"github.com/cory-johannsen/fairdice/internal/game/probability"
)

// ErrNoDieAvailable indicates the set has no selectable die left.
var ErrNoDieAvailable = errors.New("strategy: no die available to select")

// Selector picks a die index for the computer from the available set.
//
// taken is the index already claimed by the human, or -1 when the computer
// selects first. Implementations must never return taken.
type Selector interface {
	SelectDie(set []dice.Die, taken int) (int, error)
}

// Random selects uniformly among the dice the human has not taken. This is
// the default opponent.
type Random struct {
	gen *fairness.Generator
}

// NewRandom creates a Random selector drawing from gen.
//
// Precondition: gen must be non-nil.
func NewRandom(gen *fairness.Generator) *Random {
	return &Random{gen: gen}
}

// SelectDie picks a uniform index over the remaining dice.
//
// Postcondition: the returned index is in [0, len(set)) and != taken.
func (r *Random) SelectDie(set []dice.Die, taken int) (int, error) {
	remaining := remainingIndexes(set, taken)
	if len(remaining) == 0 {
		return 0, ErrNoDieAvailable
	}
	pick, err := r.gen.UniformInt(len(remaining) - 1)
	if err != nil {
		return 0, fmt.Errorf("selecting die: %w", err)
	}
	return remaining[pick], nil
}

// Greedy selects the remaining die with the best worst-case win probability
// against every other remaining die. When the human has already picked,
// this reduces to the best counter against their die.
type Greedy struct{}

// NewGreedy creates a Greedy selector.
func NewGreedy() *Greedy {
	return &Greedy{}
}

// SelectDie maximizes the minimum win probability over the opponent's
// possible (or actual) die.
//
// Postcondition: the returned index is in [0, len(set)) and != taken.
func (g *Greedy) SelectDie(set []dice.Die, taken int) (int, error) {
	remaining := remainingIndexes(set, taken)
	if len(remaining) == 0 {
		return 0, ErrNoDieAvailable
	}

	best := remaining[0]
	bestScore := -1.0
	for _, i := range remaining {
		score := worstCase(set, i, taken)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, nil
}

// worstCase returns the minimum win probability of set[i] against the dice
// the human could (or did) hold.
func worstCase(set []dice.Die, i, taken int) float64 {
	if taken >= 0 {
		return probability.WinProbability(set[i], set[taken])
	}
	worst := 1.0
	for j := range set {
		if j == i {
			continue
		}
		if p := probability.WinProbability(set[i], set[j]); p < worst {
			worst = p
		}
	}
	return worst
}

// remainingIndexes lists the selectable die indexes.
func remainingIndexes(set []dice.Die, taken int) []int {
	out := make([]int, 0, len(set))
	for i := range set {
		if i != taken {
			out = append(out, i)
		}
	}
	return out
}
