// Package probability computes pairwise win probabilities between dice.
// Pure functions over the dice value type; no randomness involved.
package probability

import "github.com/cory-johannsen/fairdice/internal/game/dice"

// WinProbability returns the probability that die a strictly beats die b
// when both are rolled fairly: the fraction of the 36 equally likely face
// pairings where a's face exceeds b's.
//
// Postcondition: 0 <= result <= 1;
// WinProbability(a,b) + WinProbability(b,a) + TieProbability(a,b) == 1.
func WinProbability(a, b dice.Die) float64 {
	wins := 0
	for _, fa := range a.Faces() {
		for _, fb := range b.Faces() {
			if fa > fb {
				wins++
			}
		}
	}
	return float64(wins) / float64(dice.FaceCount*dice.FaceCount)
}

// TieProbability returns the probability that a and b roll equal faces.
func TieProbability(a, b dice.Die) float64 {
	ties := 0
	for _, fa := range a.Faces() {
		for _, fb := range b.Faces() {
			if fa == fb {
				ties++
			}
		}
	}
	return float64(ties) / float64(dice.FaceCount*dice.FaceCount)
}

// Matrix returns the full pairwise win-probability table for a dice set:
// result[i][j] is the probability that set[i] beats set[j]. The diagonal is
// a die against itself and is informational only.
//
// Postcondition: result is len(set) x len(set).
func Matrix(set []dice.Die) [][]float64 {
	m := make([][]float64, len(set))
	for i := range set {
		m[i] = make([]float64, len(set))
		for j := range set {
			m[i][j] = WinProbability(set[i], set[j])
		}
	}
	return m
}
