// Package dice provides the six-faced die value type and the parsing of
// player-supplied dice sets for the fairdice game.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FaceCount is the number of faces every die has. The game is defined over
// cubic dice only; sets may still be non-transitive through face values.
const FaceCount = 6

// ErrInvalidDice indicates a die was constructed with the wrong number of faces.
var ErrInvalidDice = errors.New("dice: a die must have exactly 6 integer faces")

// ErrFaceIndex indicates a face lookup outside [0, FaceCount).
var ErrFaceIndex = errors.New("dice: face index out of range")

// Die is an immutable six-faced die. Face values are arbitrary integers;
// duplicates and negative values are allowed.
//
// Invariant: a Die holds exactly FaceCount faces and is never mutated after
// construction.
type Die struct {
	faces [FaceCount]int
}

// New constructs a Die from the given face values.
//
// Precondition: len(faces) == FaceCount.
// Postcondition: Returns a Die holding a copy of faces, or ErrInvalidDice.
func New(faces []int) (Die, error) {
	if len(faces) != FaceCount {
		return Die{}, fmt.Errorf("%w: got %d faces", ErrInvalidDice, len(faces))
	}
	var d Die
	copy(d.faces[:], faces)
	return d, nil
}

// MustNew constructs a Die and panics on error. Useful in tests and presets.
//
// Precondition: faces must contain exactly FaceCount values.
func MustNew(faces []int) Die {
	d, err := New(faces)
	if err != nil {
		panic("dice: MustNew: " + err.Error())
	}
	return d
}

// Face returns the value at the given face index.
//
// Precondition: index in [0, FaceCount).
// Postcondition: Returns the face value, or ErrFaceIndex.
func (d Die) Face(index int) (int, error) {
	if index < 0 || index >= FaceCount {
		return 0, fmt.Errorf("%w: %d", ErrFaceIndex, index)
	}
	return d.faces[index], nil
}

// Faces returns a copy of all face values in order.
//
// Postcondition: len(return) == FaceCount; mutating it does not affect d.
func (d Die) Faces() []int {
	out := make([]int, FaceCount)
	copy(out, d.faces[:])
	return out
}

// String renders the die in the same comma-separated form it is parsed from,
// e.g. "2,3,4,5,6,1".
func (d Die) String() string {
	parts := make([]string, FaceCount)
	for i, f := range d.faces {
		parts[i] = strconv.Itoa(f)
	}
	return strings.Join(parts, ",")
}
