package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// MinSetSize is the smallest dice set that makes a meaningful game: with
// fewer than 3 dice a non-transitive cycle cannot exist.
const MinSetSize = 3

// ParseSpec parses a single comma-separated die specification such as
// "2,3,4,5,6,1" into a Die.
//
// Precondition: spec must be a non-empty string.
// Postcondition: Returns a Die or a descriptive error naming the bad token.
func ParseSpec(spec string) (Die, error) {
	if spec == "" {
		return Die{}, fmt.Errorf("dice: empty die specification")
	}

	tokens := strings.Split(spec, ",")
	faces := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		f, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			return Die{}, fmt.Errorf("dice: invalid face %q in %q: faces must be integers", tok, spec)
		}
		faces = append(faces, f)
	}
	return New(faces)
}

// ParseSet parses the positional dice arguments supplied on the command line
// into a playable set.
//
// Precondition: each element of specs is a comma-separated die specification.
// Postcondition: Returns at least MinSetSize dice, or an error identifying
// the first offending argument by its 1-based position.
func ParseSet(specs []string) ([]Die, error) {
	if len(specs) < MinSetSize {
		return nil, fmt.Errorf(
			"dice: at least %d dice required, got %d (example: 2,3,4,5,6,1 1,1,1,1,9,9 7,7,7,2,2,2)",
			MinSetSize, len(specs),
		)
	}

	set := make([]Die, 0, len(specs))
	for i, spec := range specs {
		d, err := ParseSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("dice: invalid die %d: %w", i+1, err)
		}
		set = append(set, d)
	}
	return set, nil
}
