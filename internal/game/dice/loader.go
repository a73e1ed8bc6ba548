package dice

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlSetFile is the top-level YAML structure for dice set preset files.
type yamlSetFile struct {
	Set yamlSet `yaml:"set"`
}

// yamlSet is the YAML representation of a named dice set.
type yamlSet struct {
	Name string    `yaml:"name"`
	Dice []yamlDie `yaml:"dice"`
}

// yamlDie is the YAML representation of a single die.
type yamlDie struct {
	Faces []int `yaml:"faces"`
}

// Set is a named collection of dice loaded from a preset file.
type Set struct {
	Name string
	Dice []Die
}

// LoadSetFromFile reads and validates a dice set preset YAML file.
//
// Precondition: path must point to a valid YAML dice set file.
// Postcondition: Returns a validated Set or a non-nil error.
func LoadSetFromFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dice set file %s: %w", path, err)
	}
	set, err := LoadSetFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("dice set file %s: %w", path, err)
	}
	return set, nil
}

// LoadSetFromBytes parses and validates a dice set from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the set schema.
// Postcondition: Returns a Set with at least MinSetSize validated dice,
// or a non-nil error.
func LoadSetFromBytes(data []byte) (*Set, error) {
	var file yamlSetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing dice set YAML: %w", err)
	}

	if file.Set.Name == "" {
		return nil, fmt.Errorf("dice set name must not be empty")
	}
	if len(file.Set.Dice) < MinSetSize {
		return nil, fmt.Errorf("dice set %q must contain at least %d dice, got %d",
			file.Set.Name, MinSetSize, len(file.Set.Dice))
	}

	set := &Set{Name: file.Set.Name}
	for i, yd := range file.Set.Dice {
		d, err := New(yd.Faces)
		if err != nil {
			return nil, fmt.Errorf("dice set %q: die %d: %w", file.Set.Name, i+1, err)
		}
		set.Dice = append(set.Dice, d)
	}
	return set, nil
}
