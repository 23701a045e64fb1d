package policies

import (
	"errors"
	"fmt"
)

// Target selects how the TD target bootstraps from the next state.
type Target string

const (
	// ExpectedSARSA bootstraps on the expected action value under the
	// current epsilon-greedy policy.
	ExpectedSARSA Target = "expected-sarsa"
	// QLearning bootstraps on the greedy (max) action value.
	QLearning Target = "q-learning"
)

var ErrUnknownTarget = errors.New("unknown bootstrap target")

func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case ExpectedSARSA, QLearning:
		return t, nil
	case "":
		return ExpectedSARSA, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

func (t Target) String() string {
	return string(t)
}
