package core

import "context"

// Environment is driven by the runner. Implementations live outside this
// module, the runner only consumes states and rewards.
type Environment[S comparable] interface {
	Reset() (S, error)
	Step(action int) (nextState S, reward float64, done bool, err error)
}

type EnvironmentConstructor[S comparable] interface {
	// NewEnvironment creates a new environment with the given instance number.
	NewEnvironment(int) Environment[S]
}

// EpisodeContext describes one finished episode to the analyzers.
type EpisodeContext struct {
	Context       context.Context
	Episode       int
	Run           int
	StartTimeStep int

	Steps  int
	Return float64
	// Truncated is set when the episode hit the horizon before done.
	Truncated bool
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
	}
}
