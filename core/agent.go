package core

// Learner is the agent side of the training loop. States are opaque
// comparable values, actions are indices in [0, n).
type Learner[S comparable] interface {
	SelectAction(S) int
	Step(state S, action int, reward float64, nextState S, done bool)
}

// CheckedLearner reports a rejected update as an error instead of
// panicking. The runners prefer TryStep when a learner has it.
type CheckedLearner[S comparable] interface {
	Learner[S]
	TryStep(state S, action int, reward float64, nextState S, done bool) error
}

func learn[S comparable](l Learner[S], t Transition[S]) error {
	if c, ok := l.(CheckedLearner[S]); ok {
		return c.TryStep(t.State, t.Action, t.Reward, t.NextState, t.Done)
	}
	l.Step(t.State, t.Action, t.Reward, t.NextState, t.Done)
	return nil
}

type LearnerConstructor[S comparable] interface {
	// new learner for the given run number
	NewLearner(int) (Learner[S], error)
}
