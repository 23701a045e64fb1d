package core

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// TransitionSource yields recorded transitions in order and returns io.EOF
// once exhausted.
type TransitionSource[S comparable] interface {
	Next() (Transition[S], error)
}

// SliceSource serves transitions from memory.
type SliceSource[S comparable] struct {
	transitions []Transition[S]
	next        int
}

func NewSliceSource[S comparable](transitions []Transition[S]) *SliceSource[S] {
	return &SliceSource[S]{transitions: transitions}
}

func (s *SliceSource[S]) Next() (Transition[S], error) {
	if s.next >= len(s.transitions) {
		var zero Transition[S]
		return zero, io.EOF
	}
	t := s.transitions[s.next]
	s.next++
	return t, nil
}

// Replay feeds every transition of source to the learner. Episodes are
// delimited by transitions with Done set; trailing steps after the last
// such transition count as time steps but not as an episode.
func Replay[S comparable](ctx context.Context, learner Learner[S], source TransitionSource[S], cfg *RunConfig, analyzers map[string]Analyzer) *ExperimentResult {
	result := newExperimentResult()
	writer := cfg.writer()
	for _, a := range analyzers {
		a.Reset()
	}

	episode := 1
	eCtx := NewEpisodeContext(ctx)
	eCtx.Episode = episode
ReplayLoop:
	for {
		select {
		case <-ctx.Done():
			result.Error = fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
			break ReplayLoop
		default:
		}

		t, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Error = fmt.Errorf("episode %d, step %d: %w", episode, eCtx.Steps, err)
			break
		}

		if err := learn(learner, t); err != nil {
			result.Error = fmt.Errorf("episode %d, step %d: %w", episode, eCtx.Steps, err)
			break
		}
		result.TotalTimeSteps++
		eCtx.Steps++
		eCtx.Return += t.Reward
		if !t.Done {
			continue
		}

		result.CompletedEpisodes++
		result.Returns = append(result.Returns, eCtx.Return)
		for _, a := range analyzers {
			a.Analyze(eCtx)
		}
		fmt.Fprintf(
			writer,
			"Replay: Episode %d, Timesteps: %d, Return: %.3f\n",
			episode, result.TotalTimeSteps, eCtx.Return,
		)

		episode++
		eCtx = NewEpisodeContext(ctx)
		eCtx.Episode = episode
		eCtx.StartTimeStep = result.TotalTimeSteps
	}
	if result.Error != nil {
		fmt.Fprintf(writer, "Replay: Error: %v\n", result.Error)
	}

	for name, a := range analyzers {
		result.Datasets[name] = a.DataSet()
	}
	return result
}
