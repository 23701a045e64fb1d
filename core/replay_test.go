package core_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/zeu5/tabular-rl/core"
	"github.com/zeu5/tabular-rl/policies"
)

type failingSource struct {
	left int
}

func (f *failingSource) Next() (core.Transition[string], error) {
	if f.left == 0 {
		return core.Transition[string]{}, errBoom
	}
	f.left--
	return core.Transition[string]{State: "a", Action: 0, Reward: 1, NextState: "a"}, nil
}

func TestReplayEpisodes(t *testing.T) {
	transitions := []core.Transition[string]{
		{State: "A", Action: 0, Reward: 1, NextState: "A"},
		{State: "A", Action: 0, Reward: 1, NextState: "A", Done: true},
		{State: "B", Action: 1, Reward: -1, NextState: "C"},
		{State: "C", Action: 1, Reward: 3, NextState: "D", Done: true},
		{State: "D", Action: 0, Reward: 5, NextState: "D"},
	}
	agent, err := policies.NewAgent[string](policies.Config{NumActions: 2, Alpha: 0.5, Gamma: 1.0, Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	analyzer := &countingAnalyzer{}
	result := core.Replay[string](
		context.Background(),
		agent,
		core.NewSliceSource(transitions),
		&core.RunConfig{},
		map[string]core.Analyzer{"count": analyzer},
	)
	if result.IsError() {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.CompletedEpisodes != 2 || result.TotalTimeSteps != 5 {
		t.Fatalf("expected 2 episodes over 5 steps, got %d and %d", result.CompletedEpisodes, result.TotalTimeSteps)
	}
	if len(result.Returns) != 2 || result.Returns[0] != 2 || result.Returns[1] != 2 {
		t.Fatalf("unexpected returns %v", result.Returns)
	}
	if agent.Episode() != 3 || agent.Epsilon() != 1.0/3 {
		t.Fatalf("expected episode 3 and epsilon 1/3, got %d and %v", agent.Episode(), agent.Epsilon())
	}
	if got := agent.QValues("A")[0]; got != 0.9375 {
		t.Fatalf("expected Q[A][0] = 0.9375, got %v", got)
	}
	if len(analyzer.episodes) != 2 || analyzer.episodes[1] != 2 {
		t.Fatalf("unexpected analyzer episodes %v", analyzer.episodes)
	}
}

func TestReplaySourceError(t *testing.T) {
	agent, _ := policies.NewAgent[string](policies.Config{NumActions: 1, Alpha: 0.5, Gamma: 1.0, Seed: 1})
	result := core.Replay[string](context.Background(), agent, &failingSource{left: 2}, nil, nil)
	if !errors.Is(result.Error, errBoom) {
		t.Fatalf("expected errBoom, got %v", result.Error)
	}
	if result.TotalTimeSteps != 2 {
		t.Fatalf("expected 2 steps before the error, got %d", result.TotalTimeSteps)
	}
}

func TestReplayNonFiniteUpdate(t *testing.T) {
	transitions := []core.Transition[string]{
		{State: "A", Action: 0, Reward: 1.7e308, NextState: "A"},
		{State: "A", Action: 0, Reward: 1.7e308, NextState: "A", Done: true},
		{State: "A", Action: 1, Reward: 1, NextState: "A"},
	}
	agent, _ := policies.NewAgent[string](policies.Config{NumActions: 2, Alpha: 1.0, Gamma: 1.0, Seed: 1})
	result := core.Replay[string](context.Background(), agent, core.NewSliceSource(transitions), nil, nil)
	if !errors.Is(result.Error, policies.ErrNonFinite) {
		t.Fatalf("expected ErrNonFinite, got %v", result.Error)
	}
	if result.TotalTimeSteps != 1 || result.CompletedEpisodes != 0 {
		t.Fatalf("expected to stop after 1 step, got %d steps and %d episodes", result.TotalTimeSteps, result.CompletedEpisodes)
	}
	if agent.Episode() != 1 || agent.QValues("A")[0] != 1.7e308 {
		t.Fatalf("expected the rejected step to leave the agent alone, got episode %d values %v", agent.Episode(), agent.QValues("A"))
	}
}

func TestReplayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	agent, _ := policies.NewAgent[string](policies.Config{NumActions: 1, Alpha: 0.5, Gamma: 1.0, Seed: 1})
	result := core.Replay[string](ctx, agent, &failingSource{left: 10}, nil, nil)
	if !errors.Is(result.Error, core.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", result.Error)
	}
}

func TestSliceSource(t *testing.T) {
	src := core.NewSliceSource([]core.Transition[int]{{State: 1}, {State: 2}})
	for _, want := range []int{1, 2} {
		tr, err := src.Next()
		if err != nil || tr.State != want {
			t.Fatalf("expected state %d, got %v (%v)", want, tr.State, err)
		}
	}
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestTrace(t *testing.T) {
	trace := core.NewTrace[int]()
	trace.AddStep(core.Transition[int]{State: 0, Reward: 1.5})
	trace.AddStep(core.Transition[int]{State: 1, Reward: -0.5, Done: true})
	if trace.Len() != 2 || trace.Return() != 1 {
		t.Fatalf("expected 2 steps returning 1, got %d and %v", trace.Len(), trace.Return())
	}
	if !trace.Last().Done || trace.Step(0).State != 0 {
		t.Fatalf("unexpected steps in trace")
	}
	trace.Reset()
	if trace.Len() != 0 {
		t.Fatalf("expected empty trace after reset")
	}
}
