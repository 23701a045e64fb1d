package core

import "io"

type DataSet interface{}

// Analyzer is called after every completed episode.
type Analyzer interface {
	Analyze(*EpisodeContext)
	DataSet() DataSet
	Reset()
}

type AnalyzerConstructor interface {
	// new analyzer based on experiment name and run
	NewAnalyzer(string, int) Analyzer
}

type RunConfig struct {
	Episodes int
	// Horizon caps the steps of an episode, 0 means no cap.
	Horizon int

	// Writer receives one progress line per episode, nil discards them.
	Writer io.Writer
}

func (c *RunConfig) writer() io.Writer {
	if c == nil || c.Writer == nil {
		return io.Discard
	}
	return c.Writer
}

type Experiment[S comparable] struct {
	Name        string
	Environment Environment[S]
	Learner     Learner[S]
	Analyzers   map[string]Analyzer
}

func NewExperiment[S comparable](name string, env Environment[S], learner Learner[S]) *Experiment[S] {
	return &Experiment[S]{
		Name:        name,
		Environment: env,
		Learner:     learner,
		Analyzers:   make(map[string]Analyzer),
	}
}

func (e *Experiment[S]) AddAnalysis(name string, a Analyzer) {
	e.Analyzers[name] = a
}

// ParallelExperiment runs independent copies of an experiment. Every run
// gets its own environment and learner.
type ParallelExperiment[S comparable] struct {
	Name        string
	Environment EnvironmentConstructor[S]
	Learner     LearnerConstructor[S]
	Analyzers   map[string]AnalyzerConstructor
}

func NewParallelExperiment[S comparable](name string, env EnvironmentConstructor[S], learner LearnerConstructor[S]) *ParallelExperiment[S] {
	return &ParallelExperiment[S]{
		Name:        name,
		Environment: env,
		Learner:     learner,
		Analyzers:   make(map[string]AnalyzerConstructor),
	}
}

func (e *ParallelExperiment[S]) AddAnalysis(name string, a AnalyzerConstructor) {
	e.Analyzers[name] = a
}
