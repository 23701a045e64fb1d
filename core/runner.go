package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

var (
	ErrCancelled = errors.New("context cancelled")
)

type ExperimentResult struct {
	CompletedEpisodes int
	TruncatedEpisodes int
	TotalTimeSteps    int
	Returns           []float64

	Error    error
	Datasets map[string]DataSet
}

func newExperimentResult() *ExperimentResult {
	return &ExperimentResult{
		Returns:  make([]float64, 0),
		Datasets: make(map[string]DataSet),
	}
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

// Run drives the learner through cfg.Episodes episodes. An episode ends when
// the environment reports done or after cfg.Horizon steps. Environment
// errors and cancellation stop the run and are reported in the result.
func (e *Experiment[S]) Run(ctx context.Context, cfg *RunConfig) *ExperimentResult {
	return e.run(ctx, 0, cfg)
}

func (e *Experiment[S]) run(ctx context.Context, run int, cfg *RunConfig) *ExperimentResult {
	result := newExperimentResult()
	writer := cfg.writer()
	for _, a := range e.Analyzers {
		a.Reset()
	}

	trace := NewTrace[S]()
EpisodeLoop:
	for episode := 1; episode <= cfg.Episodes; episode++ {
		select {
		case <-ctx.Done():
			result.Error = fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
			break EpisodeLoop
		default:
		}

		eCtx := NewEpisodeContext(ctx)
		eCtx.Run = run
		eCtx.Episode = episode
		eCtx.StartTimeStep = result.TotalTimeSteps

		trace.Reset()
		if err := e.runEpisode(eCtx, cfg.Horizon, trace); err != nil {
			result.Error = err
			break EpisodeLoop
		}

		eCtx.Steps = trace.Len()
		eCtx.Return = trace.Return()
		result.TotalTimeSteps += eCtx.Steps
		result.Returns = append(result.Returns, eCtx.Return)
		result.CompletedEpisodes++
		if eCtx.Truncated {
			result.TruncatedEpisodes++
		}

		for _, a := range e.Analyzers {
			a.Analyze(eCtx)
		}
		fmt.Fprintf(
			writer,
			"Experiment: %s, Run %d, Episode %d/%d, Timesteps: %d, Return: %.3f, Truncated: %d\n",
			e.Name, run, episode, cfg.Episodes, result.TotalTimeSteps, eCtx.Return, result.TruncatedEpisodes,
		)
	}
	if result.Error != nil {
		fmt.Fprintf(writer, "Experiment: %s, Run %d, Error: %v\n", e.Name, run, result.Error)
	}

	for name, a := range e.Analyzers {
		result.Datasets[name] = a.DataSet()
	}
	return result
}

func (e *Experiment[S]) runEpisode(eCtx *EpisodeContext, horizon int, trace *Trace[S]) error {
	state, err := e.Environment.Reset()
	if err != nil {
		return fmt.Errorf("episode %d: reset: %w", eCtx.Episode, err)
	}
	for step := 0; horizon <= 0 || step < horizon; step++ {
		select {
		case <-eCtx.Context.Done():
			return fmt.Errorf("%w: %v", ErrCancelled, eCtx.Context.Err())
		default:
		}

		action := e.Learner.SelectAction(state)
		nextState, reward, done, err := e.Environment.Step(action)
		if err != nil {
			return fmt.Errorf("episode %d, step %d: %w", eCtx.Episode, step, err)
		}
		t := Transition[S]{
			State:     state,
			Action:    action,
			Reward:    reward,
			NextState: nextState,
			Done:      done,
		}
		if err := learn(e.Learner, t); err != nil {
			return fmt.Errorf("episode %d, step %d: %w", eCtx.Episode, step, err)
		}
		trace.AddStep(t)
		if done {
			return nil
		}
		state = nextState
	}
	eCtx.Truncated = true
	return nil
}

// parallelWork is one run of a parallel experiment
type parallelWork[S comparable] struct {
	experiment *ParallelExperiment[S]
	runNumber  int
	rConfig    *RunConfig
}

type parallelResult struct {
	run    int
	result *ExperimentResult
}

// Worker main loop that consumes work from a channel
func runWorker[S comparable](ctx context.Context, id int, workCh <-chan *parallelWork[S], resultsCh chan<- *parallelResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case work, more := <-workCh:
			if !more {
				return
			}
			resultsCh <- &parallelResult{
				run:    work.runNumber,
				result: runWork(ctx, id, work),
			}
		}
	}
}

// Run an experiment by constructing a fresh environment and learner
func runWork[S comparable](ctx context.Context, id int, work *parallelWork[S]) *ExperimentResult {
	learner, err := work.experiment.Learner.NewLearner(work.runNumber)
	if err != nil {
		result := newExperimentResult()
		result.Error = fmt.Errorf("run %d: %w", work.runNumber, err)
		return result
	}
	exp := NewExperiment(work.experiment.Name, work.experiment.Environment.NewEnvironment(id), learner)
	for name, aC := range work.experiment.Analyzers {
		exp.AddAnalysis(name, aC.NewAnalyzer(work.experiment.Name, work.runNumber))
	}
	return exp.run(ctx, work.runNumber, work.rConfig)
}

// Run executes runs independent runs on parallelism workers and returns
// the results indexed by run number. Runs not started before ctx is
// cancelled are left nil.
func (e *ParallelExperiment[S]) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) []*ExperimentResult {
	if parallelism <= 0 {
		parallelism = 1
	}
	results := make([]*ExperimentResult, runs)
	workCh := make(chan *parallelWork[S])
	resultsCh := make(chan *parallelResult, runs)

	// the shared writer is not safe for concurrent use
	cfg := &RunConfig{
		Episodes: rConfig.Episodes,
		Horizon:  rConfig.Horizon,
		Writer:   &lockedWriter{w: rConfig.writer()},
	}

	wg := new(sync.WaitGroup)
	for i := 0; i < parallelism; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runWorker(ctx, id, workCh, resultsCh)
		}(i)
	}

SendLoop:
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			break SendLoop
		case workCh <- &parallelWork[S]{experiment: e, runNumber: run, rConfig: cfg}:
		}
	}
	close(workCh)
	wg.Wait()
	close(resultsCh)

	for r := range resultsCh {
		results[r.run] = r.result
	}
	return results
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
