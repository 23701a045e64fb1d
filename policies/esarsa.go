package policies

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zeu5/tabular-rl/core"
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/sampleuv"
)

var (
	ErrInvalidActions = errors.New("number of actions must be positive")
	ErrInvalidAlpha   = errors.New("alpha must be in (0, 1]")
	ErrInvalidGamma   = errors.New("gamma must be in [0, 1]")

	ErrActionOutOfRange = errors.New("action out of range")
	ErrNonFinite        = errors.New("non-finite action value")
)

// Config holds the fixed hyperparameters of an Agent.
type Config struct {
	NumActions int
	Alpha      float64
	Gamma      float64
	Target     Target

	// ZeroTerminal drops the bootstrap term on transitions with done set.
	// Off by default, in which case terminal transitions still bootstrap
	// from the next state.
	ZeroTerminal bool

	// Seed for action sampling, 0 seeds from the clock.
	Seed uint64
}

func DefaultConfig(actions int) Config {
	return Config{
		NumActions: actions,
		Alpha:      0.01,
		Gamma:      1.0,
		Target:     ExpectedSARSA,
	}
}

func (c Config) validate() error {
	if c.NumActions <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidActions, c.NumActions)
	}
	if !(c.Alpha > 0 && c.Alpha <= 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidAlpha, c.Alpha)
	}
	if !(c.Gamma >= 0 && c.Gamma <= 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidGamma, c.Gamma)
	}
	if _, err := ParseTarget(string(c.Target)); err != nil {
		return err
	}
	return nil
}

// Agent learns a Q-table with an epsilon-greedy behaviour policy. Epsilon
// starts at 1 and is set to 1/episode each time an episode ends.
//
// An Agent is not safe for concurrent use.
type Agent[S comparable] struct {
	qTable *QTable[S]
	config Config

	epsilon float64
	episode int

	rand erand.Source
}

var _ core.CheckedLearner[string] = &Agent[string]{}

func NewAgent[S comparable](config Config) (*Agent[S], error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.Target == "" {
		config.Target = ExpectedSARSA
	}
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Agent[S]{
		qTable:  NewQTable[S](config.NumActions),
		config:  config,
		epsilon: 1.0,
		episode: 1,
		rand:    erand.NewSource(seed),
	}, nil
}

// Policy returns the epsilon-greedy action distribution at state.
func (a *Agent[S]) Policy(state S) []float64 {
	return a.policy(state, a.epsilon)
}

func (a *Agent[S]) policy(state S, epsilon float64) []float64 {
	n := a.config.NumActions
	policy := make([]float64, n)
	for i := range policy {
		policy[i] = epsilon / float64(n)
	}
	policy[a.qTable.ArgMax(state)] += 1 - epsilon
	return policy
}

// NextQ is the bootstrap value of state under the configured target.
func (a *Agent[S]) NextQ(state S) float64 {
	return a.nextQ(state, a.epsilon)
}

func (a *Agent[S]) nextQ(state S, epsilon float64) float64 {
	switch a.config.Target {
	case QLearning:
		return a.qLearningNextQ(state)
	default:
		return a.expectedSARSANextQ(state, epsilon)
	}
}

func (a *Agent[S]) qLearningNextQ(state S) float64 {
	return a.qTable.Max(state)
}

func (a *Agent[S]) expectedSARSANextQ(state S, epsilon float64) float64 {
	policy := a.policy(state, epsilon)
	return floats.Dot(a.qTable.GetOrDefault(state), policy)
}

// SelectAction samples an action from Policy(state).
func (a *Agent[S]) SelectAction(state S) int {
	policy := a.Policy(state)
	i, ok := sampleuv.NewWeighted(policy, a.rand).Take()
	if !ok {
		// unreachable while epsilon > 0, the weights always sum to 1
		return a.qTable.ArgMax(state)
	}
	return i
}

// Step applies one TD update for the transition (state, action, reward,
// nextState). When done is set the episode counter advances and epsilon
// decays before the target is computed. An action outside [0, NumActions)
// or a non-finite updated value panics.
func (a *Agent[S]) Step(state S, action int, reward float64, nextState S, done bool) {
	if err := a.TryStep(state, action, reward, nextState, done); err != nil {
		panic(err)
	}
}

// TryStep is Step returning an error instead of panicking. On error the
// action values, epsilon and the episode counter are left as they were.
func (a *Agent[S]) TryStep(state S, action int, reward float64, nextState S, done bool) error {
	if action < 0 || action >= a.config.NumActions {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrActionOutOfRange, action, a.config.NumActions)
	}
	epsilon, episode := a.epsilon, a.episode
	if done {
		episode++
		epsilon = 1.0 / float64(episode)
	}

	nextQ := a.nextQ(nextState, epsilon)
	if done && a.config.ZeroTerminal {
		nextQ = 0
	}
	target := reward + a.config.Gamma*nextQ

	values := a.qTable.GetOrDefault(state)
	updated := values[action] + a.config.Alpha*(target-values[action])
	if math.IsNaN(updated) || math.IsInf(updated, 0) {
		return fmt.Errorf("%w: %v for action %d", ErrNonFinite, updated, action)
	}
	values[action] = updated
	a.epsilon, a.episode = epsilon, episode
	return nil
}

func (a *Agent[S]) Epsilon() float64 { return a.epsilon }

func (a *Agent[S]) Episode() int { return a.episode }

func (a *Agent[S]) NumActions() int { return a.config.NumActions }

func (a *Agent[S]) Alpha() float64 { return a.config.Alpha }

func (a *Agent[S]) Gamma() float64 { return a.config.Gamma }

func (a *Agent[S]) Target() Target { return a.config.Target }

// QValues returns a copy of the action values of state.
func (a *Agent[S]) QValues(state S) []float64 {
	return a.qTable.Copy(state)
}

func (a *Agent[S]) Table() *QTable[S] {
	return a.qTable
}

// AgentSummary is the scalar state of an Agent, used in run reports.
type AgentSummary struct {
	NumActions   int     `json:"num_actions"`
	Alpha        float64 `json:"alpha"`
	Gamma        float64 `json:"gamma"`
	Target       Target  `json:"target"`
	ZeroTerminal bool    `json:"zero_terminal"`
	Epsilon      float64 `json:"epsilon"`
	Episode      int     `json:"episode"`
	States       int     `json:"states"`
}

func (a *Agent[S]) Summary() AgentSummary {
	return AgentSummary{
		NumActions:   a.config.NumActions,
		Alpha:        a.config.Alpha,
		Gamma:        a.config.Gamma,
		Target:       a.config.Target,
		ZeroTerminal: a.config.ZeroTerminal,
		Epsilon:      a.epsilon,
		Episode:      a.episode,
		States:       a.qTable.Size(),
	}
}

// AgentConstructor builds a fresh Agent per run.
type AgentConstructor[S comparable] struct {
	config Config
}

func NewAgentConstructor[S comparable](config Config) *AgentConstructor[S] {
	return &AgentConstructor[S]{config: config}
}

// NewLearner offsets a fixed seed by the run number so runs sample
// independently.
func (c *AgentConstructor[S]) NewLearner(run int) (core.Learner[S], error) {
	config := c.config
	if config.Seed != 0 {
		config.Seed += uint64(run)
	}
	agent, err := NewAgent[S](config)
	if err != nil {
		return nil, err
	}
	return agent, nil
}
