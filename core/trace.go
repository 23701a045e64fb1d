package core

import "sync"

// Transition is one (state, action, reward, next state, done) tuple.
type Transition[S comparable] struct {
	State     S       `json:"state"`
	Action    int     `json:"action"`
	Reward    float64 `json:"reward"`
	NextState S       `json:"next_state"`
	Done      bool    `json:"done"`
}

type Trace[S comparable] struct {
	mtx   *sync.Mutex
	steps []Transition[S]
}

func NewTrace[S comparable]() *Trace[S] {
	return &Trace[S]{
		steps: make([]Transition[S], 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace[S]) AddStep(s Transition[S]) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace[S]) Step(i int) Transition[S] {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace[S]) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

func (t *Trace[S]) Last() Transition[S] {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[len(t.steps)-1]
}

// Return is the undiscounted sum of rewards in the trace.
func (t *Trace[S]) Return() float64 {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	sum := 0.0
	for _, s := range t.steps {
		sum += s.Reward
	}
	return sum
}

func (t *Trace[S]) Reset() {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = t.steps[:0]
}
