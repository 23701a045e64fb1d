package policies

import (
	"gonum.org/v1/gonum/floats"
)

// QTable maps a state to one value per action. Entries are created lazily,
// an absent state reads as all zeros and stays in the table once touched.
type QTable[S comparable] struct {
	table   map[S][]float64
	actions int
}

func NewQTable[S comparable](actions int) *QTable[S] {
	return &QTable[S]{
		table:   make(map[S][]float64),
		actions: actions,
	}
}

// GetOrDefault returns the action values of state, inserting a zero vector
// if the state has not been seen. The returned slice is the stored entry.
func (q *QTable[S]) GetOrDefault(state S) []float64 {
	values, ok := q.table[state]
	if !ok {
		values = make([]float64, q.actions)
		q.table[state] = values
	}
	return values
}

func (q *QTable[S]) Get(state S, action int) float64 {
	return q.GetOrDefault(state)[action]
}

func (q *QTable[S]) Set(state S, action int, val float64) {
	q.GetOrDefault(state)[action] = val
}

// Copy returns a copy of the action values of state.
func (q *QTable[S]) Copy(state S) []float64 {
	values := q.GetOrDefault(state)
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// ArgMax returns the greedy action, the lowest index wins ties.
func (q *QTable[S]) ArgMax(state S) int {
	return floats.MaxIdx(q.GetOrDefault(state))
}

func (q *QTable[S]) Max(state S) float64 {
	return floats.Max(q.GetOrDefault(state))
}

func (q *QTable[S]) Exists(state S) bool {
	_, ok := q.table[state]
	return ok
}

func (q *QTable[S]) Size() int {
	return len(q.table)
}

func (q *QTable[S]) Actions() int {
	return q.actions
}

func (q *QTable[S]) States() []S {
	states := make([]S, 0, len(q.table))
	for s := range q.table {
		states = append(states, s)
	}
	return states
}
