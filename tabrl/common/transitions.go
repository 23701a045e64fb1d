package common

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zeu5/tabular-rl/core"
	"github.com/zeu5/tabular-rl/util"
)

var (
	ErrMissingState  = errors.New("missing state")
	ErrMissingAction = errors.New("missing action")
	ErrActionRange   = errors.New("action out of range")
)

const maxLineSize = 1 << 20

// transitionRecord is one line of a transition log. States may be any JSON
// value, their compact encoding is used as the table key.
type transitionRecord struct {
	State     json.RawMessage `json:"state"`
	Action    *int            `json:"action"`
	Reward    float64         `json:"reward"`
	NextState json.RawMessage `json:"next_state"`
	Done      bool            `json:"done"`
}

// StateKey turns a JSON state value into a table key.
func StateKey(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", ErrMissingState
	}
	return util.CompactJson(raw)
}

func checkAction(action *int, actions int) error {
	if action == nil {
		return ErrMissingAction
	}
	if *action < 0 || *action >= actions {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrActionRange, *action, actions)
	}
	return nil
}

func (r *transitionRecord) transition(actions int) (core.Transition[string], error) {
	var t core.Transition[string]
	state, err := StateKey(r.State)
	if err != nil {
		return t, fmt.Errorf("state: %w", err)
	}
	next, err := StateKey(r.NextState)
	if err != nil {
		return t, fmt.Errorf("next_state: %w", err)
	}
	if err := checkAction(r.Action, actions); err != nil {
		return t, err
	}
	t.State = state
	t.Action = *r.Action
	t.Reward = r.Reward
	t.NextState = next
	t.Done = r.Done
	return t, nil
}

// JSONLSource reads line delimited JSON transitions. Blank lines are
// skipped.
type JSONLSource struct {
	scanner *bufio.Scanner
	actions int
	line    int
}

var _ core.TransitionSource[string] = &JSONLSource{}

func NewJSONLSource(r io.Reader, actions int) *JSONLSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &JSONLSource{
		scanner: scanner,
		actions: actions,
	}
}

func (s *JSONLSource) Next() (core.Transition[string], error) {
	for s.scanner.Scan() {
		s.line++
		bs := s.scanner.Bytes()
		if len(bytes.TrimSpace(bs)) == 0 {
			continue
		}
		record := transitionRecord{}
		if err := json.Unmarshal(bs, &record); err != nil {
			return core.Transition[string]{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		t, err := record.transition(s.actions)
		if err != nil {
			return t, fmt.Errorf("line %d: %w", s.line, err)
		}
		return t, nil
	}
	if err := s.scanner.Err(); err != nil {
		return core.Transition[string]{}, fmt.Errorf("line %d: %w", s.line+1, err)
	}
	return core.Transition[string]{}, io.EOF
}
