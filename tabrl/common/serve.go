package common

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/zeu5/tabular-rl/policies"
)

var (
	ErrUnknownOp   = errors.New("unknown op")
	ErrLineTooLong = errors.New("request line too long")
)

const (
	OpSelect  = "select"
	OpStep    = "step"
	OpPolicy  = "policy"
	OpValues  = "values"
	OpSummary = "summary"
)

type request struct {
	Op        string          `json:"op"`
	State     json.RawMessage `json:"state"`
	Action    *int            `json:"action"`
	Reward    float64         `json:"reward"`
	NextState json.RawMessage `json:"next_state"`
	Done      bool            `json:"done"`
}

type response struct {
	Action  *int                   `json:"action,omitempty"`
	Policy  []float64              `json:"policy,omitempty"`
	Values  []float64              `json:"values,omitempty"`
	Epsilon *float64               `json:"epsilon,omitempty"`
	Episode *int                   `json:"episode,omitempty"`
	Summary *policies.AgentSummary `json:"summary,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Server answers line delimited JSON requests from an external environment
// driver, one response line per request line. Bad requests get an error
// response and the server keeps reading.
type Server struct {
	agent *policies.Agent[string]
}

func NewServer(agent *policies.Agent[string]) *Server {
	return &Server{agent: agent}
}

// Serve reads requests from in until EOF or until ctx is done. Lines over
// maxLineSize bytes are skipped with an error response.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	w := bufio.NewWriter(out)
	encoder := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line, tooLong, err := readLine(reader, maxLineSize)
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		var resp *response
		if tooLong {
			resp = &response{Error: fmt.Sprintf("%s: limit is %d bytes", ErrLineTooLong, maxLineSize)}
		} else {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			resp = s.handle(line)
		}
		if err := encoder.Encode(resp); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}

// readLine reads up to the next newline. A line longer than limit is
// consumed and dropped, reported with tooLong set.
func readLine(r *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return nil, false, err
		}
		if !tooLong {
			line = append(line, chunk...)
			if len(line) > limit {
				tooLong = true
				line = nil
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

func (s *Server) handle(line []byte) *response {
	req := request{}
	if err := json.Unmarshal(line, &req); err != nil {
		return &response{Error: fmt.Sprintf("malformed request: %s", err)}
	}
	resp, err := s.dispatch(&req)
	if err != nil {
		return &response{Error: fmt.Sprintf("%s: %s", req.Op, err)}
	}
	return resp
}

func (s *Server) dispatch(req *request) (*response, error) {
	switch req.Op {
	case OpSelect:
		state, err := StateKey(req.State)
		if err != nil {
			return nil, err
		}
		action := s.agent.SelectAction(state)
		return &response{Action: &action}, nil
	case OpStep:
		state, err := StateKey(req.State)
		if err != nil {
			return nil, fmt.Errorf("state: %w", err)
		}
		next, err := StateKey(req.NextState)
		if err != nil {
			return nil, fmt.Errorf("next_state: %w", err)
		}
		if err := checkAction(req.Action, s.agent.NumActions()); err != nil {
			return nil, err
		}
		if err := s.agent.TryStep(state, *req.Action, req.Reward, next, req.Done); err != nil {
			return nil, err
		}
		epsilon, episode := s.agent.Epsilon(), s.agent.Episode()
		return &response{Epsilon: &epsilon, Episode: &episode}, nil
	case OpPolicy:
		state, err := StateKey(req.State)
		if err != nil {
			return nil, err
		}
		return &response{Policy: s.agent.Policy(state)}, nil
	case OpValues:
		state, err := StateKey(req.State)
		if err != nil {
			return nil, err
		}
		return &response{Values: s.agent.QValues(state)}, nil
	case OpSummary:
		summary := s.agent.Summary()
		return &response{Summary: &summary}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownOp, req.Op)
}
