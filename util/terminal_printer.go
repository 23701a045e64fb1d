package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// TerminalPrinter redraws the latest line of each of its outputs in place.
type TerminalPrinter struct {
	outputs   []*LiveOutput
	frequency time.Duration
	doneCh    chan struct{}
	stoppedCh chan struct{}

	writer  *uilive.Writer
	writers []io.Writer
}

func NewTerminalPrinter(out io.Writer, frequency time.Duration) *TerminalPrinter {
	writer := uilive.New()
	writer.Out = out
	return &TerminalPrinter{
		outputs:   make([]*LiveOutput, 0),
		frequency: frequency,
		doneCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),

		writer:  writer,
		writers: make([]io.Writer, 0),
	}
}

// NewOutput adds an output line. The first one is drawn by the root writer.
func (p *TerminalPrinter) NewOutput() *LiveOutput {
	out := NewLiveOutput()
	if len(p.outputs) == 0 {
		p.writers = append(p.writers, p.writer)
	} else {
		p.writers = append(p.writers, p.writer.Newline())
	}
	p.outputs = append(p.outputs, out)
	return out
}

func (p *TerminalPrinter) Start(ctx context.Context) {
	go func() {
		defer close(p.stoppedCh)
		for {
			select {
			case <-p.doneCh:
				p.print()
				return
			case <-ctx.Done():
				p.print()
				return
			case <-time.After(p.frequency):
				p.print()
			}
		}
	}()
}

// Stop draws the outputs a last time and waits for the printer to exit.
func (p *TerminalPrinter) Stop() {
	close(p.doneCh)
	<-p.stoppedCh
}

func (p *TerminalPrinter) print() {
	for i, output := range p.outputs {
		fmt.Fprint(p.writers[i], output.Get()+"\n")
	}
	p.writer.Flush()
}

// LiveOutput keeps the last line written to it.
type LiveOutput struct {
	mu        *sync.Mutex
	printable string
}

var _ io.Writer = &LiveOutput{}

func NewLiveOutput() *LiveOutput {
	return &LiveOutput{
		mu:        new(sync.Mutex),
		printable: "",
	}
}

// Set the output string (blocking)
func (p *LiveOutput) Set(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printable = s
}

// Write keeps the last non-empty line of b.
func (p *LiveOutput) Write(b []byte) (int, error) {
	lines := bytes.Split(bytes.TrimRight(b, "\n"), []byte("\n"))
	if last := lines[len(lines)-1]; len(last) > 0 {
		p.Set(string(last))
	}
	return len(b), nil
}

// Get the output string (blocking)
func (p *LiveOutput) Get() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printable
}
