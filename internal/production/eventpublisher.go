package production

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/comalice/turingx/internal/core"
)

// ChannelPublisher forwards step events to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch chan<- core.StepEvent
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- core.StepEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, evt core.StepEvent) error {
	select {
	case p.ch <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // dropped
	}
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

// HeadStyle renders the cell under the head in trace output.
var HeadStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

// TracePublisher writes one line per step:
//
//	step 3: state: q1 | head: 2 | tape: 11B
//
// With Color set, the cell under the head is rendered with HeadStyle.
type TracePublisher struct {
	mu    sync.Mutex
	w     io.Writer
	Color bool
}

// NewTracePublisher returns a TracePublisher writing to w.
func NewTracePublisher(w io.Writer, color bool) *TracePublisher {
	return &TracePublisher{w: w, Color: color}
}

func (p *TracePublisher) Publish(ctx context.Context, evt core.StepEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	line := fmt.Sprintf("step %d: state: %s | head: %d | tape: %s", evt.Step, evt.To, evt.Head, p.renderTape(evt))
	switch {
	case evt.Shortcut:
		line += " (shortcut " + string(evt.From) + ")"
	case evt.Halted:
		line += " (halted: " + evt.Reason.String() + ")"
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

// Header writes the initial configuration before the first step.
func (p *TracePublisher) Header(m *core.Machine) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	lo, _ := m.TapeBounds()
	evt := core.StepEvent{Head: m.Head(), TapeStart: lo, Tape: m.TapeString()}
	_, err := fmt.Fprintf(p.w, "step 0: state: %s | head: %d | tape: %s\n", m.State(), m.Head(), p.renderTape(evt))
	return err
}

func (p *TracePublisher) renderTape(evt core.StepEvent) string {
	if !p.Color {
		return evt.Tape
	}
	cells := []rune(evt.Tape)
	i := evt.Head - evt.TapeStart
	if i < 0 || i >= len(cells) {
		return evt.Tape
	}
	return string(cells[:i]) + HeadStyle.Render(string(cells[i])) + string(cells[i+1:])
}
