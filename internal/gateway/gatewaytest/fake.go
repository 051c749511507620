// Package gatewaytest provides a scripted Gateway for pipeline tests.
package gatewaytest

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/minutes-flow/internal/gateway"
)

// Step is one scripted gateway outcome.
type Step struct {
	Text string
	Err  error
}

// Call records one Invoke for later inspection.
type Call struct {
	Prompt string
	Params gateway.GenerationParams
}

// Fake replays a fixed script of outcomes, one per Invoke, and records every
// call. Safe for concurrent use.
type Fake struct {
	mu    sync.Mutex
	steps []Step
	calls []Call
}

// New creates a Fake that replays the given steps in order.
func New(steps ...Step) *Fake {
	return &Fake{steps: steps}
}

// Reply builds a successful step.
func Reply(text string) Step {
	return Step{Text: text}
}

// Fail builds a failed step with the given classification.
func Fail(kind gateway.ErrorKind) Step {
	return Step{Err: gateway.NewModelError(kind, fmt.Errorf("scripted %s failure", kind))}
}

// Enqueue appends more steps to the script.
func (f *Fake) Enqueue(steps ...Step) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steps = append(f.steps, steps...)
}

// Calls returns a copy of all recorded invocations.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Invoke pops the next scripted step. Running past the end of the script is
// a test bug and fails with an unknown model error.
func (f *Fake) Invoke(ctx context.Context, prompt string, params gateway.GenerationParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", gateway.NewModelError(gateway.KindTimeout, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Prompt: prompt, Params: params})

	if len(f.steps) == 0 {
		return "", gateway.NewModelError(gateway.KindUnknown, fmt.Errorf("gatewaytest: script exhausted after %d calls", len(f.calls)))
	}

	step := f.steps[0]
	f.steps = f.steps[1:]
	return step.Text, step.Err
}
