// Package orchestrator sequences the four minutes-generation stages over a
// shared pipeline state.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
	"github.com/nguyentantai21042004/minutes-flow/internal/stage"
)

// HaltedError reports the stage that stopped a run. The partially filled
// state is still returned alongside it; callers render what completed and
// explain the rest from the stage log.
type HaltedError struct {
	Stage  string
	Reason string
}

func (e *HaltedError) Error() string {
	return fmt.Sprintf("pipeline halted at %s: %s", e.Stage, e.Reason)
}

// Orchestrator owns the ordered stage list and runs them strictly in
// sequence. Each run gets its own State, so concurrent runs need no locking
// here.
type Orchestrator struct {
	runner *stage.Runner
	stages []stage.Definition
	logger logger.Logger
}

// New creates an Orchestrator over the given stages.
func New(runner *stage.Runner, stages []stage.Definition, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		runner: runner,
		stages: stages,
		logger: log,
	}
}

// Run processes one transcript through all stages. The returned State is
// never nil: on a halt it carries everything produced so far plus the stage
// log, and the error is a *HaltedError naming the failed stage. Cancellation
// is honored between stages, not inside a model call already in flight.
func (o *Orchestrator) Run(ctx context.Context, rawTranscript string) (*minutes.State, error) {
	s := minutes.NewState(rawTranscript)

	if strings.TrimSpace(rawTranscript) == "" {
		s.Status = minutes.RunHalted
		return s, &HaltedError{Stage: stage.NameTranscriptProcessor, Reason: "empty transcript"}
	}

	s.Status = minutes.RunRunning
	o.logger.Info(ctx, "Run %s started (%d words)", s.RunID, s.WordCount)

	for _, def := range o.stages {
		if err := ctx.Err(); err != nil {
			s.Status = minutes.RunHalted
			o.logger.Warn(ctx, "Run %s cancelled before stage %s", s.RunID, def.Name)
			return s, &HaltedError{Stage: def.Name, Reason: err.Error()}
		}

		result := o.runner.Run(ctx, def, s)
		if result.Status == minutes.StageFailed {
			s.Status = minutes.RunHalted
			o.logger.Error(ctx, "Run %s halted at %s: %s", s.RunID, def.Name, result.ErrorDetail)
			return s, &HaltedError{Stage: def.Name, Reason: result.ErrorDetail}
		}

		o.logger.Info(ctx, "Run %s stage %s finished: %s (%d attempt(s), %s)",
			s.RunID, def.Name, result.Status, result.Attempts, result.Duration)
	}

	s.Status = minutes.RunCompleted
	s.CompletedAt = time.Now()
	o.logger.Info(ctx, "Run %s completed in %s", s.RunID, s.CompletedAt.Sub(s.StartedAt))

	return s, nil
}
