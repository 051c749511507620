package stage

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/gateway"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
	"github.com/nguyentantai21042004/minutes-flow/internal/progress"
)

// Runner executes one stage at a time: prompt build, gateway call with
// bounded retry, parse, and state merge. All recovery that the failure class
// permits happens here; only unrecoverable outcomes surface as a failed
// StageResult.
type Runner struct {
	gateway  gateway.Gateway
	reporter progress.Reporter
	logger   logger.Logger
	retry    RetryConfig

	// sleep is swapped out in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a stage Runner.
func NewRunner(gw gateway.Gateway, reporter progress.Reporter, log logger.Logger, retry RetryConfig) *Runner {
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}
	return &Runner{
		gateway:  gw,
		reporter: reporter,
		logger:   log,
		retry:    retry,
		sleep:    sleepCtx,
	}
}

// Run executes def against s. On success or degradation the stage's output
// fields are written into s; on failure they are left unset. The result is
// always appended to the stage log before returning.
func (r *Runner) Run(ctx context.Context, def Definition, s *minutes.State) minutes.StageResult {
	start := time.Now()
	r.reporter.Report(progress.Event{RunID: s.RunID, Stage: def.Name, Status: progress.StatusStarted})

	result := r.execute(ctx, def, s)
	result.Stage = def.Name
	result.Duration = time.Since(start)
	s.AppendResult(result)

	r.reporter.Report(progress.Event{
		RunID:   s.RunID,
		Stage:   def.Name,
		Status:  finishedStatus(result.Status),
		Attempt: result.Attempts,
		Elapsed: result.Duration,
	})

	return result
}

func (r *Runner) execute(ctx context.Context, def Definition, s *minutes.State) minutes.StageResult {
	prompt := def.BuildPrompt(s)

	raw, attempts, err := r.invokeWithRetry(ctx, prompt, def.Params)
	if err != nil && gateway.KindOf(err) != gateway.KindMalformedResponse {
		r.logger.Error(ctx, "Stage %s failed: %v", def.Name, err)
		return minutes.StageResult{
			Status:      minutes.StageFailed,
			Attempts:    attempts,
			ErrorDetail: err.Error(),
		}
	}

	// A malformed reply (empty or garbled past the transport layer) is
	// handled like a reply that failed validation: repair once, then degrade.
	parseErr := err
	if parseErr == nil {
		parseErr = def.ParseApply(s, raw)
	}
	if parseErr == nil {
		return minutes.StageResult{Status: minutes.StageSuccess, Attempts: attempts}
	}

	// One repair attempt: re-invoke with the malformed reply embedded and an
	// instruction to correct the structure.
	r.logger.Warn(ctx, "Stage %s reply failed validation (%v), attempting repair", def.Name, parseErr)
	attempts++
	repairRaw, repairErr := r.gateway.Invoke(ctx, def.RepairPrompt(s, raw), def.Params)
	if repairErr == nil {
		if applyErr := def.ParseApply(s, repairRaw); applyErr == nil {
			return minutes.StageResult{Status: minutes.StageSuccess, Attempts: attempts}
		}
	} else {
		r.logger.Warn(ctx, "Stage %s repair call failed: %v", def.Name, repairErr)
	}

	// Degrade onto the best text we have rather than dropping it. Prefer the
	// repair reply when it produced anything at all.
	best := raw
	if repairErr == nil && repairRaw != "" {
		best = repairRaw
	}
	if !def.Degrade(s, best) {
		r.logger.Error(ctx, "Stage %s could not recover any usable output", def.Name)
		return minutes.StageResult{
			Status:      minutes.StageFailed,
			Attempts:    attempts,
			ErrorDetail: parseErr.Error(),
		}
	}

	return minutes.StageResult{
		Status:      minutes.StageDegraded,
		Attempts:    attempts,
		ErrorDetail: parseErr.Error(),
	}
}

// invokeWithRetry makes up to MaxAttempts gateway calls, backing off between
// transient failures. Auth and other non-retryable failures return
// immediately.
func (r *Runner) invokeWithRetry(ctx context.Context, prompt string, params gateway.GenerationParams) (string, int, error) {
	var lastErr error

	for attempt := 1; attempt <= r.retry.MaxAttempts; attempt++ {
		raw, err := r.gateway.Invoke(ctx, prompt, params)
		if err == nil {
			return raw, attempt, nil
		}
		lastErr = err

		if !gateway.IsRetryable(err) {
			return "", attempt, err
		}

		if attempt < r.retry.MaxAttempts {
			delay := r.retry.backoff(attempt)
			r.logger.Debug(ctx, "Model call failed (attempt %d/%d), retrying in %s: %v",
				attempt, r.retry.MaxAttempts, delay, err)
			if err := r.sleep(ctx, delay); err != nil {
				return "", attempt, gateway.NewModelError(gateway.KindTimeout, err)
			}
		}
	}

	return "", r.retry.MaxAttempts, lastErr
}

func finishedStatus(s minutes.StageStatus) progress.Status {
	switch s {
	case minutes.StageSuccess:
		return progress.StatusSuccess
	case minutes.StageDegraded:
		return progress.StatusDegraded
	default:
		return progress.StatusFailed
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
