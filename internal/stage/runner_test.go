package stage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/minutes-flow/internal/gateway"
	"github.com/nguyentantai21042004/minutes-flow/internal/gateway/gatewaytest"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
	"github.com/nguyentantai21042004/minutes-flow/internal/progress"
)

func newTestRunner(fake *gatewaytest.Fake, events *[]progress.Event) *Runner {
	reporter := progress.Func(func(e progress.Event) {
		if events != nil {
			*events = append(*events, e)
		}
	})
	r := NewRunner(fake, reporter, logger.New("error"), DefaultRetryConfig())
	r.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return r
}

// echoDefinition succeeds whenever the reply is valid JSON-ish with a body
// field; used to exercise the runner without a real parser.
func echoDefinition() Definition {
	return Definition{
		Name:        NameSummaryWriter,
		Params:      gateway.GenerationParams{Temperature: 0.3, MaxOutputTokens: 512},
		BuildPrompt: func(s *minutes.State) string { return "summarize: " + s.CleanedTranscript },
		RepairPrompt: func(s *minutes.State, malformed string) string {
			return "repair: " + malformed
		},
		ParseApply: func(s *minutes.State, raw string) error {
			if raw == "bad" || raw == "still bad" {
				return errors.New("no structure")
			}
			s.ExecutiveSummary = raw
			return nil
		},
		Degrade: func(s *minutes.State, raw string) bool {
			if raw == "" {
				return false
			}
			s.ExecutiveSummary = "degraded: " + raw
			return true
		},
	}
}

func TestRunnerSuccessFirstAttempt(t *testing.T) {
	fake := gatewaytest.New(gatewaytest.Reply("a fine summary"))
	r := newTestRunner(fake, nil)
	s := minutes.NewState("transcript")

	result := r.Run(context.Background(), echoDefinition(), s)

	assert.Equal(t, minutes.StageSuccess, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, "a fine summary", s.ExecutiveSummary)
	require.Len(t, s.StageLog, 1)
	assert.Equal(t, NameSummaryWriter, s.StageLog[0].Stage)
}

func TestRunnerRetriesTransientFailures(t *testing.T) {
	fake := gatewaytest.New(
		gatewaytest.Fail(gateway.KindRateLimited),
		gatewaytest.Fail(gateway.KindRateLimited),
		gatewaytest.Reply("recovered"),
	)
	r := newTestRunner(fake, nil)
	s := minutes.NewState("transcript")

	result := r.Run(context.Background(), echoDefinition(), s)

	assert.Equal(t, minutes.StageSuccess, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "recovered", s.ExecutiveSummary)
	assert.Len(t, fake.Calls(), 3)
}

func TestRunnerExhaustsRetries(t *testing.T) {
	fake := gatewaytest.New(
		gatewaytest.Fail(gateway.KindTimeout),
		gatewaytest.Fail(gateway.KindTimeout),
		gatewaytest.Fail(gateway.KindTimeout),
	)
	r := newTestRunner(fake, nil)
	s := minutes.NewState("transcript")

	result := r.Run(context.Background(), echoDefinition(), s)

	assert.Equal(t, minutes.StageFailed, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Empty(t, s.ExecutiveSummary)
	assert.NotEmpty(t, result.ErrorDetail)
}

func TestRunnerAuthFailsImmediately(t *testing.T) {
	fake := gatewaytest.New(gatewaytest.Fail(gateway.KindAuth))
	r := newTestRunner(fake, nil)
	s := minutes.NewState("transcript")

	result := r.Run(context.Background(), echoDefinition(), s)

	assert.Equal(t, minutes.StageFailed, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Len(t, fake.Calls(), 1)
}

func TestRunnerRepairSucceeds(t *testing.T) {
	fake := gatewaytest.New(
		gatewaytest.Reply("bad"),
		gatewaytest.Reply("a corrected summary"),
	)
	r := newTestRunner(fake, nil)
	s := minutes.NewState("transcript")

	result := r.Run(context.Background(), echoDefinition(), s)

	assert.Equal(t, minutes.StageSuccess, result.Status)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "a corrected summary", s.ExecutiveSummary)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Prompt, "repair: bad")
}

func TestRunnerDegradesAfterFailedRepair(t *testing.T) {
	fake := gatewaytest.New(
		gatewaytest.Reply("bad"),
		gatewaytest.Reply("still bad"),
	)
	r := newTestRunner(fake, nil)
	s := minutes.NewState("transcript")

	result := r.Run(context.Background(), echoDefinition(), s)

	assert.Equal(t, minutes.StageDegraded, result.Status)
	assert.Equal(t, 2, result.Attempts)
	// The repair reply is preferred for degradation since it came later.
	assert.Equal(t, "degraded: still bad", s.ExecutiveSummary)
	assert.NotEmpty(t, result.ErrorDetail)
}

func TestRunnerFailsWhenDegradeImpossible(t *testing.T) {
	def := echoDefinition()
	def.Degrade = func(s *minutes.State, raw string) bool { return false }

	fake := gatewaytest.New(
		gatewaytest.Reply("bad"),
		gatewaytest.Reply("still bad"),
	)
	r := newTestRunner(fake, nil)
	s := minutes.NewState("transcript")

	result := r.Run(context.Background(), def, s)

	assert.Equal(t, minutes.StageFailed, result.Status)
	assert.Empty(t, s.ExecutiveSummary)
}

func TestRunnerAnalyzerDegradesOntoProse(t *testing.T) {
	// The analyzer receives prose twice; the lenient tier finds no bullet
	// lines, so the stage degrades and lands the prose in key points.
	prose := "the group talked about budget matters at length without reaching specifics"
	fake := gatewaytest.New(
		gatewaytest.Reply(prose),
		gatewaytest.Reply(prose),
	)
	r := newTestRunner(fake, nil)
	s := minutes.NewState("transcript")
	s.CleanedTranscript = "Alice: budget talk"

	def := Definitions(0.3, 1024)[1]
	require.Equal(t, NameContentAnalyzer, def.Name)

	result := r.Run(context.Background(), def, s)

	assert.Equal(t, minutes.StageDegraded, result.Status)
	assert.NotNil(t, s.ActionItems)
	assert.NotNil(t, s.Decisions)
	assert.Empty(t, s.ActionItems)
	assert.Empty(t, s.Decisions)
	require.Len(t, s.KeyPoints, 1)
	assert.Contains(t, s.KeyPoints[0], "budget matters")
}

func TestRunnerDegradesOnEmptyModelReply(t *testing.T) {
	// An empty reply is a malformed response, not a transport failure: the
	// stage repairs once and then degrades onto the raw transcript instead
	// of halting the run.
	fake := gatewaytest.New(
		gatewaytest.Fail(gateway.KindMalformedResponse),
		gatewaytest.Fail(gateway.KindMalformedResponse),
	)
	r := newTestRunner(fake, nil)
	s := minutes.NewState("Alice: the budget needs approval today")

	def := Definitions(0.3, 1024)[0]
	require.Equal(t, NameTranscriptProcessor, def.Name)

	result := r.Run(context.Background(), def, s)

	assert.Equal(t, minutes.StageDegraded, result.Status)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "Alice: the budget needs approval today", s.CleanedTranscript)
	require.Len(t, s.Speakers, 1)
	assert.Equal(t, "Alice", s.Speakers[0].Speaker)
	assert.Len(t, fake.Calls(), 2)
}

func TestRunnerRepairsAfterEmptyModelReply(t *testing.T) {
	fake := gatewaytest.New(
		gatewaytest.Fail(gateway.KindMalformedResponse),
		gatewaytest.Reply("a corrected summary"),
	)
	r := newTestRunner(fake, nil)
	s := minutes.NewState("transcript")

	result := r.Run(context.Background(), echoDefinition(), s)

	assert.Equal(t, minutes.StageSuccess, result.Status)
	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, "a corrected summary", s.ExecutiveSummary)
}

func TestRunnerReportsProgress(t *testing.T) {
	var events []progress.Event
	fake := gatewaytest.New(gatewaytest.Reply("fine output"))
	r := newTestRunner(fake, &events)
	s := minutes.NewState("transcript")

	r.Run(context.Background(), echoDefinition(), s)

	require.Len(t, events, 2)
	assert.Equal(t, progress.StatusStarted, events[0].Status)
	assert.Equal(t, progress.StatusSuccess, events[1].Status)
	assert.Equal(t, s.RunID, events[1].RunID)
	assert.Equal(t, 1, events[1].Attempt)
}
