package stage

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

func TestDefinitionsOrder(t *testing.T) {
	defs := Definitions(0.3, 2048)

	require.Len(t, defs, 4)
	assert.Equal(t, NameTranscriptProcessor, defs[0].Name)
	assert.Equal(t, NameContentAnalyzer, defs[1].Name)
	assert.Equal(t, NameSummaryWriter, defs[2].Name)
	assert.Equal(t, NameMinutesFormatter, defs[3].Name)

	for _, def := range defs {
		assert.Equal(t, 2048, def.Params.MaxOutputTokens, def.Name)
		assert.NotNil(t, def.BuildPrompt, def.Name)
		assert.NotNil(t, def.RepairPrompt, def.Name)
		assert.NotNil(t, def.ParseApply, def.Name)
		assert.NotNil(t, def.Degrade, def.Name)
	}
}

func TestDefinitionsTemperatures(t *testing.T) {
	defs := Definitions(0.5, 1024)

	// Extraction stages stay deterministic; writing stages take the
	// configured temperature.
	assert.InDelta(t, 0.1, defs[0].Params.Temperature, 0.001)
	assert.InDelta(t, 0.1, defs[1].Params.Temperature, 0.001)
	assert.InDelta(t, 0.5, defs[2].Params.Temperature, 0.001)
	assert.InDelta(t, 0.5, defs[3].Params.Temperature, 0.001)

	// Zero falls back to a sane writing temperature.
	defs = Definitions(0, 1024)
	assert.InDelta(t, 0.3, defs[2].Params.Temperature, 0.001)
}

func TestPromptsCarryStageInputs(t *testing.T) {
	s := minutes.NewState("Alice: hello")
	s.CleanedTranscript = "Alice: we must approve the budget"
	s.KeyPoints = []string{"budget approval"}
	s.ExecutiveSummary = "The budget was approved."
	s.ActionItems = []minutes.ActionItem{{Description: "send recap", Assignee: "Bob", Deadline: "Friday", Priority: minutes.PriorityHigh}}
	s.Decisions = []minutes.Decision{{Description: "approve budget", Rationale: minutes.Unknown}}

	defs := Definitions(0.3, 1024)

	assert.Contains(t, defs[0].BuildPrompt(s), s.RawTranscript)
	assert.Contains(t, defs[1].BuildPrompt(s), s.CleanedTranscript)
	assert.Contains(t, defs[2].BuildPrompt(s), "budget approval")
	assert.Contains(t, defs[3].BuildPrompt(s), "The budget was approved.")
}

func TestRepairPromptEmbedsMalformedReply(t *testing.T) {
	s := minutes.NewState("Alice: hello")
	def := Definitions(0.3, 1024)[0]

	prompt := def.RepairPrompt(s, "not json at all")
	assert.Contains(t, prompt, "not json at all")
}

func TestRepairPromptTruncatesLongReplies(t *testing.T) {
	s := minutes.NewState("Alice: hello")
	def := Definitions(0.3, 1024)[0]

	long := strings.Repeat("x", 5000)
	prompt := def.RepairPrompt(s, long)
	assert.Less(t, len(prompt), 5000+len(def.BuildPrompt(s)))
}

func TestTruncateCutsOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("会", 100)
	got := truncate(long, 50)

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 53)
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, "short", truncate("short", 50))
}
