package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

func completedState() *minutes.State {
	s := minutes.NewState("Alice: hello")
	s.CleanedTranscript = "Alice: Hello everyone."
	s.KeyPoints = []string{"budget approved"}
	s.Decisions = []minutes.Decision{{Description: "approve the budget", Rationale: minutes.Unknown}}
	s.ActionItems = []minutes.ActionItem{{Description: "send recap", Assignee: "Bob", Deadline: "Friday", Priority: minutes.PriorityHigh}}
	s.ExecutiveSummary = "The budget was approved."
	s.Insights = []string{"fast consensus"}
	s.Status = minutes.RunCompleted
	return s
}

func TestMarkdownUsesFormattedMinutes(t *testing.T) {
	s := completedState()
	s.FormattedMinutes = "# Final Minutes\n\nEverything here."

	assert.Equal(t, s.FormattedMinutes, Markdown(s))
}

func TestMarkdownAssemblesFromFields(t *testing.T) {
	s := completedState()

	md := Markdown(s)
	assert.Contains(t, md, "# Meeting Minutes")
	assert.Contains(t, md, "## Executive Summary")
	assert.Contains(t, md, "The budget was approved.")
	assert.Contains(t, md, "- budget approved")
	assert.Contains(t, md, "| send recap | Bob | Friday | high |")
	assert.Contains(t, md, "- fast consensus")
	// Unknown rationale is not rendered.
	assert.NotContains(t, md, "rationale: unknown")
	// Stage 3 completed, so the transcript section is omitted.
	assert.NotContains(t, md, "## Cleaned Transcript")
}

func TestMarkdownHaltedAfterStageOne(t *testing.T) {
	s := minutes.NewState("Alice: hello")
	s.CleanedTranscript = "Alice: Hello everyone."
	s.Status = minutes.RunHalted

	md := Markdown(s)
	assert.Contains(t, md, "## Cleaned Transcript")
	assert.Contains(t, md, "Alice: Hello everyone.")
}

func TestPlainTextStripsMarkdown(t *testing.T) {
	s := completedState()

	text := PlainText(s)
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "**")
	assert.Contains(t, text, "Meeting Minutes")
	assert.Contains(t, text, "send recap - Bob - Friday - high")
}

func TestJSONRoundTrips(t *testing.T) {
	s := completedState()

	data, err := JSON(s)
	require.NoError(t, err)

	var decoded minutes.State
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, s.RunID, decoded.RunID)
	assert.Equal(t, s.ExecutiveSummary, decoded.ExecutiveSummary)
	assert.Equal(t, s.ActionItems, decoded.ActionItems)
}

func TestWriteAll(t *testing.T) {
	s := completedState()
	dir := t.TempDir()

	paths, err := WriteAll(s, dir, "standup-2026-08-28")
	require.NoError(t, err)
	require.Len(t, paths, 4)

	wantExts := []string{".md", ".txt", ".json", ".docx"}
	for i, p := range paths {
		assert.Equal(t, wantExts[i], filepath.Ext(p))
		assert.True(t, strings.HasPrefix(filepath.Base(p), "standup-2026-08-28"))

		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Greater(t, info.Size(), int64(0), p)
	}
}
