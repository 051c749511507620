package parser

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

func TestParseAnalysisStrict(t *testing.T) {
	raw := "```json\n" + `{
  "action_items": [
    {"description": "Prepare Q3 budget deck", "assignee": "Alice", "deadline": "Friday", "priority": "High"},
    {"description": "Book the launch venue", "priority": "nonsense"}
  ],
  "decisions": [
    {"description": "Approve the marketing budget", "rationale": "Q3 targets require it"}
  ],
  "key_points": ["Budget was the main topic", "Launch moved to October"]
}` + "\n```"

	result, err := ParseAnalysis(raw)
	require.NoError(t, err)

	require.Len(t, result.ActionItems, 2)
	assert.Equal(t, "Alice", result.ActionItems[0].Assignee)
	assert.Equal(t, minutes.PriorityHigh, result.ActionItems[0].Priority)
	assert.Equal(t, minutes.Unknown, result.ActionItems[1].Assignee)
	assert.Equal(t, minutes.Unknown, result.ActionItems[1].Deadline)
	assert.Equal(t, minutes.PriorityMedium, result.ActionItems[1].Priority)

	require.Len(t, result.Decisions, 1)
	assert.Equal(t, "Q3 targets require it", result.Decisions[0].Rationale)

	assert.Equal(t, []string{"Budget was the main topic", "Launch moved to October"}, result.KeyPoints)
}

func TestParseAnalysisMissingKey(t *testing.T) {
	_, err := ParseAnalysis(`{"action_items": [], "decisions": []}`)
	require.Error(t, err)
	assert.Equal(t, ReasonMissingField, ReasonOf(err))
}

func TestParseAnalysisWrongType(t *testing.T) {
	_, err := ParseAnalysis(`{"action_items": "none", "decisions": [], "key_points": []}`)
	require.Error(t, err)
	assert.Equal(t, ReasonTypeMismatch, ReasonOf(err))
}

func TestParseAnalysisCaps(t *testing.T) {
	var items []string
	for i := 0; i < 20; i++ {
		items = append(items, fmt.Sprintf(`{"description": "numbered task %02d"}`, i))
	}
	raw := fmt.Sprintf(`{"action_items": [%s], "decisions": [], "key_points": []}`, strings.Join(items, ","))

	result, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Len(t, result.ActionItems, 15)
}

func TestParseAnalysisSkipsSparseItems(t *testing.T) {
	raw := `{
  "action_items": [{"description": "ok"}, {"description": "follow up with the vendor"}],
  "decisions": [{"description": "no"}],
  "key_points": ["point one", 42, ""]
}`

	result, err := ParseAnalysis(raw)
	require.NoError(t, err)
	require.Len(t, result.ActionItems, 1)
	assert.Equal(t, "follow up with the vendor", result.ActionItems[0].Description)
	assert.Empty(t, result.Decisions)
	assert.Equal(t, []string{"point one"}, result.KeyPoints)
}

func TestParseAnalysisLenientBullets(t *testing.T) {
	raw := `The meeting covered several topics:
- Budget approval for Q3 marketing
- Launch date moved to October
1. Vendor contract needs legal review`

	result, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.NotNil(t, result.ActionItems)
	assert.NotNil(t, result.Decisions)
	assert.Empty(t, result.ActionItems)
	assert.Empty(t, result.Decisions)
	assert.Equal(t, []string{
		"Budget approval for Q3 marketing",
		"Launch date moved to October",
		"Vendor contract needs legal review",
	}, result.KeyPoints)
}

func TestParseAnalysisNotStructured(t *testing.T) {
	_, err := ParseAnalysis("free-flowing prose without any list markers whatsoever")
	require.Error(t, err)
	assert.Equal(t, ReasonNotStructured, ReasonOf(err))
}

func TestFallbackAnalysis(t *testing.T) {
	result := FallbackAnalysis("  The team mostly discussed the budget \n and the launch. ")

	assert.NotNil(t, result.ActionItems)
	assert.NotNil(t, result.Decisions)
	assert.Empty(t, result.ActionItems)
	assert.Empty(t, result.Decisions)
	require.Len(t, result.KeyPoints, 1)
	assert.Equal(t, "The team mostly discussed the budget and the launch.", result.KeyPoints[0])
}

func TestFallbackAnalysisCondensesLongReplies(t *testing.T) {
	long := strings.Repeat("word ", 100)
	result := FallbackAnalysis(long)

	require.Len(t, result.KeyPoints, 1)
	assert.LessOrEqual(t, len(result.KeyPoints[0]), condenseMaxLen+3)
	assert.True(t, strings.HasSuffix(result.KeyPoints[0], "..."))
}

func TestCondenseKeepsMultiByteTextValid(t *testing.T) {
	// The leading ASCII byte misaligns the 3-byte runes against the length
	// cap, so a naive cut would land inside a rune.
	long := "x" + strings.Repeat("会", 200)
	got := condense(long)

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), condenseMaxLen+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
