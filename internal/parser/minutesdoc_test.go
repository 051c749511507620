package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinutesJSON(t *testing.T) {
	raw := `{"formatted_minutes": "# Meeting Minutes\n\n## Summary\nAll good."}`

	result, err := ParseMinutes(raw)
	require.NoError(t, err)
	assert.Equal(t, "# Meeting Minutes\n\n## Summary\nAll good.", result.FormattedMinutes)
}

func TestParseMinutesBareMarkdown(t *testing.T) {
	raw := "# Meeting Minutes\n\n## Decisions\n- Launch in October"

	result, err := ParseMinutes(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, result.FormattedMinutes)
}

func TestParseMinutesPlainTextLongEnough(t *testing.T) {
	raw := "Minutes of the meeting held on Friday covering budget and launch topics."

	result, err := ParseMinutes(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, result.FormattedMinutes)
}

func TestParseMinutesNotStructured(t *testing.T) {
	_, err := ParseMinutes("nope")
	require.Error(t, err)
	assert.Equal(t, ReasonNotStructured, ReasonOf(err))
}

func TestFallbackMinutes(t *testing.T) {
	result := FallbackMinutes("  partial document text  ")
	assert.Equal(t, "partial document text", result.FormattedMinutes)
}
