package parser

import (
	"encoding/json"
	"strings"
)

// MinutesResult is the validated output of the minutes formatter stage: the
// canonical structured minutes document, not yet rendered to an export format.
type MinutesResult struct {
	FormattedMinutes string
}

type minutesWire struct {
	FormattedMinutes string `json:"formatted_minutes"`
}

// ParseMinutes validates a stage-4 reply. The model is asked for a JSON
// object carrying the document, but a bare Markdown reply is accepted
// leniently since the payload is a text document either way.
func ParseMinutes(raw string) (*MinutesResult, error) {
	if jsonStr := extractObject(raw); jsonStr != "" {
		var wire minutesWire
		if err := json.Unmarshal([]byte(jsonStr), &wire); err == nil {
			if doc := strings.TrimSpace(wire.FormattedMinutes); doc != "" {
				return &MinutesResult{FormattedMinutes: doc}, nil
			}
		}
		// A JSON-looking reply without the document falls through to the
		// lenient tier; the fenced block may just be part of the minutes.
	}

	text := strings.TrimSpace(raw)
	if strings.Contains(text, "#") || len(text) >= 40 {
		return &MinutesResult{FormattedMinutes: text}, nil
	}

	return nil, newParseError(ReasonNotStructured, "no minutes document in reply")
}

// FallbackMinutes builds the minimal valid stage-4 output from whatever text
// is available.
func FallbackMinutes(replyText string) *MinutesResult {
	return &MinutesResult{FormattedMinutes: strings.TrimSpace(replyText)}
}
