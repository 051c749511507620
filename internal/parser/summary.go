package parser

import (
	"encoding/json"
	"strings"
)

// SummaryResult is the validated output of the summary writer stage.
type SummaryResult struct {
	ExecutiveSummary string
	Insights         []string
}

type summaryWire struct {
	ExecutiveSummary string   `json:"executive_summary"`
	Insights         []string `json:"insights"`
}

// ParseSummary validates a stage-3 reply. Strict tier expects a JSON object
// with executive_summary and optional insights; the lenient tier accepts any
// non-trivial prose reply as the summary itself.
func ParseSummary(raw string) (*SummaryResult, error) {
	if jsonStr := extractObject(raw); jsonStr != "" {
		var wire summaryWire
		if err := json.Unmarshal([]byte(jsonStr), &wire); err != nil {
			return nil, newParseError(ReasonTypeMismatch, "summary object: %v", err)
		}
		if strings.TrimSpace(wire.ExecutiveSummary) == "" {
			return nil, newParseError(ReasonMissingField, "executive_summary is empty")
		}

		result := &SummaryResult{
			ExecutiveSummary: strings.TrimSpace(wire.ExecutiveSummary),
			Insights:         []string{},
		}
		for _, in := range wire.Insights {
			if s := strings.TrimSpace(in); s != "" {
				result.Insights = append(result.Insights, s)
			}
		}
		return result, nil
	}

	text := strings.TrimSpace(raw)
	if len(text) >= 20 {
		result := &SummaryResult{ExecutiveSummary: text, Insights: []string{}}
		// Bullet lines in a prose reply usually carry the insights.
		if points := scanBulletLines(text); len(points) > 0 {
			result.Insights = points
		}
		return result, nil
	}

	return nil, newParseError(ReasonNotStructured, "no summary content in reply")
}

// FallbackSummary builds the minimal valid stage-3 output from an
// unstructured reply.
func FallbackSummary(replyText string) *SummaryResult {
	return &SummaryResult{
		ExecutiveSummary: condense(replyText),
		Insights:         []string{},
	}
}
