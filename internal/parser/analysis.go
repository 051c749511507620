package parser

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

// Per-list caps keep a rambling model from flooding the minutes.
const (
	maxActionItems = 15
	maxDecisions   = 10
	maxKeyPoints   = 12
)

// AnalysisResult is the validated output of the content analyzer stage.
// All three lists are always non-nil, possibly empty.
type AnalysisResult struct {
	ActionItems []minutes.ActionItem
	Decisions   []minutes.Decision
	KeyPoints   []string
}

// bulletPattern matches "- item", "* item" and "1. item" list lines.
var bulletPattern = regexp.MustCompile(`^(?:[-*]|\d+[.)])\s+(.+)$`)

// ParseAnalysis validates a stage-2 reply. The schema requires the three
// arrays (action_items, decisions, key_points) to be present; their items may
// be sparse. Optional item fields (assignee, deadline, rationale) default to
// "unknown". The lenient tier recovers bullet lines as key points from a
// reply without JSON.
func ParseAnalysis(raw string) (*AnalysisResult, error) {
	if jsonStr := extractObject(raw); jsonStr != "" {
		return parseAnalysisObject(jsonStr)
	}

	// Lenient: bullet or numbered lines become key points.
	points := scanBulletLines(raw)
	if len(points) > 0 {
		if len(points) > maxKeyPoints {
			points = points[:maxKeyPoints]
		}
		return &AnalysisResult{
			ActionItems: []minutes.ActionItem{},
			Decisions:   []minutes.Decision{},
			KeyPoints:   points,
		}, nil
	}

	return nil, newParseError(ReasonNotStructured, "no extractable lists in reply")
}

func parseAnalysisObject(jsonStr string) (*AnalysisResult, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &top); err != nil {
		return nil, newParseError(ReasonTypeMismatch, "analysis object: %v", err)
	}

	for _, key := range []string{"action_items", "decisions", "key_points"} {
		if _, ok := top[key]; !ok {
			return nil, newParseError(ReasonMissingField, "missing %q", key)
		}
	}

	result := &AnalysisResult{
		ActionItems: []minutes.ActionItem{},
		Decisions:   []minutes.Decision{},
		KeyPoints:   []string{},
	}

	var rawItems []map[string]any
	if err := json.Unmarshal(top["action_items"], &rawItems); err != nil {
		return nil, newParseError(ReasonTypeMismatch, "action_items is not an array of objects: %v", err)
	}
	for _, item := range rawItems {
		description := stringField(item, "description", "task")
		if len(description) < 5 {
			continue
		}
		result.ActionItems = append(result.ActionItems, minutes.ActionItem{
			Description: description,
			Assignee:    orUnknown(stringField(item, "assignee")),
			Deadline:    orUnknown(stringField(item, "deadline")),
			Priority:    minutes.NormalizePriority(stringField(item, "priority")),
		})
		if len(result.ActionItems) == maxActionItems {
			break
		}
	}

	var rawDecisions []map[string]any
	if err := json.Unmarshal(top["decisions"], &rawDecisions); err != nil {
		return nil, newParseError(ReasonTypeMismatch, "decisions is not an array of objects: %v", err)
	}
	for _, item := range rawDecisions {
		description := stringField(item, "description", "decision")
		if len(description) < 5 {
			continue
		}
		result.Decisions = append(result.Decisions, minutes.Decision{
			Description: description,
			Rationale:   orUnknown(stringField(item, "rationale")),
		})
		if len(result.Decisions) == maxDecisions {
			break
		}
	}

	var rawPoints []any
	if err := json.Unmarshal(top["key_points"], &rawPoints); err != nil {
		return nil, newParseError(ReasonTypeMismatch, "key_points is not an array: %v", err)
	}
	for _, p := range rawPoints {
		s, ok := p.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		result.KeyPoints = append(result.KeyPoints, s)
		if len(result.KeyPoints) == maxKeyPoints {
			break
		}
	}

	return result, nil
}

// FallbackAnalysis builds the minimal valid stage-2 output from an
// unstructured reply: the prose lands in key points so nothing is silently
// dropped, and both item lists stay empty but set.
func FallbackAnalysis(replyText string) *AnalysisResult {
	result := &AnalysisResult{
		ActionItems: []minutes.ActionItem{},
		Decisions:   []minutes.Decision{},
		KeyPoints:   []string{},
	}

	text := strings.TrimSpace(replyText)
	if text != "" {
		result.KeyPoints = append(result.KeyPoints, condense(text))
	}

	return result
}

// stringField returns the first non-empty string value among the given keys.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// orUnknown substitutes the unknown placeholder for absent optional fields.
func orUnknown(s string) string {
	if s == "" || strings.EqualFold(s, "not specified") || strings.EqualFold(s, "n/a") {
		return minutes.Unknown
	}
	return s
}

func scanBulletLines(text string) []string {
	var points []string
	for _, line := range strings.Split(text, "\n") {
		m := bulletPattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		point := strings.TrimSpace(m[1])
		if len(point) < 5 {
			continue
		}
		points = append(points, point)
	}
	return points
}

// condense flattens prose into a single key-point sized line. The cut lands
// on a rune boundary so multi-byte text stays valid.
const condenseMaxLen = 300

func condense(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	if len(flat) > condenseMaxLen {
		cut := condenseMaxLen
		for cut > 0 && !utf8.RuneStart(flat[cut]) {
			cut--
		}
		flat = flat[:cut] + "..."
	}
	return flat
}
