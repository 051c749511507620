package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

// TranscriptResult is the validated output of the transcript processor stage.
type TranscriptResult struct {
	Cleaned  string
	Speakers []minutes.SpeakerTurn
}

type transcriptWire struct {
	CleanedTranscript string `json:"cleaned_transcript"`
	Speakers          []struct {
		Speaker   string `json:"speaker"`
		Utterance string `json:"utterance"`
	} `json:"speakers"`
}

// speakerLinePattern matches "Name: utterance" transcript lines.
var speakerLinePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 ._-]{0,40}):\s*(.+)$`)

// ParseTranscript validates a stage-1 reply. Strict tier expects a JSON
// object with cleaned_transcript and speakers; the lenient tier accepts a
// plain-text reply as the cleaned transcript when it still carries
// "Name: utterance" lines to recover turns from.
func ParseTranscript(raw string) (*TranscriptResult, error) {
	if jsonStr := extractObject(raw); jsonStr != "" {
		var wire transcriptWire
		if err := json.Unmarshal([]byte(jsonStr), &wire); err != nil {
			return nil, newParseError(ReasonTypeMismatch, "transcript object: %v", err)
		}
		if strings.TrimSpace(wire.CleanedTranscript) == "" {
			return nil, newParseError(ReasonMissingField, "cleaned_transcript is empty")
		}

		result := &TranscriptResult{Cleaned: strings.TrimSpace(wire.CleanedTranscript)}
		for _, sp := range wire.Speakers {
			speaker := strings.TrimSpace(sp.Speaker)
			utterance := strings.TrimSpace(sp.Utterance)
			if speaker == "" || utterance == "" {
				continue
			}
			result.Speakers = append(result.Speakers, minutes.SpeakerTurn{
				Speaker:   speaker,
				Utterance: utterance,
				Order:     len(result.Speakers),
			})
		}
		if len(result.Speakers) == 0 {
			result.Speakers = ScanSpeakerTurns(result.Cleaned)
		}
		return result, nil
	}

	// Lenient: plain text with recoverable speaker lines.
	text := strings.TrimSpace(raw)
	if text != "" {
		if turns := ScanSpeakerTurns(text); len(turns) > 0 {
			return &TranscriptResult{Cleaned: text, Speakers: turns}, nil
		}
	}

	return nil, newParseError(ReasonNotStructured, "no transcript structure in reply")
}

// FallbackTranscript builds the minimal valid stage-1 output from whatever
// text is available: the raw reply if non-empty, otherwise the original
// transcript. Nothing the user could see is dropped.
func FallbackTranscript(replyText, originalTranscript string) *TranscriptResult {
	text := strings.TrimSpace(replyText)
	if text == "" {
		text = strings.TrimSpace(originalTranscript)
	}

	turns := ScanSpeakerTurns(text)
	if len(turns) == 0 {
		turns = []minutes.SpeakerTurn{{Speaker: minutes.Unknown, Utterance: text, Order: 0}}
	}

	return &TranscriptResult{Cleaned: text, Speakers: turns}
}

// ScanSpeakerTurns extracts speaker turns from "Name: utterance" lines,
// preserving input order.
func ScanSpeakerTurns(text string) []minutes.SpeakerTurn {
	var turns []minutes.SpeakerTurn
	for _, line := range strings.Split(text, "\n") {
		m := speakerLinePattern.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		turns = append(turns, minutes.SpeakerTurn{
			Speaker:   strings.TrimSpace(m[1]),
			Utterance: strings.TrimSpace(m[2]),
			Order:     len(turns),
		})
	}
	return turns
}
