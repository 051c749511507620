package stage

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

const transcriptPrompt = `You are an expert transcript editor cleaning a meeting recording for professional use.

Clean and improve the transcript below:
- Remove filler words (um, uh, you know, like, basically) when they add no meaning
- Fix obvious transcription errors, grammar, punctuation and capitalization
- Keep speaker names exactly as they appear, followed by a colon
- Preserve all decisions, action items and context; add nothing that was not said
- Maintain the chronological order of the discussion

Reply with ONLY a JSON object in this exact shape:
{
  "cleaned_transcript": "the full cleaned transcript with Name: content lines",
  "speakers": [
    {"speaker": "Name", "utterance": "what they said, cleaned"}
  ]
}

List one speakers entry per speaker turn, in the order the turns occur.

Transcript:
---
%s
---`

const analysisPrompt = `You are an expert at extracting structured information from meeting transcripts.

From the transcript below, extract every action item, decision and key discussion point.

Reply with ONLY a JSON object in this exact shape:
{
  "action_items": [
    {"description": "specific task", "assignee": "name or unknown", "deadline": "deadline or unknown", "priority": "low|medium|high"}
  ],
  "decisions": [
    {"description": "what was decided", "rationale": "reasoning or unknown"}
  ],
  "key_points": ["concise key discussion point"]
}

Action items are concrete commitments ("X will do Y", "X needs to finish Z").
Decisions are conclusions or agreements ("we decided to...", "it was agreed that...").
Key points are important issues, insights or updates that are neither of the above.
Include all three arrays even when empty. Be thorough but precise.

Transcript:
---
%s
---`

const summaryPrompt = `You are an executive assistant writing a high-level meeting summary for senior leadership.

Using the cleaned transcript and the extracted information below, write an executive summary (2-3 paragraphs, professional business language, focused on outcomes and business impact) and list the notable insights or concerns.

Reply with ONLY a JSON object in this exact shape:
{
  "executive_summary": "the summary text",
  "insights": ["notable insight or concern"]
}

Cleaned transcript:
---
%s
---

Extracted information:
%s`

const minutesPrompt = `You are a professional executive secretary preparing formal meeting minutes for distribution.

Using the material below, produce complete meeting minutes in Markdown with these sections: header, Executive Summary, Key Discussion Points, Decisions Made, Action Items (as a table with Description, Assignee, Deadline, Priority columns), and Next Steps.

Reply with ONLY a JSON object in this exact shape:
{
  "formatted_minutes": "the complete Markdown document"
}

Executive summary:
%s

Key points:
%s

Decisions:
%s

Action items:
%s

Insights:
%s`

const repairSuffix = `

Your previous reply could not be parsed:
---
%s
---

It did not match the required JSON shape. Reply again with ONLY the JSON object, exactly in the shape requested above, with no surrounding commentary.`

func buildTranscriptPrompt(s *minutes.State) string {
	return fmt.Sprintf(transcriptPrompt, s.RawTranscript)
}

func buildAnalysisPrompt(s *minutes.State) string {
	return fmt.Sprintf(analysisPrompt, s.CleanedTranscript)
}

func buildSummaryPrompt(s *minutes.State) string {
	var extracted strings.Builder
	extracted.WriteString("Action items:\n")
	extracted.WriteString(renderActionItems(s.ActionItems))
	extracted.WriteString("Decisions:\n")
	extracted.WriteString(renderDecisions(s.Decisions))
	extracted.WriteString("Key points:\n")
	extracted.WriteString(renderLines(s.KeyPoints))

	return fmt.Sprintf(summaryPrompt, s.CleanedTranscript, extracted.String())
}

func buildMinutesPrompt(s *minutes.State) string {
	return fmt.Sprintf(minutesPrompt,
		s.ExecutiveSummary,
		renderLines(s.KeyPoints),
		renderDecisions(s.Decisions),
		renderActionItems(s.ActionItems),
		renderLines(s.Insights),
	)
}

func repairPrompt(base string, malformed string) string {
	return base + fmt.Sprintf(repairSuffix, truncate(malformed, 2000))
}

func renderActionItems(items []minutes.ActionItem) string {
	if len(items) == 0 {
		return "- none\n"
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (assignee: %s, deadline: %s, priority: %s)\n",
			item.Description, item.Assignee, item.Deadline, item.Priority)
	}
	return b.String()
}

func renderDecisions(decisions []minutes.Decision) string {
	if len(decisions) == 0 {
		return "- none\n"
	}
	var b strings.Builder
	for _, d := range decisions {
		fmt.Fprintf(&b, "- %s (rationale: %s)\n", d.Description, d.Rationale)
	}
	return b.String()
}

func renderLines(lines []string) string {
	if len(lines) == 0 {
		return "- none\n"
	}
	var b strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s\n", line)
	}
	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
