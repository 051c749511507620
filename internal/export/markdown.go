// Package export renders a finalized pipeline state into distribution
// formats. Rendering is pure, order-preserving templating; no business logic
// lives here.
package export

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

// Markdown renders the minutes as a Markdown document. When the formatter
// stage produced a full document it is used as-is; otherwise the document is
// assembled from the structured fields, so halted or degraded runs still
// export everything they produced.
func Markdown(s *minutes.State) string {
	if s.FormattedMinutes != "" {
		return s.FormattedMinutes
	}

	var b strings.Builder
	b.WriteString("# Meeting Minutes\n\n")
	fmt.Fprintf(&b, "_%s_\n\n", s.StartedAt.Format("2006-01-02 15:04"))

	if s.ExecutiveSummary != "" {
		b.WriteString("## Executive Summary\n\n")
		b.WriteString(s.ExecutiveSummary)
		b.WriteString("\n\n")
	}

	if len(s.KeyPoints) > 0 {
		b.WriteString("## Key Discussion Points\n\n")
		for _, p := range s.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	if len(s.Decisions) > 0 {
		b.WriteString("## Decisions Made\n\n")
		for _, d := range s.Decisions {
			if d.Rationale != minutes.Unknown && d.Rationale != "" {
				fmt.Fprintf(&b, "- %s (rationale: %s)\n", d.Description, d.Rationale)
			} else {
				fmt.Fprintf(&b, "- %s\n", d.Description)
			}
		}
		b.WriteString("\n")
	}

	if len(s.ActionItems) > 0 {
		b.WriteString("## Action Items\n\n")
		b.WriteString("| Description | Assignee | Deadline | Priority |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, item := range s.ActionItems {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				item.Description, item.Assignee, item.Deadline, item.Priority)
		}
		b.WriteString("\n")
	}

	if len(s.Insights) > 0 {
		b.WriteString("## Insights\n\n")
		for _, in := range s.Insights {
			fmt.Fprintf(&b, "- %s\n", in)
		}
		b.WriteString("\n")
	}

	if s.CleanedTranscript != "" && s.ExecutiveSummary == "" {
		// Nothing past stage 1 completed; the cleaned transcript is the most
		// useful thing the user can still see.
		b.WriteString("## Cleaned Transcript\n\n")
		b.WriteString(s.CleanedTranscript)
		b.WriteString("\n")
	}

	return b.String()
}
