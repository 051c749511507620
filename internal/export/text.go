package export

import (
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/minutes"
)

var (
	reMdHeading = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	reMdTable   = regexp.MustCompile(`(?m)^\|[-| ]+\|$`)
)

// PlainText renders the minutes as plain text by stripping Markdown
// decoration from the Markdown rendering.
func PlainText(s *minutes.State) string {
	md := Markdown(s)

	text := reMdHeading.ReplaceAllString(md, "")
	text = reMdTable.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = strings.ReplaceAll(text, "`", "")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			continue
		}
		// Table rows read better as simple separated values.
		if strings.HasPrefix(trimmed, "|") {
			trimmed = strings.Trim(trimmed, "|")
			trimmed = strings.Join(splitAndTrim(trimmed, "|"), " - ")
		}
		out = append(out, trimmed)
	}

	return strings.TrimSpace(strings.Join(out, "\n")) + "\n"
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
