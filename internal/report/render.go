package report

import (
	"fmt"
	"strings"
)

// Render formats a report for terminal display.
func Render(r *Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Match %s, participant %d\n", r.MatchID, r.ParticipantID))
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n\n")

	sb.WriteString(r.Verdict)
	sb.WriteString("\n\n")

	for i, f := range r.Feedback {
		sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, f.Topic, f.Recommendation))
	}

	if len(r.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - " + w + "\n")
		}
	}

	return sb.String()
}
