package browser

import (
	"fmt"
	"strings"

	"github.com/d-rollins/vapi-calls-tui/internal/ui/styles"
)

// formatPhoneNumber renders E.164-ish numbers as (XXX) XXX-XXXX.
// Anything that does not look like a US number is returned as-is.
func formatPhoneNumber(number string) string {
	if number == "" {
		return "Unknown"
	}

	digits := strings.Builder{}
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	switch {
	case len(d) == 11 && d[0] == '1':
		d = d[1:]
	case len(d) != 10:
		return number
	}

	return fmt.Sprintf("(%s) %s-%s", d[0:3], d[3:6], d[6:10])
}

// formatLength renders a call duration in seconds as "4m 05s" or "45s".
func formatLength(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	total := int(seconds + 0.5)
	mins := total / 60
	secs := total % 60
	if mins == 0 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %02ds", mins, secs)
}

// formatCost renders a dollar amount with cent precision.
func formatCost(cost float64) string {
	return fmt.Sprintf("$%.2f", cost)
}

// speakerPrefixes maps transcript line prefixes to a speaker class.
var assistantPrefixes = []string{"AI:", "Assistant:", "Bot:"}
var customerPrefixes = []string{"User:", "Customer:", "Human:"}

// colorizeTranscript styles transcript lines by speaker. Lines without a
// recognized speaker prefix keep the color of the previous line so that
// wrapped utterances stay readable.
func colorizeTranscript(transcript string) string {
	if transcript == "" {
		return styles.HelpStyle.Render("No transcript available.")
	}

	lines := strings.Split(transcript, "\n")
	out := make([]string, 0, len(lines))
	current := styles.SpeakerAssistantStyle

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case hasAnyPrefix(trimmed, assistantPrefixes):
			current = styles.SpeakerAssistantStyle
		case hasAnyPrefix(trimmed, customerPrefixes):
			current = styles.SpeakerCustomerStyle
		}
		out = append(out, current.Render(line))
	}

	return strings.Join(out, "\n")
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// truncate shortens a string to at most n runes, appending an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
