package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Options controls section extraction.
type Options struct {
	// MissingPlaceholder is the value a section resolves to when no
	// extraction strategy matches. Empty string is a valid placeholder.
	MissingPlaceholder string
}

// StripFence removes a fenced-code-block wrapper around the whole reply.
// A ```markdown-tagged fence is checked first, then an untagged fence.
func StripFence(text string) string {
	t := strings.TrimSpace(text)
	for _, open := range []string{"```markdown\n", "```\n"} {
		if strings.HasPrefix(t, open) {
			body := t[len(open):]
			body = strings.TrimSuffix(strings.TrimSpace(body), "```")
			return strings.TrimSpace(body)
		}
	}
	return t
}

// ExtractSections pulls each named section out of text, trying the fallback
// strategies in order. Sections that cannot be matched resolve to the
// configured placeholder.
func ExtractSections(text string, sections []string, opts Options) map[string]string {
	cleaned := StripFence(text)
	out := make(map[string]string, len(sections))
	for _, name := range sections {
		body, ok := extractSection(cleaned, name)
		if !ok {
			body = opts.MissingPlaceholder
		}
		out[name] = body
	}
	return out
}

// extractSection tries, in order: a ## heading, a bold label, the bare
// section title. The first strategy that matches wins.
func extractSection(text, title string) (string, bool) {
	q := regexp.QuoteMeta(title)
	strategies := []string{
		// "## Title" up to the next ## heading or end of text.
		fmt.Sprintf(`(?is)##\s*%s\s*:?\s*\n(.*?)(?:\n##\s|\z)`, q),
		// "**Title**:" up to the next bold label or end of text.
		fmt.Sprintf(`(?is)\*\*%s\*\*\s*:?\s*\n?(.*?)(?:\n\*\*|\z)`, q),
		// Bare "Title" on its own line up to the next heading or bold marker.
		fmt.Sprintf(`(?is)(?:\A|\n)%s\s*:?\s*\n(.*?)(?:\n#|\n\*\*|\z)`, q),
	}

	for _, pattern := range strategies {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if m := re.FindStringSubmatch(text); m != nil {
			body := strings.TrimSpace(m[1])
			if body != "" {
				return body, true
			}
		}
	}
	return "", false
}

// Summarize derives a terse one-line summary from the code-quality,
// security, and performance section bodies of a single-change review.
func Summarize(quality, security, performance string) string {
	var flagged []string
	if strings.Contains(strings.ToLower(quality), "issue") {
		flagged = append(flagged, "code quality issues")
	}
	if strings.Contains(strings.ToLower(security), "concern") {
		flagged = append(flagged, "security concerns")
	}
	if strings.Contains(strings.ToLower(performance), "performance") {
		flagged = append(flagged, "performance considerations")
	}
	if len(flagged) == 0 {
		return "The changes look good overall with no major concerns identified."
	}
	return "Review flagged: " + strings.Join(flagged, ", ") + "."
}
