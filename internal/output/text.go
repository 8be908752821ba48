package output

import (
	"fmt"
	"io"
	"strings"

	"mrlens/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, res *review.Result) error {
	ew := &errWriter{w: w}

	switch res.Kind {
	case review.KindRepository:
		ew.println("mrlens Repository Review")
	default:
		ew.println("mrlens Merge Request Review")
	}
	ew.printf("Provider: %s", res.Metadata.Provider)
	if res.Metadata.Model != "" {
		ew.printf(" (%s)", res.Metadata.Model)
	}
	ew.println("")
	ew.printf("Focus: %s", res.Metadata.Focus)
	if res.Metadata.Depth != "" {
		ew.printf(" | Depth: %s", res.Metadata.Depth)
	}
	ew.printf(" | Files: %d\n", res.Metadata.FilesAnalyzed)
	ew.println(strings.Repeat("─", 60))

	if res.Summary != "" {
		ew.println("")
		for _, line := range wrapText(res.Summary, 70) {
			ew.println(line)
		}
	}

	for _, name := range res.SectionNames() {
		body := res.Sections[name]
		if body == "" {
			continue
		}
		ew.printf("\n%s\n", strings.ToUpper(name))
		ew.println(strings.Repeat("─", 40))
		ew.println(body)
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	if res.Metadata.TokensUsed > 0 {
		ew.printf("Generated %s using %d tokens\n",
			res.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"), res.Metadata.TokensUsed)
	} else {
		ew.printf("Generated %s\n", res.Metadata.GeneratedAt.Format("2006-01-02 15:04:05"))
	}

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
