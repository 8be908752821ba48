package output

import (
	"io"

	"mrlens/internal/review"
)

// MarkdownWriter outputs the result as a markdown document, suitable for
// posting as a merge request note.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, res *review.Result) error {
	ew := &errWriter{w: w}

	switch res.Kind {
	case review.KindRepository:
		ew.println("# Repository Review")
	default:
		ew.println("# Merge Request Review")
	}

	if res.Summary != "" {
		ew.printf("\n> %s\n", res.Summary)
	}

	for _, name := range res.SectionNames() {
		body := res.Sections[name]
		if body == "" {
			continue
		}
		ew.printf("\n## %s\n\n%s\n", name, body)
	}

	ew.printf("\n---\n*Generated by mrlens (%s", res.Metadata.Provider)
	if res.Metadata.Model != "" {
		ew.printf(", %s", res.Metadata.Model)
	}
	ew.printf(") with focus %q on %s.*\n",
		res.Metadata.Focus, res.Metadata.GeneratedAt.Format("2006-01-02"))

	return ew.err
}
