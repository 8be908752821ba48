package prompt

import (
	"fmt"
	"sort"
	"strings"
)

// Focus selects the analytical framing of a review prompt.
type Focus string

const (
	FocusComprehensive Focus = "comprehensive"
	FocusSecurity      Focus = "security"
	FocusPerformance   Focus = "performance"
	FocusQuality       Focus = "quality"
	FocusArchitecture  Focus = "architecture"
)

// Valid reports whether f is a recognized focus.
func (f Focus) Valid() bool {
	switch f {
	case FocusComprehensive, FocusSecurity, FocusPerformance, FocusQuality, FocusArchitecture:
		return true
	}
	return false
}

var focusFraming = map[Focus]string{
	FocusComprehensive: "Perform a comprehensive review covering correctness, security, performance, and maintainability.",
	FocusSecurity:      "Focus primarily on security: authentication, authorization, input validation, secret handling, and injection risks.",
	FocusPerformance:   "Focus primarily on performance: algorithmic complexity, unnecessary work, memory use, and I/O patterns.",
	FocusQuality:       "Focus primarily on code quality: readability, naming, duplication, error handling, and test coverage.",
	FocusArchitecture:  "Focus primarily on architecture: module boundaries, coupling, layering, and the suitability of chosen abstractions.",
}

// Framing returns the focus's framing sentence, defaulting to comprehensive.
func (f Focus) Framing() string {
	if s, ok := focusFraming[f]; ok {
		return s
	}
	return focusFraming[FocusComprehensive]
}

// The reply must not arrive fenced; the parser's primary strategy assumes
// unwrapped markdown.
const noFenceInstruction = "Respond in plain markdown. Do NOT wrap your entire response in a fenced code block."

// FileContent is one file to embed in a repository prompt.
type FileContent struct {
	Path    string
	Content string
}

// RepositoryInput is the data a repository prompt is built from.
type RepositoryInput struct {
	ProjectName string
	Ref         string
	Languages   map[string]float64
	Files       []FileContent
}

// MergeRequestInput is the data a single-change prompt is built from.
type MergeRequestInput struct {
	Title        string
	Description  string
	SourceBranch string
	TargetBranch string
	Diff         string
	// ChangedFiles and line stats are shown to the model when known.
	ChangedFiles int
	Additions    int
	Deletions    int
	MaxDiffBytes int
}

// BuildRepositoryPrompt assembles the whole-repository review request. Each
// file's content is capped at the depth's line limit, and the prompt asks for
// the given markdown sections in order.
func BuildRepositoryPrompt(in RepositoryInput, depth Depth, focus Focus, sections []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Review the repository %q at ref %q.\n\n", in.ProjectName, in.Ref)
	b.WriteString(focus.Framing())
	b.WriteString("\n")

	if len(in.Languages) > 0 {
		b.WriteString("\nLanguage distribution:\n")
		for _, lang := range sortedLanguages(in.Languages) {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", lang, in.Languages[lang])
		}
	}

	fmt.Fprintf(&b, "\nSelected source files (%d):\n", len(in.Files))
	for _, f := range in.Files {
		fmt.Fprintf(&b, "\n--- FILE: %s ---\n", f.Path)
		b.WriteString(TruncateContent(f.Content, depth))
		b.WriteString("\n")
	}

	writeSectionRequest(&b, sections)
	return b.String()
}

// BuildMergeRequestPrompt assembles the single-change review request around a
// byte-bounded diff.
func BuildMergeRequestPrompt(in MergeRequestInput, focus Focus, sections []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Review the following merge request.\n\nTitle: %s\n", in.Title)
	if in.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", in.Description)
	}
	if in.SourceBranch != "" {
		fmt.Fprintf(&b, "Branches: %s -> %s\n", in.SourceBranch, in.TargetBranch)
	}
	if in.ChangedFiles > 0 {
		fmt.Fprintf(&b, "Changed files: %d (+%d/-%d lines)\n", in.ChangedFiles, in.Additions, in.Deletions)
	}

	b.WriteString("\n")
	b.WriteString(focus.Framing())
	b.WriteString("\n")

	b.WriteString("\n--- BEGIN DIFF ---\n")
	b.WriteString(TruncateDiff(in.Diff, in.MaxDiffBytes))
	b.WriteString("\n--- END DIFF ---\n")

	writeSectionRequest(&b, sections)
	return b.String()
}

func writeSectionRequest(b *strings.Builder, sections []string) {
	b.WriteString("\nStructure your reply as markdown with exactly these second-level headings, in this order:\n")
	for _, s := range sections {
		fmt.Fprintf(b, "## %s\n", s)
	}
	b.WriteString("\n")
	b.WriteString(noFenceInstruction)
	b.WriteString("\n")
}

func sortedLanguages(langs map[string]float64) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	// Descending share, name as tiebreak, so the prompt is deterministic.
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}
