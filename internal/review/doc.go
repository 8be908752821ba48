// Package review runs the AI-review pipeline end to end: it assembles a
// bounded prompt from a repository analysis or a merge-request diff, sends it
// through a providers.Generator, and parses the free-form reply back into a
// structured Result.
//
// A merge-request review carries six named sections and a derived one-line
// summary; a repository review carries eight sections and no summary.
// Unmatched sections resolve to a placeholder for repository reviews and to
// an empty string for merge-request reviews; callers branch on that
// difference, so the two parsers are intentionally not unified.
package review
