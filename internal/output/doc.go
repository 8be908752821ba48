// Package output formats review results for display or machine consumption.
//
// Three formats are supported:
//   - text     - human-readable terminal output (default)
//   - json     - full structured JSON result
//   - markdown - note-friendly document, the format posted to merge requests
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteResult] to handle destination selection (file path or stdout).
package output
