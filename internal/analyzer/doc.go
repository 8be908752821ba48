// Package analyzer orchestrates repository analysis: it resolves the project
// and its language statistics, walks the repository tree, filters and
// prioritizes the candidate files, and fetches the content of the selected
// subset in paced batches.
//
// One file's fetch failure never fails the run; the outcome is recorded on
// the file and the analysis proceeds with what it has. Context cancellation
// is the only error that aborts a run mid-flight.
package analyzer
