// Package discovery reduces an arbitrarily large repository tree to a small,
// high-signal subset of files worth sending to a review model.
//
// Filtering drops directories, excluded path segments, binary and oversized
// entries, and anything outside the recognized code/config/docs extension
// sets. Prioritization assigns each surviving file an additive score from the
// project's language distribution plus name- and path-pattern rules, and
// selection takes the top-scored prefix under a hard budget.
//
// Scoring is supplied by composition: callers can replace the rule tables or
// the whole ScoreFunc without touching the engine.
package discovery
