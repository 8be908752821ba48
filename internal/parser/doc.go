// Package parser recovers named sections from a model's free-text review.
//
// Generated replies drift between formatting conventions, so each section is
// extracted with an ordered sequence of fallback strategies: a markdown
// heading, a bold label, then the bare section title. The first match wins.
// This is deliberately best-effort; a missed section resolves to a
// caller-chosen placeholder rather than an error, because a partially
// structured review is still useful.
package parser
