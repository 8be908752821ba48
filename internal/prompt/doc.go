// Package prompt turns repository and merge-request data into a single
// bounded natural-language request for a generative-text provider.
//
// Depth controls per-file line caps, focus selects the analytical framing
// sentence, and all truncation is line- or newline-aware so content is never
// cut mid-line or mid-hunk. Prompts request a fixed ordered set of markdown
// sections and forbid fenced-code-block wrapping, because the response
// parser's primary extraction strategy assumes unwrapped markdown.
package prompt
