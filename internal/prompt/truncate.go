package prompt

import (
	"fmt"
	"strings"
)

// Depth controls how much of each file is included in a prompt.
type Depth string

const (
	DepthQuick    Depth = "quick"
	DepthStandard Depth = "standard"
	DepthDeep     Depth = "deep"
)

// LineLimit returns the per-file line cap for the depth. Unknown depths fall
// back to the standard cap.
func (d Depth) LineLimit() int {
	switch d {
	case DepthQuick:
		return 20
	case DepthDeep:
		return 100
	default:
		return 50
	}
}

// Valid reports whether d is a recognized depth.
func (d Depth) Valid() bool {
	switch d {
	case DepthQuick, DepthStandard, DepthDeep:
		return true
	}
	return false
}

// DefaultMaxDiffBytes is the byte budget for a single-diff prompt.
const DefaultMaxDiffBytes = 8000

// TruncateContent caps content at the depth's line limit, appending a marker
// with the number of omitted lines. Never cuts mid-line.
func TruncateContent(content string, depth Depth) string {
	limit := depth.LineLimit()
	lines := strings.Split(content, "\n")
	if len(lines) <= limit {
		return content
	}
	kept := strings.Join(lines[:limit], "\n")
	return fmt.Sprintf("%s\n... (%d more lines)", kept, len(lines)-limit)
}

// TruncateDiff caps a diff at maxBytes (DefaultMaxDiffBytes when <= 0). The
// cut prefers the last newline inside the budget when that newline falls past
// 80% of it, so hunks are not split mid-line; the marker then reports the
// percentage of the original retained. Otherwise the diff is cut at the raw
// byte boundary.
func TruncateDiff(diff string, maxBytes int) string {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDiffBytes
	}
	if len(diff) <= maxBytes {
		return diff
	}

	cut := diff[:maxBytes]
	if idx := strings.LastIndex(cut, "\n"); idx > int(float64(maxBytes)*0.8) {
		retained := idx * 100 / len(diff)
		return cut[:idx] + fmt.Sprintf("\n\n... (diff truncated, %d%% of original shown)", retained)
	}
	return cut + "\n\n... (diff truncated)"
}
