package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepthLineLimit(t *testing.T) {
	assert.Equal(t, 20, DepthQuick.LineLimit())
	assert.Equal(t, 50, DepthStandard.LineLimit())
	assert.Equal(t, 100, DepthDeep.LineLimit())
	assert.Equal(t, 50, Depth("bogus").LineLimit())
}

func TestTruncateContent_UnderLimit(t *testing.T) {
	content := "a\nb\nc"
	assert.Equal(t, content, TruncateContent(content, DepthQuick))
}

func TestTruncateContent_CapsAtLimit(t *testing.T) {
	lines := make([]string, 75)
	for i := range lines {
		lines[i] = "line"
	}
	content := strings.Join(lines, "\n")

	got := TruncateContent(content, DepthStandard)
	gotLines := strings.Split(got, "\n")
	require.Len(t, gotLines, 51) // 50 content lines + marker
	assert.Equal(t, "... (25 more lines)", gotLines[50])
}

func TestTruncateContent_NeverExceedsLimitPlusMarker(t *testing.T) {
	for _, depth := range []Depth{DepthQuick, DepthStandard, DepthDeep} {
		content := strings.Repeat("x\n", 500)
		got := TruncateContent(content, depth)
		assert.LessOrEqual(t, len(strings.Split(got, "\n")), depth.LineLimit()+1,
			"depth %s", depth)
	}
}

func TestTruncateDiff_UnderBudget(t *testing.T) {
	assert.Equal(t, "short diff", TruncateDiff("short diff", 8000))
}

func TestTruncateDiff_NoNewlines(t *testing.T) {
	diff := strings.Repeat("a", 10000)
	got := TruncateDiff(diff, 8000)
	assert.Less(t, len(got), 10000)
	assert.Contains(t, got, "truncated")
	assert.NotContains(t, got, "% of original", "raw cuts carry no percentage")
}

func TestTruncateDiff_PrefersNewlineBoundary(t *testing.T) {
	// Newline-rich content: the last newline inside the budget falls well
	// past 80%, so the cut lands on it and the marker reports retention.
	diff := strings.Repeat(strings.Repeat("x", 39)+"\n", 300) // 12000 bytes
	got := TruncateDiff(diff, 8000)

	assert.Less(t, len(got), len(diff))
	assert.Contains(t, got, "% of original shown")
	// Content before the marker ends on a full line.
	idx := strings.Index(got, "\n\n... (diff truncated")
	require.Greater(t, idx, 0)
	body := got[:idx]
	assert.True(t, strings.HasSuffix(body, strings.Repeat("x", 39)))
}

func TestTruncateDiff_DefaultBudget(t *testing.T) {
	diff := strings.Repeat("y", 9000)
	got := TruncateDiff(diff, 0)
	assert.Less(t, len(got), 9000)
}
