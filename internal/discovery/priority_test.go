package discovery

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrioritizeFiles_EntrypointOutranksHelper(t *testing.T) {
	langs := map[string]float64{"JavaScript": 100}
	files := []FileCandidate{
		blob("src/helper.js"),
		blob("src/index.js"),
	}

	got := PrioritizeFiles(files, langs, PriorityOptions{})
	require.Len(t, got, 2)
	assert.Equal(t, "index.js", got[0].FileName)
	assert.Greater(t, got[0].Priority, got[1].Priority)
}

func TestPrioritizeFiles_SecurityOutranksEntrypoint(t *testing.T) {
	files := []FileCandidate{
		blob("src/index.js"),
		blob("src/auth.js"),
	}
	got := PrioritizeFiles(files, nil, PriorityOptions{})
	assert.Equal(t, "auth.js", got[0].FileName)
}

func TestPrioritizeFiles_PathRules(t *testing.T) {
	files := []FileCandidate{
		blob("utils/format.js"),
		blob("models/user.js"),
		blob("api/handler.js"),
	}
	got := PrioritizeFiles(files, nil, PriorityOptions{})
	assert.Equal(t, "api/handler.js", got[0].Path)
	assert.Equal(t, "models/user.js", got[1].Path)
	assert.Equal(t, "utils/format.js", got[2].Path)
	assert.Equal(t, 15, got[0].Priority)
	assert.Equal(t, 10, got[1].Priority)
	assert.Equal(t, 8, got[2].Priority)
}

func TestPrioritizeFiles_SortIsStable(t *testing.T) {
	files := []FileCandidate{
		blob("src/one.py"),
		blob("src/two.py"),
		blob("src/three.py"),
	}
	got := PrioritizeFiles(files, map[string]float64{"Python": 50}, PriorityOptions{})
	require.Len(t, got, 3)
	assert.Equal(t, "src/one.py", got[0].Path)
	assert.Equal(t, "src/two.py", got[1].Path)
	assert.Equal(t, "src/three.py", got[2].Path)
}

func TestPrioritizeFiles_SortedDescending(t *testing.T) {
	files := []FileCandidate{
		blob("utils/a.go"),
		blob("api/auth.go"),
		blob("docs/readme.go"),
		blob("services/main.go"),
	}
	got := PrioritizeFiles(files, map[string]float64{"Go": 80}, PriorityOptions{})
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool {
		return got[i].Priority > got[j].Priority
	}))
	for _, f := range got {
		assert.GreaterOrEqual(t, f.Priority, 0)
	}
}

func TestPrioritizeFiles_CustomScoreFunc(t *testing.T) {
	files := []FileCandidate{
		blob("a.go"),
		blob("b.go"),
	}
	opts := PriorityOptions{
		NameRules: []Rule{},
		PathRules: []Rule{},
		Score: func(f FileCandidate, _ map[string]float64) int {
			if f.Path == "b.go" {
				return 99
			}
			return 1
		},
	}
	got := PrioritizeFiles(files, nil, opts)
	assert.Equal(t, "b.go", got[0].Path)
	assert.Equal(t, 99, got[0].Priority)
}

func TestLanguageWeight(t *testing.T) {
	langs := map[string]float64{"TypeScript": 62.4, "CSS": 10.0}
	assert.Equal(t, 62, LanguageWeight(blob("src/app.ts"), langs))
	assert.Equal(t, 10, LanguageWeight(blob("style.css"), langs))
	assert.Equal(t, 0, LanguageWeight(blob("script.rb"), langs))
	assert.Equal(t, 0, LanguageWeight(blob("LICENSE"), langs))
}

func TestSelectFiles(t *testing.T) {
	scores := []int{100, 90, 80, 70, 60}
	var prioritized []ScoredFile
	for i, s := range scores {
		prioritized = append(prioritized, ScoredFile{
			FileCandidate: blob("f" + string(rune('a'+i)) + ".go"),
			Priority:      s,
		})
	}

	top := SelectFiles(prioritized, 2)
	require.Len(t, top, 2)
	assert.Equal(t, 100, top[0].Priority)
	assert.Equal(t, 90, top[1].Priority)

	assert.Len(t, SelectFiles(prioritized, 10), 5)
	assert.Len(t, SelectFiles(prioritized, 0), 0)
	assert.Len(t, SelectFiles(nil, 3), 0)
}
