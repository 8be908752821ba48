package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePack = `
nameRules:
  - pattern: "^handler"
    score: 30
pathRules:
  - pattern: "(^|/)internal/"
    score: 12
excludePaths:
  - ".generated."
extraExtensions:
  - ".proto"
`

func writePack(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRulePack(t *testing.T) {
	pack, err := LoadRulePack(writePack(t, samplePack))
	require.NoError(t, err)
	require.NotNil(t, pack)

	opts, err := pack.PriorityOptions()
	require.NoError(t, err)
	require.Len(t, opts.NameRules, 1)
	assert.Equal(t, 30, opts.NameRules[0].Score)
	// Name rules are case-insensitive.
	assert.True(t, opts.NameRules[0].Pattern.MatchString("Handler.go"))
	require.Len(t, opts.PathRules, 1)
	assert.True(t, opts.PathRules[0].Pattern.MatchString("internal/api/x.go"))

	var filter FilterOptions
	pack.ApplyTo(&filter)
	assert.Equal(t, []string{".generated."}, filter.ExcludePaths)
	assert.Equal(t, []string{".proto"}, filter.ExtraExtensions)
}

func TestLoadRulePack_EmptyPath(t *testing.T) {
	pack, err := LoadRulePack("")
	require.NoError(t, err)
	assert.Nil(t, pack)

	// nil pack is safe to use
	opts, err := pack.PriorityOptions()
	require.NoError(t, err)
	assert.Nil(t, opts.NameRules)
	pack.ApplyTo(&FilterOptions{})
}

func TestLoadRulePack_RejectsNegativeScores(t *testing.T) {
	_, err := LoadRulePack(writePack(t, "nameRules:\n  - pattern: x\n    score: -5\n"))
	require.Error(t, err)
}

func TestRulePack_BadPattern(t *testing.T) {
	pack, err := LoadRulePack(writePack(t, "pathRules:\n  - pattern: \"([\"\n    score: 5\n"))
	require.NoError(t, err)
	_, err = pack.PriorityOptions()
	require.Error(t, err)
}
