package discovery

import (
	"math"
	"regexp"
	"sort"
)

// ScoredFile is a candidate with its computed selection priority.
type ScoredFile struct {
	FileCandidate
	FileName string
	Priority int
}

// Rule scores a file when its pattern matches.
type Rule struct {
	Pattern *regexp.Regexp
	Score   int
}

// ScoreFunc computes a priority contribution for a file. All contributions
// are additive and must be non-negative.
type ScoreFunc func(f FileCandidate, languageStats map[string]float64) int

// PriorityOptions configures PrioritizeFiles. Zero values fall back to the
// default rule tables and the language-weight score function.
type PriorityOptions struct {
	NameRules []Rule
	PathRules []Rule
	Score     ScoreFunc
}

// DefaultNameRules scores security- and auth-sounding filenames above
// entrypoints, and entrypoints above config.
func DefaultNameRules() []Rule {
	return []Rule{
		{regexp.MustCompile(`(?i)(auth|security|login|password|token|secret|session|crypt|permission)`), 25},
		{regexp.MustCompile(`(?i)^(index|main|app|server)\.`), 20},
		{regexp.MustCompile(`(?i)^(setup|init|bootstrap|entry)`), 15},
		{regexp.MustCompile(`(?i)(config|settings|constants)`), 10},
	}
}

// DefaultPathRules favors request-handling directories over domain layers
// over shared utilities.
func DefaultPathRules() []Rule {
	return []Rule{
		{regexp.MustCompile(`(?i)(^|/)(api|routes|controllers)/`), 15},
		{regexp.MustCompile(`(?i)(^|/)(models|services)/`), 10},
		{regexp.MustCompile(`(?i)(^|/)(utils|components)/`), 8},
	}
}

// languageExtensions maps a language name as reported by the languages
// endpoint to the extensions it owns.
var languageExtensions = map[string][]string{
	"JavaScript":  {".js", ".jsx", ".mjs", ".cjs"},
	"TypeScript":  {".ts", ".tsx"},
	"Vue":         {".vue"},
	"Svelte":      {".svelte"},
	"Python":      {".py"},
	"Ruby":        {".rb"},
	"Go":          {".go"},
	"Rust":        {".rs"},
	"Java":        {".java"},
	"Kotlin":      {".kt", ".kts"},
	"Scala":       {".scala"},
	"C":           {".c", ".h"},
	"C++":         {".cpp", ".cc", ".hpp"},
	"C#":          {".cs"},
	"PHP":         {".php"},
	"Swift":       {".swift"},
	"Objective-C": {".m", ".mm"},
	"Shell":       {".sh", ".bash", ".zsh"},
	"PowerShell":  {".ps1"},
	"Perl":        {".pl"},
	"Lua":         {".lua"},
	"R":           {".r"},
	"Julia":       {".jl"},
	"Dart":        {".dart"},
	"Elixir":      {".ex", ".exs"},
	"Erlang":      {".erl"},
	"Clojure":     {".clj"},
	"Haskell":     {".hs"},
	"Elm":         {".elm"},
	"HTML":        {".html"},
	"CSS":         {".css"},
	"SCSS":        {".scss"},
	"Less":        {".less"},
	"SQL":         {".sql"},
}

var extensionLanguage = func() map[string]string {
	m := make(map[string]string)
	for lang, exts := range languageExtensions {
		for _, ext := range exts {
			m[ext] = lang
		}
	}
	return m
}()

// LanguageWeight is the default ScoreFunc: the percentage share reported for
// the language owning the file's extension, rounded, or 0 when unmatched.
func LanguageWeight(f FileCandidate, languageStats map[string]float64) int {
	lang, ok := extensionLanguage[f.Extension()]
	if !ok {
		return 0
	}
	pct, ok := languageStats[lang]
	if !ok || pct < 0 {
		return 0
	}
	return int(math.Round(pct))
}

// PrioritizeFiles scores files and returns them sorted by descending
// priority. The sort is stable: ties keep input order.
func PrioritizeFiles(files []FileCandidate, languageStats map[string]float64, opts PriorityOptions) []ScoredFile {
	nameRules := opts.NameRules
	if nameRules == nil {
		nameRules = DefaultNameRules()
	}
	pathRules := opts.PathRules
	if pathRules == nil {
		pathRules = DefaultPathRules()
	}
	score := opts.Score
	if score == nil {
		score = LanguageWeight
	}

	scored := make([]ScoredFile, 0, len(files))
	for _, f := range files {
		name := f.FileName()
		priority := score(f, languageStats)
		for _, rule := range nameRules {
			if rule.Pattern.MatchString(name) {
				priority += rule.Score
			}
		}
		for _, rule := range pathRules {
			if rule.Pattern.MatchString(f.Path) {
				priority += rule.Score
			}
		}
		scored = append(scored, ScoredFile{
			FileCandidate: f,
			FileName:      name,
			Priority:      priority,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Priority > scored[j].Priority
	})
	return scored
}

// SelectFiles returns the top max files, preserving order. It returns the
// whole input when max exceeds its length.
func SelectFiles(prioritized []ScoredFile, max int) []ScoredFile {
	if max < 0 {
		max = 0
	}
	if max > len(prioritized) {
		max = len(prioritized)
	}
	return prioritized[:max]
}
