package discovery

import (
	"path"
	"strings"
)

// FileCandidate is one tree-listing entry under consideration. Size is in
// bytes; 0 means unknown, and unknown sizes pass the size ceiling check.
type FileCandidate struct {
	Path string
	Type string
	Size int64
}

// Extension returns the lowercased extension of the candidate's path,
// including the leading dot.
func (f FileCandidate) Extension() string {
	return strings.ToLower(path.Ext(f.Path))
}

// FileName returns the bare filename of the candidate's path.
func (f FileCandidate) FileName() string {
	return path.Base(f.Path)
}

// DefaultMaxFileSize is the byte ceiling above which files are skipped.
const DefaultMaxFileSize = 100_000

// defaultExcludedSegments are path segments that never contain reviewable
// source.
var defaultExcludedSegments = map[string]bool{
	"node_modules":     true,
	".git":             true,
	".svn":             true,
	"vendor":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"target":           true,
	"coverage":         true,
	"__pycache__":      true,
	".pytest_cache":    true,
	".next":            true,
	".nuxt":            true,
	".idea":            true,
	".vscode":          true,
	"bower_components": true,
	"tmp":              true,
	"bin":              true,
	"obj":              true,
}

// binaryExtensions are media/archive/compiled formats with no reviewable
// text content.
var binaryExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true,
	".ico": true, ".webp": true, ".svg": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
	".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".bz2": true,
	".rar": true, ".7z": true,
	".exe": true, ".dll": true, ".so": true, ".dylib": true, ".a": true,
	".class": true, ".jar": true, ".pyc": true, ".wasm": true,
	".db": true, ".sqlite": true, ".dat": true, ".bin": true,
}

var codeExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".vue": true, ".svelte": true,
	".py": true, ".rb": true, ".go": true, ".rs": true,
	".java": true, ".kt": true, ".kts": true, ".scala": true, ".groovy": true,
	".c": true, ".h": true, ".cpp": true, ".cc": true, ".hpp": true,
	".cs": true, ".php": true, ".swift": true, ".m": true, ".mm": true,
	".sh": true, ".bash": true, ".zsh": true, ".ps1": true,
	".pl": true, ".lua": true, ".r": true, ".jl": true, ".dart": true,
	".ex": true, ".exs": true, ".erl": true, ".clj": true, ".hs": true,
	".elm": true, ".sql": true,
	".html": true, ".css": true, ".scss": true, ".less": true, ".sass": true,
}

var configExtensions = map[string]bool{
	".json": true, ".yaml": true, ".yml": true, ".toml": true, ".ini": true,
	".env": true, ".conf": true, ".cfg": true, ".xml": true,
	".properties": true, ".gradle": true, ".tf": true,
}

// configFileNames covers extension-less files that behave like config.
var configFileNames = map[string]bool{
	"dockerfile": true,
	"makefile":   true,
	"rakefile":   true,
	"gemfile":    true,
	"procfile":   true,
}

var docExtensions = map[string]bool{
	".md": true, ".rst": true, ".txt": true, ".adoc": true,
}

// FilterOptions controls FilterFiles.
type FilterOptions struct {
	// MaxFileSize is the byte ceiling; <= 0 uses DefaultMaxFileSize.
	MaxFileSize int64
	// IncludeConfig admits config extensions.
	IncludeConfig bool
	// IncludeDocs admits documentation extensions.
	IncludeDocs bool
	// ExcludePaths are caller-supplied exclusions matched as substrings of
	// the full path, unlike the defaults which match whole segments.
	ExcludePaths []string
	// ExtraExtensions admits additional extensions (with leading dot).
	ExtraExtensions []string
}

// FilterFiles keeps only the file entries of tree that are plausibly worth
// reviewing. It never fails for well-formed input; entries with an empty
// path are a caller contract violation.
func FilterFiles(tree []FileCandidate, opts FilterOptions) []FileCandidate {
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	extra := make(map[string]bool, len(opts.ExtraExtensions))
	for _, ext := range opts.ExtraExtensions {
		extra[strings.ToLower(ext)] = true
	}

	var kept []FileCandidate
	for _, f := range tree {
		if f.Type != "blob" {
			continue
		}
		if hasExcludedSegment(f.Path) || hasCustomExclusion(f.Path, opts.ExcludePaths) {
			continue
		}
		ext := f.Extension()
		if binaryExtensions[ext] {
			continue
		}
		if f.Size > maxSize {
			continue
		}

		name := strings.ToLower(f.FileName())
		switch {
		case codeExtensions[ext]:
		case extra[ext]:
		case opts.IncludeConfig && (configExtensions[ext] || configFileNames[name]):
		case opts.IncludeDocs && docExtensions[ext]:
		default:
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func hasExcludedSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if defaultExcludedSegments[seg] {
			return true
		}
	}
	return false
}

func hasCustomExclusion(p string, patterns []string) bool {
	for _, pat := range patterns {
		if pat != "" && strings.Contains(p, pat) {
			return true
		}
	}
	return false
}
