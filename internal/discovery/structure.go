package discovery

import (
	"path"
	"sort"
	"strings"
)

// SelectedFile is a scored file after its content has been fetched. Fetched
// and FetchError record the per-file outcome; failed files carry no content.
type SelectedFile struct {
	ScoredFile
	Content    string
	Encoding   string
	Fetched    bool
	FetchError string
}

// ExtensionStats aggregates files sharing an extension.
type ExtensionStats struct {
	Count     int   `json:"count"`
	TotalSize int64 `json:"totalSize"`
}

// FileSize pairs a path with its size for the largest-files report.
type FileSize struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Structure is the derived structural report over the selected files.
type Structure struct {
	Extensions  map[string]ExtensionStats `json:"extensions"`
	Directories map[string][]string       `json:"directories"`
	TotalFiles  int                       `json:"totalFiles"`
	TotalSize   int64                     `json:"totalSize"`
	TotalLines  int                       `json:"totalLines"`
	AverageSize int64                     `json:"averageSize"`
	MaxDepth    int                       `json:"maxDepth"`
	Largest     []FileSize                `json:"largest"`
}

// AnalyzeStructure derives per-extension, per-directory, and aggregate
// metrics from the selected files. Purely computational; never fails.
func AnalyzeStructure(files []SelectedFile) Structure {
	s := Structure{
		Extensions:  make(map[string]ExtensionStats),
		Directories: make(map[string][]string),
		TotalFiles:  len(files),
	}

	for _, f := range files {
		ext := f.Extension()
		if ext == "" {
			ext = "(none)"
		}
		stats := s.Extensions[ext]
		stats.Count++
		stats.TotalSize += f.Size
		s.Extensions[ext] = stats

		dir := path.Dir(f.Path)
		s.Directories[dir] = append(s.Directories[dir], f.Path)

		s.TotalSize += f.Size
		s.TotalLines += lineCount(f.Content)

		if depth := len(strings.Split(f.Path, "/")); depth > s.MaxDepth {
			s.MaxDepth = depth
		}

		s.Largest = append(s.Largest, FileSize{Path: f.Path, Size: f.Size})
	}

	if len(files) > 0 {
		s.AverageSize = s.TotalSize / int64(len(files))
	}

	sort.SliceStable(s.Largest, func(i, j int) bool {
		return s.Largest[i].Size > s.Largest[j].Size
	})
	if len(s.Largest) > 5 {
		s.Largest = s.Largest[:5]
	}

	return s
}

// lineCount counts newline-delimited segments; empty content has zero lines.
func lineCount(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Split(content, "\n"))
}
