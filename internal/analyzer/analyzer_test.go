package analyzer

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mrlens/internal/gitlab"
)

// fakeProject serves a minimal GitLab API for one project. File content is
// looked up in files; paths listed in broken return 500.
func fakeProject(t *testing.T, files map[string]string, broken map[string]bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v4/projects/42":
			json.NewEncoder(w).Encode(map[string]any{
				"id":                  42,
				"name":                "app",
				"path_with_namespace": "group/app",
				"default_branch":      "main",
			})
		case r.URL.Path == "/api/v4/projects/42/languages":
			json.NewEncoder(w).Encode(map[string]float64{"Go": 100})
		case r.URL.Path == "/api/v4/projects/42/repository/tree":
			var entries []map[string]string
			for path := range files {
				entries = append(entries, map[string]string{"path": path, "type": "blob"})
			}
			for path := range broken {
				entries = append(entries, map[string]string{"path": path, "type": "blob"})
			}
			entries = append(entries, map[string]string{"path": "src", "type": "tree"})
			json.NewEncoder(w).Encode(entries)
		case strings.HasPrefix(r.URL.Path, "/api/v4/projects/42/repository/files/"):
			path := strings.TrimPrefix(r.URL.Path, "/api/v4/projects/42/repository/files/")
			if broken[path] {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			content, ok := files[path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"content":  base64.StdEncoding.EncodeToString([]byte(content)),
				"encoding": "base64",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestAnalyze_FullPipeline(t *testing.T) {
	files := map[string]string{
		"main.go":              "package main\n\nfunc main() {}\n",
		"internal/helper.go":   "package internal\n",
		"node_modules/dep.js":  "module.exports = {}\n",
		"image.png":            "binary",
		"internal/security.go": "package internal\n",
	}
	srv := fakeProject(t, files, nil)
	defer srv.Close()

	client, err := gitlab.NewClient(srv.URL, "token")
	require.NoError(t, err)

	var phases []Phase
	a := New(client, nil, Options{
		OnProgress: func(p Progress) { phases = append(phases, p.Phase) },
	})
	res, err := a.Analyze(context.Background(), "42", "")
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "group/app", res.Project.PathWithNamespace)
	assert.Equal(t, "main", res.Ref, "empty ref resolves to the default branch")
	assert.Equal(t, map[string]float64{"Go": 100}, res.Languages)
	assert.Equal(t, 6, res.TotalFiles, "tree count includes directories and excluded files")

	var paths []string
	for _, f := range res.Files {
		paths = append(paths, f.Path)
		assert.True(t, f.Fetched)
		assert.Equal(t, files[f.Path], f.Content)
	}
	assert.NotContains(t, paths, "node_modules/dep.js")
	assert.NotContains(t, paths, "image.png")
	assert.NotContains(t, paths, "src")
	assert.Len(t, paths, 3)
	assert.Equal(t, 3, res.FilteredCount)
	assert.Equal(t, 3, res.SelectedCount)

	assert.Equal(t, "internal/security.go", res.Files[0].Path, "security-named file ranks first")
	assert.Equal(t, "main.go", res.Files[1].Path, "entrypoint ranks next")
	assert.Contains(t, phases, PhaseDiscovery)
	assert.Contains(t, phases, PhaseFetching)
	assert.Equal(t, PhaseDone, phases[len(phases)-1])

	assert.Equal(t, 3, res.Structure.TotalFiles)
	assert.Positive(t, res.Structure.TotalLines)
}

func TestAnalyze_MaxFilesCap(t *testing.T) {
	files := map[string]string{
		"a.go": "package a\n",
		"b.go": "package b\n",
		"c.go": "package c\n",
	}
	srv := fakeProject(t, files, nil)
	defer srv.Close()

	client, err := gitlab.NewClient(srv.URL, "token")
	require.NoError(t, err)

	a := New(client, nil, Options{MaxFiles: 2})
	res, err := a.Analyze(context.Background(), "42", "main")
	require.NoError(t, err)

	assert.Equal(t, 3, res.FilteredCount)
	assert.Equal(t, 2, res.SelectedCount)
	assert.Len(t, res.Files, 2)
}

func TestAnalyze_FetchFailureIsRecordedNotFatal(t *testing.T) {
	files := map[string]string{"ok.go": "package ok\n"}
	broken := map[string]bool{"bad.go": true}
	srv := fakeProject(t, files, broken)
	defer srv.Close()

	client, err := gitlab.NewClient(srv.URL, "token")
	require.NoError(t, err)

	a := New(client, nil, Options{})
	res, err := a.Analyze(context.Background(), "42", "main")
	require.NoError(t, err)
	require.Len(t, res.Files, 2)

	byPath := map[string]bool{}
	for _, f := range res.Files {
		byPath[f.Path] = f.Fetched
		if !f.Fetched {
			assert.NotEmpty(t, f.FetchError)
			assert.Empty(t, f.Content)
		}
	}
	assert.True(t, byPath["ok.go"])
	assert.False(t, byPath["bad.go"])
}

func TestAnalyze_ProjectLookupFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := gitlab.NewClient(srv.URL, "token")
	require.NoError(t, err)

	a := New(client, nil, Options{})
	_, err = a.Analyze(context.Background(), "42", "main")
	require.Error(t, err)
	assert.True(t, gitlab.IsNotFound(err))
}

func TestAnalyze_Cancellation(t *testing.T) {
	srv := fakeProject(t, map[string]string{"a.go": "package a\n"}, nil)
	defer srv.Close()

	client, err := gitlab.NewClient(srv.URL, "token")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(client, nil, Options{})
	_, err = a.Analyze(ctx, "42", "main")
	require.Error(t, err)
}
