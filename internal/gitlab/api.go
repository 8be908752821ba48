package gitlab

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// GetProject fetches project metadata. projectRef is a numeric ID or a
// URL-encodable "namespace/path" reference.
func (c *Client) GetProject(ctx context.Context, projectRef string, opts ...CallOption) (*Project, error) {
	var p Project
	if err := c.do(ctx, "GET", "/projects/"+url.PathEscape(projectRef), nil, nil, &p, opts...); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListTree fetches the repository tree at ref, following pagination until the
// listing is exhausted.
func (c *Client) ListTree(ctx context.Context, projectRef, ref string, recursive bool) ([]TreeEntry, error) {
	const perPage = 100

	var tree []TreeEntry
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("ref", ref)
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))
		if recursive {
			q.Set("recursive", "true")
		}

		var entries []TreeEntry
		if err := c.do(ctx, "GET", "/projects/"+url.PathEscape(projectRef)+"/repository/tree", q, nil, &entries); err != nil {
			return nil, fmt.Errorf("listing tree at %s: %w", ref, err)
		}
		tree = append(tree, entries...)
		if len(entries) < perPage {
			return tree, nil
		}
	}
}

// GetLanguages fetches the language distribution for a project as a map of
// language name to percentage share.
func (c *Client) GetLanguages(ctx context.Context, projectRef string) (map[string]float64, error) {
	langs := make(map[string]float64)
	if err := c.do(ctx, "GET", "/projects/"+url.PathEscape(projectRef)+"/languages", nil, nil, &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// GetBranch fetches a single branch.
func (c *Client) GetBranch(ctx context.Context, projectRef, name string) (*Branch, error) {
	var b Branch
	path := "/projects/" + url.PathEscape(projectRef) + "/repository/branches/" + url.PathEscape(name)
	if err := c.do(ctx, "GET", path, nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBranches lists branches, optionally filtered by a search term.
func (c *Client) GetBranches(ctx context.Context, projectRef, search string) ([]Branch, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	var branches []Branch
	if err := c.do(ctx, "GET", "/projects/"+url.PathEscape(projectRef)+"/repository/branches", q, nil, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// CreateBranch creates a branch named name at ref.
func (c *Client) CreateBranch(ctx context.Context, projectRef, name, ref string) (*Branch, error) {
	q := url.Values{}
	q.Set("branch", name)
	q.Set("ref", ref)
	var b Branch
	if err := c.do(ctx, "POST", "/projects/"+url.PathEscape(projectRef)+"/repository/branches", q, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateMergeRequest validates that the source branch exists and creates a
// merge request. A missing source branch is reported as ErrBranchNotFound so
// callers can distinguish it from other validation failures.
func (c *Client) CreateMergeRequest(ctx context.Context, projectRef string, opts MergeRequestOptions) (*MergeRequest, error) {
	if _, err := c.GetBranch(ctx, projectRef, opts.SourceBranch); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("source branch %q: %w", opts.SourceBranch, ErrBranchNotFound)
		}
		return nil, fmt.Errorf("validating source branch: %w", err)
	}

	var mr MergeRequest
	if err := c.do(ctx, "POST", "/projects/"+url.PathEscape(projectRef)+"/merge_requests", nil, opts, &mr); err != nil {
		return nil, err
	}
	return &mr, nil
}

// GetMergeRequest fetches a merge request by IID.
func (c *Client) GetMergeRequest(ctx context.Context, projectRef string, iid int) (*MergeRequest, error) {
	var mr MergeRequest
	path := fmt.Sprintf("/projects/%s/merge_requests/%d", url.PathEscape(projectRef), iid)
	if err := c.do(ctx, "GET", path, nil, nil, &mr); err != nil {
		return nil, err
	}
	return &mr, nil
}

// GetMergeRequestDiff returns the unified diff for a merge request. It tries
// the raw diff endpoint first and, when that endpoint is unavailable, falls
// back to reconstructing a unified diff from the changes endpoint.
func (c *Client) GetMergeRequestDiff(ctx context.Context, projectRef string, iid int) (string, error) {
	path := fmt.Sprintf("/projects/%s/merge_requests/%d/raw_diffs", url.PathEscape(projectRef), iid)
	raw, err := c.doRaw(ctx, "GET", path, nil, nil, WithAccept("text/plain"))
	if err == nil {
		return string(raw), nil
	}
	if !IsNotFound(err) {
		return "", err
	}

	changes, err := c.getMergeRequestChanges(ctx, projectRef, iid)
	if err != nil {
		return "", fmt.Errorf("diff fallback via changes: %w", err)
	}
	return reconstructDiff(changes), nil
}

func (c *Client) getMergeRequestChanges(ctx context.Context, projectRef string, iid int) ([]Change, error) {
	var payload struct {
		Changes []Change `json:"changes"`
	}
	path := fmt.Sprintf("/projects/%s/merge_requests/%d/changes", url.PathEscape(projectRef), iid)
	if err := c.do(ctx, "GET", path, nil, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Changes, nil
}

// reconstructDiff builds a unified-diff-style document from per-file changes:
// a git header per file with new/deleted/renamed markers, followed by the
// hunk body the API returned.
func reconstructDiff(changes []Change) string {
	var b strings.Builder
	for _, ch := range changes {
		fmt.Fprintf(&b, "diff --git a/%s b/%s\n", ch.OldPath, ch.NewPath)
		switch {
		case ch.NewFile:
			b.WriteString("new file\n")
			fmt.Fprintf(&b, "--- /dev/null\n+++ b/%s\n", ch.NewPath)
		case ch.DeletedFile:
			b.WriteString("deleted file\n")
			fmt.Fprintf(&b, "--- a/%s\n+++ /dev/null\n", ch.OldPath)
		case ch.RenamedFile:
			fmt.Fprintf(&b, "rename from %s\nrename to %s\n", ch.OldPath, ch.NewPath)
			fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", ch.OldPath, ch.NewPath)
		default:
			fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", ch.OldPath, ch.NewPath)
		}
		b.WriteString(ch.Diff)
		if !strings.HasSuffix(ch.Diff, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// GetFileContent fetches a file's content at ref, decoding the base64 payload
// the files endpoint returns.
func (c *Client) GetFileContent(ctx context.Context, projectRef, filePath, ref string) (string, error) {
	var payload struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	q := url.Values{}
	q.Set("ref", ref)
	path := "/projects/" + url.PathEscape(projectRef) + "/repository/files/" + url.PathEscape(filePath)
	if err := c.do(ctx, "GET", path, q, nil, &payload); err != nil {
		return "", err
	}

	if payload.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(payload.Content)
		if err != nil {
			return "", fmt.Errorf("decoding content of %s: %w", filePath, err)
		}
		return string(decoded), nil
	}
	return payload.Content, nil
}

// PostNote posts a comment on a merge request.
func (c *Client) PostNote(ctx context.Context, projectRef string, iid int, body string) (*Note, error) {
	var note Note
	path := fmt.Sprintf("/projects/%s/merge_requests/%d/notes", url.PathEscape(projectRef), iid)
	payload := map[string]string{"body": body}
	if err := c.do(ctx, "POST", path, nil, payload, &note); err != nil {
		return nil, err
	}
	return &note, nil
}
