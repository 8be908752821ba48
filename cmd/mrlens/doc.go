// Mrlens analyzes GitLab repositories and merge requests with LLM providers.
//
// It walks a repository tree, selects the highest-signal files, and produces
// a structured AI review; for merge requests it reviews the change diff and
// can post the result back as a note.
//
// Usage:
//
//	mrlens analyze <project>              # structural analysis only
//	mrlens review repo <project>          # AI review of a repository
//	mrlens review mr <project> <iid>      # AI review of a merge request
//	mrlens mr create <project>            # create a merge request
//	mrlens branch list <project>          # list branches
//
// The GitLab API token is read from GITLAB_TOKEN.
package main
