// Package cli implements the mrlens command-line interface.
//
// Commands:
//   - analyze - repository structure analysis without an AI review
//   - review  - AI review of a merge request (review mr) or repository (review repo)
//   - mr      - merge request management (create)
//   - branch  - branch management (list, create)
//   - config  - configuration management (init, set, show)
//   - cache   - response cache management (show, clear)
//   - version - print the version
//
// The GitLab token is read from GITLAB_TOKEN. Exit codes: 0 success, 2 usage
// error, 3 authentication failure, 4 runtime error.
package cli
