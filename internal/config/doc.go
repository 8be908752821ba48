// Package config loads and merges mrlens configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (MRLENS_GITLAB_URL, MRLENS_PROVIDER, etc.)
//  3. Config file ($XDG_CONFIG_HOME/mrlens/config.json)
//  4. Built-in defaults
//
// The GitLab API token is never stored here; it is read from GITLAB_TOKEN at
// the point of use. Use [Load] to obtain a merged [Config] and [Save] to
// persist one.
package config
