// Package cache provides a file-based cache for model review responses.
//
// Entries are keyed by a SHA-256 hash of the provider name, model, and the
// fully rendered prompt, so any change to the analyzed content or the review
// parameters produces a distinct entry. Each entry stores the raw response
// string along with a creation timestamp and a TTL in seconds. Expired
// entries are skipped on read.
//
// The default cache directory is $XDG_CACHE_HOME/mrlens (or the
// OS-appropriate equivalent). Prompts are hashed before use as filenames, so
// no analyzed content leaks into the directory listing; stored responses have
// already been through secret redaction upstream.
package cache
