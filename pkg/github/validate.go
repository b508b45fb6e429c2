// Package github provides GitHub-specific building blocks: repository URL
// validation and an authenticated REST client for the metadata and
// code-search endpoints used by result enrichment.
package github

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// validSegment matches the characters GitHub allows in owner and repository
// names.
var validSegment = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ParseRepoURL validates a GitHub repository URL and returns its owner and
// repository segments.
//
// The URL must point at host github.com or www.github.com (any scheme) and
// carry a path of exactly two non-empty segments. Each failure mode returns
// a distinct diagnostic so the CLI can tell the user what exactly was wrong.
func ParseRepoURL(raw string) (owner, repo string, err error) {
	if raw == "" {
		return "", "", errors.New("URL cannot be empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid URL format: %w", err)
	}

	if parsed.Host != "" && parsed.Host != "github.com" && parsed.Host != "www.github.com" {
		return "", "", fmt.Errorf("URL must be a GitHub repository URL (github.com), got: %s", parsed.Host)
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return "", "", errors.New("invalid GitHub URL, missing repository path (expected format: https://github.com/owner/repository)")
	}

	segments := strings.Split(path, "/")
	if len(segments) != 2 {
		return "", "", fmt.Errorf("invalid GitHub repository URL: expected 2 path segments (owner/repository), got %d: %s",
			len(segments), strings.Join(segments, "/"))
	}

	owner, repo = segments[0], segments[1]
	if owner == "" || repo == "" {
		return "", "", errors.New("both owner and repository names must be non-empty (expected format: https://github.com/owner/repository)")
	}

	if !validSegment.MatchString(owner) {
		return "", "", fmt.Errorf("invalid owner name %q: must contain only alphanumeric characters, dots, hyphens, or underscores", owner)
	}
	if !validSegment.MatchString(repo) {
		return "", "", fmt.Errorf("invalid repository name %q: must contain only alphanumeric characters, dots, hyphens, or underscores", repo)
	}

	return owner, repo, nil
}
