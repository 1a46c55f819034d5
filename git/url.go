package git

import (
	"net/url"
	"path/filepath"
	"strings"
)

// normalizeURL turns a repository location into a slash-separated relative key
// that is safe to join under a base directory.
//
// Normalization rules:
//  1. Strip .git suffix
//  2. Convert SCP-style SSH locations (git@host:path) to host/path
//  3. Convert URLs with a scheme (https, ssh, git, file) to host/path
//  4. Drop empty, "." and ".." segments so the key never escapes its parent
//
// Examples:
//   - https://github.com/my/repo.git → github.com/my/repo
//   - git@github.com:my/repo → github.com/my/repo
//   - ssh://git@example.com:2222/org/repo → example.com/org/repo
//   - /srv/mirrors/repo.git → srv/mirrors/repo
func normalizeURL(rawURL string) string {
	rawURL = strings.TrimSuffix(strings.TrimSuffix(rawURL, "/"), ".git")

	var key string
	switch {
	case isSCPLike(rawURL):
		hostPath := rawURL[strings.Index(rawURL, "@")+1:]
		key = strings.Replace(hostPath, ":", "/", 1)
	default:
		parsed, err := url.Parse(rawURL)
		if err == nil && parsed.Scheme != "" && parsed.Scheme != "file" && parsed.Host != "" {
			key = parsed.Hostname() + "/" + parsed.Path
		} else if err == nil && parsed.Scheme == "file" {
			key = parsed.Path
		} else {
			key = rawURL
		}
	}

	return cleanKey(key)
}

// isSCPLike reports whether rawURL has the user@host:path form git accepts
// for SSH.
func isSCPLike(rawURL string) bool {
	return strings.Contains(rawURL, "@") &&
		strings.Contains(rawURL, ":") &&
		!strings.Contains(rawURL, "://")
}

func cleanKey(key string) string {
	parts := strings.Split(filepath.ToSlash(key), "/")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, "/")
}
