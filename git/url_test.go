package git

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "HTTPS with .git suffix",
			input:    "https://github.com/my/repo.git",
			expected: "github.com/my/repo",
		},
		{
			name:     "HTTPS without .git suffix",
			input:    "https://github.com/my/repo",
			expected: "github.com/my/repo",
		},
		{
			name:     "SCP-style SSH",
			input:    "git@github.com:my/repo.git",
			expected: "github.com/my/repo",
		},
		{
			name:     "SCP-style SSH with different user",
			input:    "user@example.com:org/repo",
			expected: "example.com/org/repo",
		},
		{
			name:     "SSH URL with port",
			input:    "ssh://git@example.com:2222/org/repo.git",
			expected: "example.com/org/repo",
		},
		{
			name:     "trailing slash",
			input:    "https://github.com/my/repo/",
			expected: "github.com/my/repo",
		},
		{
			name:     "nested path",
			input:    "https://gitlab.com/group/subgroup/repo.git",
			expected: "gitlab.com/group/subgroup/repo",
		},
		{
			name:     "absolute local path",
			input:    "/srv/mirrors/repo.git",
			expected: "srv/mirrors/repo",
		},
		{
			name:     "file URL",
			input:    "file:///srv/mirrors/repo",
			expected: "srv/mirrors/repo",
		},
		{
			name:     "parent segments are dropped",
			input:    "https://example.com/../../etc/repo",
			expected: "example.com/etc/repo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeURL(tt.input); got != tt.expected {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
