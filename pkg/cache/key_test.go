package cache

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{"single part", []string{"videos"}, "videos"},
		{"multiple parts", []string{"videos", "UC123", "page2"}, "videos:UC123:page2"},
		{"empty parts dropped", []string{"repos", "", "octocat"}, "repos:octocat"},
		{"no parts", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.parts...); got != tt.expected {
				t.Errorf("Key(%v) = %q, want %q", tt.parts, got, tt.expected)
			}
		})
	}
}

func TestNamespaced(t *testing.T) {
	tests := []struct {
		namespace string
		key       string
		expected  string
	}{
		{"portfolio", "videos", "portfolio:videos"},
		{"", "videos", "videos"},
		{"staging", "repos:octocat", "staging:repos:octocat"},
	}

	for _, tt := range tests {
		if got := namespaced(tt.namespace, tt.key); got != tt.expected {
			t.Errorf("namespaced(%q, %q) = %q, want %q", tt.namespace, tt.key, got, tt.expected)
		}
	}
}
