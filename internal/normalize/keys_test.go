package normalize

import (
	"testing"
)

func TestToLowerDotPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "double underscore to dot",
			input:    "FOO__BAR",
			expected: "foo.bar",
		},
		{
			name:     "single underscore preserved",
			input:    "DB_MAX_CONNECTIONS",
			expected: "db_max_connections",
		},
		{
			name:     "mixed double and single underscores",
			input:    "API__RATE_LIMIT",
			expected: "api.rate_limit",
		},
		{
			name:     "multiple levels",
			input:    "APP__DATABASE__HOST",
			expected: "app.database.host",
		},
		{
			name:     "already lowercase",
			input:    "simple",
			expected: "simple",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only underscores",
			input:    "____",
			expected: "..",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToLowerDotPath(tt.input)
			if result != tt.expected {
				t.Errorf("ToLowerDotPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		ok       bool
	}{
		{name: "single segment", input: "host", expected: []string{"host"}, ok: true},
		{name: "nested", input: "database.pool.max", expected: []string{"database", "pool", "max"}, ok: true},
		{name: "empty", input: "", ok: false},
		{name: "leading dot", input: ".host", ok: false},
		{name: "trailing dot", input: "host.", ok: false},
		{name: "double dot", input: "a..b", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, ok := SplitPath(tt.input)
			if ok != tt.ok {
				t.Fatalf("SplitPath(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if len(parts) != len(tt.expected) {
				t.Fatalf("SplitPath(%q) = %q, want %q", tt.input, parts, tt.expected)
			}
			for i := range parts {
				if parts[i] != tt.expected[i] {
					t.Errorf("SplitPath(%q)[%d] = %q, want %q", tt.input, i, parts[i], tt.expected[i])
				}
			}
		})
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		prefix   string
		key      string
		expected string
	}{
		{"database", "host", "database.host"},
		{"", "host", "host"},
		{"api", "", "api"},
		{"api", "rate_limit", "api.rate_limit"},
	}

	for _, tt := range tests {
		if got := JoinPath(tt.prefix, tt.key); got != tt.expected {
			t.Errorf("JoinPath(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.expected)
		}
	}
}
