package util

import "testing"

func TestTrimHelpers(t *testing.T) {
	if got := TrimAndLower("  FuLL "); got != "full" {
		t.Fatalf("TrimAndLower: got %q", got)
	}
	if got := TrimWithDefault(" ", "Account"); got != "Account" {
		t.Fatalf("TrimWithDefault: got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"日本語テキスト", 3, "日本語"},
		{"abc", 0, ""},
		{"", 4, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
