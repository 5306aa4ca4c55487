package avatar

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain name kept", in: "jane", want: "jane"},
		{name: "spaces become underscores", in: "Jane Doe", want: "Jane_Doe"},
		{name: "punctuation dropped", in: "jane/doe?*", want: "janedoe"},
		{name: "dots dashes underscores kept", in: "jane-doe_v2.bak", want: "jane-doe_v2.bak"},
		{name: "unicode letters kept", in: "søren", want: "søren"},
		{name: "empty stays empty", in: "", want: ""},
		{name: "only junk collapses to empty", in: "///???", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafeFileName(tt.in); got != tt.want {
				t.Errorf("SafeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	t.Run("long names truncated to 50 runes", func(t *testing.T) {
		got := SafeFileName(strings.Repeat("a", 80))
		if n := utf8.RuneCountInString(got); n != 50 {
			t.Errorf("len = %d runes, want 50", n)
		}
	})
}
