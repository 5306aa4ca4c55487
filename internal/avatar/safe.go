package avatar

import (
	"strings"
	"unicode"
)

// maxSafeNameLen bounds the derived filename length.
const maxSafeNameLen = 50

// SafeFileName derives a filesystem-safe path component from a contact
// display name: every character that is not a letter, digit,
// underscore, hyphen, period or space is stripped, spaces become
// underscores, and the result is truncated to 50 characters.
//
// Two names that normalize to the same safe name collide; that is a
// known limitation of the naming scheme, not handled here.
func SafeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '_', r == '-', r == '.', r == ' ':
			b.WriteRune(r)
		}
	}

	safe := strings.ReplaceAll(b.String(), " ", "_")
	runes := []rune(safe)
	if len(runes) > maxSafeNameLen {
		safe = string(runes[:maxSafeNameLen])
	}
	return safe
}
