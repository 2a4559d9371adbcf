// Package target validates user-supplied trace targets before any process
// is spawned.
package target

// MaxLen is the longest accepted target, in bytes.
const MaxLen = 255

// InvalidMessage describes the accepted input for callers whose target was
// rejected.
const InvalidMessage = "must contain only letters, digits, dots, dashes, colons, and underscores. Max 255 characters."

// Validate reports whether s is a syntactically acceptable target: 1 to
// MaxLen bytes drawn from [A-Za-z0-9._:-].
//
// No hostname or address parsing is attempted; the OS tool rejects
// malformed addresses itself. The only job here is keeping shell
// metacharacters and option-like input away from process creation.
func Validate(s string) bool {
	if len(s) == 0 || len(s) > MaxLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !allowed(s[i]) {
			return false
		}
	}
	return true
}

func allowed(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '.', c == '-', c == ':', c == '_':
		return true
	}
	return false
}
