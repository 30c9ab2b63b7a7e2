package model

import "strings"

// videoIDLength is the fixed width of the upstream provider's identifiers.
const videoIDLength = 11

// ExtractVideoID normalizes arbitrary input into a canonical video ID when
// one is syntactically present. It accepts a bare 11-character ID or any of
// the known URL shapes (watch?v=, youtu.be/, /embed/). The second return
// value is false when no identifier can be extracted; callers treat that as
// the normal signal to fall through to free-text resolution, not an error.
func ExtractVideoID(input string) (string, bool) {
	input = strings.TrimSpace(input)

	if IsVideoID(input) {
		return input, true
	}

	for _, marker := range []string{"watch?v=", "youtu.be/", "/embed/"} {
		idx := strings.Index(input, marker)
		if idx < 0 {
			continue
		}
		if id, ok := leadingVideoID(input[idx+len(marker):]); ok {
			return id, true
		}
	}

	return "", false
}

// IsVideoID reports whether s is exactly an 11-character identifier drawn
// from the provider's ID alphabet [A-Za-z0-9_-].
func IsVideoID(s string) bool {
	if len(s) != videoIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isVideoIDChar(s[i]) {
			return false
		}
	}
	return true
}

// leadingVideoID extracts a full-width ID run from the start of s.
func leadingVideoID(s string) (string, bool) {
	if len(s) < videoIDLength {
		return "", false
	}
	for i := 0; i < videoIDLength; i++ {
		if !isVideoIDChar(s[i]) {
			return "", false
		}
	}
	return s[:videoIDLength], true
}

func isVideoIDChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	default:
		return false
	}
}
