package extract

import (
	"unicode/utf8"
)

func extractText(payload []byte) (string, error) {
	if !utf8.Valid(payload) {
		return "", &DecodeError{Offset: firstInvalid(payload)}
	}
	return string(payload), nil
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
