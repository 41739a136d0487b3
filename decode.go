package xolmis

import (
	"strings"
	"unicode/utf8"
)

// splitComplete splits b before a trailing partial UTF-8 sequence, which
// is returned as tail so it can be completed by the next read. Invalid
// bytes count as complete.
func splitComplete(b []byte) (complete, tail []byte) {
	n := len(b)
	for i := n - 1; i >= 0 && i >= n-utf8.UTFMax; i-- {
		c := b[i]
		if c < utf8.RuneSelf {
			break
		}
		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[i:]) {
				return b[:i], b[i:]
			}
			break
		}
	}
	return b, nil
}

// decodeChunk converts b to a string, replacing invalid UTF-8 with U+FFFD.
func decodeChunk(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
