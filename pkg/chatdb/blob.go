package chatdb

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExtractBlobText pulls readable text out of an attributedBody blob.
//
// The blob is an archived NSAttributedString; a real decoder would parse the
// typedstream format. This is the same best-effort heuristic the report has
// always used: decode as UTF-8, drop invalid bytes, and keep printable runes
// and whitespace. Precision is explicitly out of scope; downstream word
// filtering suppresses the archiver tokens that leak through.
func ExtractBlobText(blob []byte) string {
	if len(blob) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(len(blob))
	for i := 0; i < len(blob); {
		r, size := utf8.DecodeRune(blob[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
