package stringutil

import (
	"regexp"
	"strings"
)

// DateTimePattern matches timestamps rendered as "YYYY-MM-DD HH:MM:SS", used by tests asserting
// on dates embedded in notification mail.
const DateTimePattern = `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`

// DateTimeRegexp is the compiled form of DateTimePattern.
var DateTimeRegexp = regexp.MustCompile(DateTimePattern)

// DecodeQuotedPrintable leniently decodes quoted-printable content.  Valid =XX escapes are
// decoded, "=" followed by optional blanks and a line ending (or the end of input) is a soft line
// break, and every other byte is copied unchanged, including trailing whitespace and bytes that
// should have been escaped.
func DecodeQuotedPrintable(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '=' {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 3
			continue
		}
		// Soft line break candidate.
		k := i + 1
		for k < len(s) && (s[k] == ' ' || s[k] == '\t') {
			k++
		}
		switch {
		case k == len(s):
			i = k
		case s[k] == '\r' && k+1 < len(s) && s[k+1] == '\n':
			i = k + 2
		case s[k] == '\r' || s[k] == '\n':
			i = k + 1
		default:
			b.WriteByte('=')
			i++
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// NormalizeNewlines converts CRLF line endings to LF.
func NormalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// JoinBody merges the text and HTML parts of a message into a single string, decoding
// quoted-printable content and normalizing line endings.
func JoinBody(text, html string) string {
	return NormalizeNewlines(DecodeQuotedPrintable(text + "\n" + html))
}
