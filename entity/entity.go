// Package entity implements the text codec used throughout htmlsanitizer:
// decoding and encoding HTML character references, escaping attribute
// values, and normalizing RCDATA text.
//
// All operations are total: every function returns a result for any input,
// including malformed entity-like sequences, which are left verbatim.
package entity

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Table is the fixed set of named character references this package
// recognizes. It deliberately omits the rest of the HTML5 named character
// reference list (Greek letters and the like); a caller that needs the
// full list can decode those names itself before or after calling
// UnescapeEntities.
var Table = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"amp":  '&',
	"nbsp": ' ',
	"quot": '"',
	"apos": '\'',
}

// entityRegex matches an entity reference's name, the content between
// "&" and ";": a decimal or hex code point, or a bare word.
var entityRegex = regexp.MustCompile(`&(#[0-9]+|#[xX][0-9A-Fa-f]+|[A-Za-z0-9_]+);`)

// entityStartRegex matches the start of something that looks like it could
// be an entity reference, used by NormalizeRCDATA to decide whether a "&"
// should be left alone or escaped.
var entityStartRegex = regexp.MustCompile(`^(#[0-9]+|#[xX][0-9A-Fa-f]+|[A-Za-z0-9_]+);`)

// foldASCII lowercases only ASCII A-Z, avoiding the Turkish-locale I/i
// misfolds that strings.ToLower can introduce under some Unicode tables.
func foldASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// DecodeEntity decodes name, the text between "&" and ";", and returns its
// replacement string. It returns "" if name is not a recognized named
// entity and not a well-formed decimal or hexadecimal reference. A
// numeric reference to a negative, surrogate, or above-U+10FFFF code
// point decodes to U+FFFD.
func DecodeEntity(name string) string {
	if r, ok := Table[foldASCII(name)]; ok {
		return string(r)
	}
	if strings.HasPrefix(name, "#x") || strings.HasPrefix(name, "#X") {
		n, err := strconv.ParseInt(name[2:], 16, 32)
		if err != nil {
			return ""
		}
		return decodeRune(rune(n))
	}
	if strings.HasPrefix(name, "#") {
		n, err := strconv.ParseInt(name[1:], 10, 32)
		if err != nil {
			return ""
		}
		return decodeRune(rune(n))
	}
	return ""
}

func decodeRune(r rune) string {
	if r < 0 || r > utf8.MaxRune || !utf8.ValidRune(r) {
		return string(utf8.RuneError)
	}
	return string(r)
}

// UnescapeEntities replaces every well-formed entity reference in s with
// its decoded value. Ill-formed entity-like sequences, including ones
// whose name DecodeEntity does not recognize, are left verbatim.
func UnescapeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return entityRegex.ReplaceAllStringFunc(s, func(m string) string {
		name := m[1 : len(m)-1]
		if d := DecodeEntity(name); d != "" {
			return d
		}
		return m
	})
}

// attribEscaper applies, in order, the four replacements EscapeAttrib
// requires: &, <, >, and " (encoded numerically to survive re-parsing by
// picky attribute-value consumers).
var attribEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&#34;",
)

// EscapeAttrib escapes s for use inside a double-quoted HTML attribute
// value.
func EscapeAttrib(s string) string {
	return attribEscaper.Replace(s)
}

// rcdataAngles replaces the remaining "<" and ">" left after ampersand
// handling.
var rcdataAngles = strings.NewReplacer(`<`, "&lt;", `>`, "&gt;")

// NormalizeRCDATA re-encodes s, the raw text content of an RCDATA element,
// for safe re-emission: ampersands not beginning a plausible entity
// reference are escaped, and all "<"/">" are escaped.
func NormalizeRCDATA(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for {
		i := strings.IndexByte(s, '&')
		if i == -1 {
			b.WriteString(rcdataAngles.Replace(s))
			return b.String()
		}
		b.WriteString(rcdataAngles.Replace(s[:i]))
		rest := s[i+1:]
		if entityStartRegex.MatchString(rest) {
			b.WriteByte('&')
		} else {
			b.WriteString("&amp;")
		}
		s = rest
	}
}

// StripNULs removes every U+0000 from s.
func StripNULs(s string) string {
	if !strings.ContainsRune(s, 0) {
		return s
	}
	return strings.ReplaceAll(s, "\x00", "")
}
