package htmlsanitizer

import (
	"regexp"
	"strings"

	"github.com/dkmccandless/htmlsanitizer/entity"
	"github.com/dkmccandless/htmlsanitizer/token"
)

// tagNameRegex matches the leading word run that names a tag.
var tagNameRegex = regexp.MustCompile(`^[0-9A-Za-z_]+`)

// attrNameRegex matches a valid attribute name.
var attrNameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z-]*`)

// unquotedValueRegex matches an unquoted attribute value: anything but a
// quote character or whitespace.
var unquotedValueRegex = regexp.MustCompile(`^[^"'\s]*`)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

func leadingSpace(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// garbageRun reports the length of the garbage span to discard when no
// attribute name matches at the current position: the first character,
// plus any run of characters that are neither letters nor whitespace.
func garbageRun(s string) int {
	if s == "" {
		return 0
	}
	n := 1
	for n < len(s) && !isLetter(s[n]) && !isSpace(s[n]) {
		n++
	}
	return n
}

// joinUntilGT concatenates toks[pos].Text[skip:] and the text of every
// following token up to (but not including) the next GreaterThan token.
// It returns the concatenated buffer and the index of that token, or
// ok=false if the token stream ends first.
func joinUntilGT(toks []token.Token, pos, skip int) (buf string, gt int, ok bool) {
	var b strings.Builder
	head := token.At(toks, pos).Text
	if skip < len(head) {
		b.WriteString(head[skip:])
	}
	p := pos + 1
	for {
		t := token.At(toks, p)
		if t.Kind == token.Empty {
			return "", 0, false
		}
		if t.Kind == token.GreaterThan {
			return b.String(), p, true
		}
		b.WriteString(t.Text)
		p++
	}
}

// extendBuffer is invoked when an attribute value's opening quote has no
// matching close within buf. It re-includes the literal ">" at toks[gt]
// (which turned out to be inside the value, not a real tag boundary),
// then appends subsequent tokens until one contains quote, and continues
// appending until the next GreaterThan token, which becomes the new tag
// boundary.
func extendBuffer(toks []token.Token, gt int, quote byte) (suffix string, newGT int, ok bool) {
	var b strings.Builder
	b.WriteString(token.At(toks, gt).Text)
	p := gt + 1
	foundQuote := false
	for {
		t := token.At(toks, p)
		if t.Kind == token.Empty {
			return "", 0, false
		}
		if foundQuote && t.Kind == token.GreaterThan {
			return b.String(), p, true
		}
		b.WriteString(t.Text)
		if !foundQuote && strings.IndexByte(t.Text, quote) >= 0 {
			foundQuote = true
		}
		p++
	}
}

// parseAttrs extracts attribute name/value pairs from buf according to
// the ATTR grammar, extending buf across further tokens (via
// extendBuffer) whenever a quoted value straddles a ">" that turns out
// not to be the tag's real close.
func parseAttrs(toks []token.Token, buf string, gt int) (attrs []Attr, newGT int, ok bool) {
	i := 0
	for i < len(buf) {
		rest := buf[i:]
		wsLen := leadingSpace(rest)
		nm := attrNameRegex.FindString(rest[wsLen:])
		if nm == "" {
			i += garbageRun(rest)
			continue
		}
		name := ToLower(nm)
		j := i + wsLen + len(nm)

		eqWS := leadingSpace(buf[j:])
		k := j + eqWS
		if k >= len(buf) || buf[k] != '=' {
			attrs = append(attrs, Attr{Name: name, Value: name})
			i = j
			continue
		}
		k++ // consume '='
		k += leadingSpace(buf[k:])

		if k < len(buf) && (buf[k] == '"' || buf[k] == '\'') {
			quote := buf[k]
			closeIdx := strings.IndexByte(buf[k+1:], quote)
			for closeIdx == -1 {
				suffix, ngt, extOK := extendBuffer(toks, gt, quote)
				if !extOK {
					return nil, 0, false
				}
				buf += suffix
				gt = ngt
				closeIdx = strings.IndexByte(buf[k+1:], quote)
			}
			inner := buf[k+1 : k+1+closeIdx]
			value := entity.UnescapeEntities(entity.StripNULs(inner))
			attrs = append(attrs, Attr{Name: name, Value: value})
			i = k + 1 + closeIdx + 1
			continue
		}

		val := unquotedValueRegex.FindString(buf[k:])
		value := entity.UnescapeEntities(entity.StripNULs(val))
		attrs = append(attrs, Attr{Name: name, Value: value})
		i = k + len(val)
	}
	return attrs, gt, true
}

// parseTag parses a start or end tag whose name begins at toks[pos]. It
// returns ok=false if the tag's closing ">" (or an attribute value's
// closing quote) is never found, in which case the caller must drop the
// tag and consume to the end of the token stream.
func parseTag(toks []token.Token, pos int, schema Schema) (Tag, bool) {
	head := token.At(toks, pos).Text
	nm := tagNameRegex.FindString(head)
	if nm == "" {
		return Tag{}, false
	}
	name := ToLower(nm)
	flags, known := schema.ElementFlags(name)

	buf, gt, ok := joinUntilGT(toks, pos, len(nm))
	if !ok {
		return Tag{}, false
	}
	attrs, gt, ok := parseAttrs(toks, buf, gt)
	if !ok {
		return Tag{}, false
	}
	return Tag{Name: name, Flags: flags, HasFlags: known, Attrs: attrs, Next: gt + 1}, true
}
