package htmlsanitizer

import (
	"regexp"
	"strings"
	"sync"

	"github.com/dkmccandless/htmlsanitizer/entity"
	"github.com/dkmccandless/htmlsanitizer/token"
)

// fastPathRegex matches a bare tag name with no attributes, optionally
// followed by a self-closing slash: the shape the tokenizer can emit
// without invoking the attribute parser.
var fastPathRegex = regexp.MustCompile(`^[0-9A-Za-z_]+\s*/?$`)

// entityLookaheadRegex matches the start of something that looks like a
// well-formed entity reference, following an "&" token.
var entityLookaheadRegex = regexp.MustCompile(`^(#[0-9]+|#[xX][0-9A-Fa-f]+|[0-9A-Za-z_]+);`)

// endTagCache memoizes, per element name, the regex used by the
// CDATA/RCDATA text sub-parser to find that element's closing tag. It is
// process-wide and safe for concurrent use from multiple Sanitize calls.
var endTagCache sync.Map // map[string]*regexp.Regexp

func endTagRegex(name string) *regexp.Regexp {
	if v, ok := endTagCache.Load(name); ok {
		return v.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(name) + `([\s/>]|$)`)
	v, _ := endTagCache.LoadOrStore(name, re)
	return v.(*regexp.Regexp)
}

func startsWithWordChar(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return isLetter(c) || c >= '0' && c <= '9' || c == '_'
}

// NewSAXParser returns a function that walks input's token stream and
// invokes h's methods in order: StartDoc, then one event per tag or run
// of text, then EndDoc. It never panics, regardless of how malformed
// input is: stray "<", "&", and ">" are escaped as text, comments,
// declarations, and processing instructions are skipped, and a tag whose
// closing ">" never appears ends the walk, dropping the rest of input.
func NewSAXParser(h Handler) func(input string) {
	return func(input string) { runSAX(input, h, DefaultSchema()) }
}

// runSAX is the tokenizer proper: §4.3 of the design. schema supplies the
// element flags used to decide known-ness, CDATA/RCDATA content mode,
// and fast-path eligibility.
func runSAX(input string, h Handler, schema Schema) {
	toks := token.Split(input)
	h.StartDoc()
	defer h.EndDoc()

	var noMoreComments, noMoreBang, noMorePI bool

	pos := 0
	for pos < len(toks) {
		t := toks[pos]
		switch t.Kind {
		case token.Ampersand:
			next := token.At(toks, pos+1)
			if entityLookaheadRegex.MatchString(next.Text) {
				h.PCData("&" + next.Text)
				pos += 2
			} else {
				h.PCData("&amp;")
				pos++
			}

		case token.LessThanSlash:
			next := token.At(toks, pos+1)
			if !startsWithWordChar(next.Text) {
				h.PCData("&lt;/")
				pos++
				continue
			}
			if fastPathRegex.MatchString(next.Text) && token.At(toks, pos+2).Kind == token.GreaterThan {
				name := ToLower(tagNameRegex.FindString(next.Text))
				if _, known := schema.ElementFlags(name); known {
					h.EndTag(name)
				}
				pos += 3
				continue
			}
			tag, ok := parseTag(toks, pos+1, schema)
			if !ok {
				pos = len(toks)
				continue
			}
			if tag.HasFlags {
				h.EndTag(tag.Name)
			}
			pos = tag.Next

		case token.LessThan:
			next := token.At(toks, pos+1)
			if !startsWithWordChar(next.Text) {
				h.PCData("&lt;")
				pos++
				continue
			}
			if fastPathRegex.MatchString(next.Text) && token.At(toks, pos+2).Kind == token.GreaterThan {
				name := ToLower(tagNameRegex.FindString(next.Text))
				flags, known := schema.ElementFlags(name)
				cursor := pos + 3
				if known {
					h.StartTag(name, nil)
					if flags&(FlagCDATA|FlagRCDATA) != 0 {
						cursor = emitText(toks, cursor, name, flags, h)
					}
				}
				pos = cursor
				continue
			}
			tag, ok := parseTag(toks, pos+1, schema)
			if !ok {
				pos = len(toks)
				continue
			}
			cursor := tag.Next
			if tag.HasFlags {
				h.StartTag(tag.Name, tag.Attrs)
				if tag.Flags&(FlagCDATA|FlagRCDATA) != 0 {
					cursor = emitText(toks, tag.Next, tag.Name, tag.Flags, h)
				}
			}
			pos = cursor

		case token.LessThanBangDashDash:
			if noMoreComments {
				h.PCData("&lt;!--")
				pos++
				continue
			}
			if end, found := scanCommentEnd(toks, pos+1); found {
				pos = end + 1
			} else {
				noMoreComments = true
				h.PCData("&lt;!--")
				pos++
			}

		case token.LessThanBang:
			next := token.At(toks, pos+1)
			if !startsWithWordChar(next.Text) {
				h.PCData("&lt;!")
				pos++
				continue
			}
			if noMoreBang {
				h.PCData("&lt;!")
				pos++
				continue
			}
			if end, found := scanToGT(toks, pos+1); found {
				pos = end + 1
			} else {
				noMoreBang = true
				h.PCData("&lt;!")
				pos++
			}

		case token.LessThanQuestion:
			if noMorePI {
				h.PCData("&lt;?")
				pos++
				continue
			}
			if end, found := scanToGT(toks, pos+1); found {
				pos = end + 1
			} else {
				noMorePI = true
				h.PCData("&lt;?")
				pos++
			}

		case token.GreaterThan:
			h.PCData("&gt;")
			pos++

		default: // Literal
			if t.Text != "" {
				h.PCData(t.Text)
			}
			pos++
		}
	}
}

// scanCommentEnd finds the first GreaterThan token from start onward
// whose preceding token's text ends in "--", i.e. the end of an HTML
// comment. It returns the index of that GreaterThan token.
func scanCommentEnd(toks []token.Token, start int) (int, bool) {
	for p := start; p < len(toks); p++ {
		if toks[p].Kind == token.GreaterThan && strings.HasSuffix(token.At(toks, p-1).Text, "--") {
			return p, true
		}
	}
	return 0, false
}

// scanToGT finds the first GreaterThan token from start onward.
func scanToGT(toks []token.Token, start int) (int, bool) {
	for p := start; p < len(toks); p++ {
		if toks[p].Kind == token.GreaterThan {
			return p, true
		}
	}
	return 0, false
}

// emitText runs the CDATA/RCDATA text sub-parser (§4.3.1): it scans
// forward from start for the matching "</name", concatenates everything
// before it as the element's content, emits the appropriate CData or
// RCData event, and returns the cursor positioned at the "</" token so
// the outer loop processes the closing tag normally. If no closing tag
// is found, the rest of the input is treated as content and the cursor
// is left at the end of the stream.
func emitText(toks []token.Token, start int, name string, flags ElementFlags, h Handler) int {
	if flags&(FlagCDATA|FlagRCDATA) == 0 {
		panic("emitText: element is neither CDATA nor RCDATA")
	}
	re := endTagRegex(name)
	end := len(toks)
	for p := start; p < len(toks); p++ {
		if token.At(toks, p-1).Kind == token.LessThanSlash && re.MatchString(toks[p].Text) {
			end = p - 1
			break
		}
	}
	var b strings.Builder
	for _, t := range toks[start:end] {
		b.WriteString(t.Text)
	}
	content := b.String()
	if flags&FlagCDATA != 0 {
		h.CData(content)
	} else {
		h.RCData(entity.NormalizeRCDATA(content))
	}
	return end
}
