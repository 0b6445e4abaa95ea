package htmlsanitizer

import "strings"

// ElementFlags is a bitset of behaviors a Schema attaches to an element.
type ElementFlags uint

const (
	// FlagUnsafe marks an element (and its contents) to be dropped
	// entirely, e.g. script, style, iframe.
	FlagUnsafe ElementFlags = 1 << iota
	// FlagEmpty marks a void element: no end tag is ever emitted.
	FlagEmpty
	// FlagOptionalEndTag marks an element whose end tag may be
	// implicitly supplied by the balancing sanitizer.
	FlagOptionalEndTag
	// FlagCDATA marks an element whose content is raw text up to its
	// own closing tag.
	FlagCDATA
	// FlagRCDATA marks an element whose content is text with entities
	// resolved but no tags.
	FlagRCDATA
	// FlagFoldable marks an element that is elided on output while its
	// children are kept.
	FlagFoldable
)

// AttrType classifies how an attribute's value is sanitized.
type AttrType int

const (
	// AttrNone passes the value through unchanged.
	AttrNone AttrType = iota
	// AttrScript marks an attribute that is always deleted, e.g. event
	// handlers.
	AttrScript
	// AttrStyle marks a CSS declaration list, sanitized property by
	// property if a CSS collaborator is available.
	AttrStyle
	// AttrID marks a single ID token.
	AttrID
	// AttrIDRef marks a reference to a single ID elsewhere in the
	// document.
	AttrIDRef
	// AttrIDRefs marks a space-separated list of ID references.
	AttrIDRefs
	// AttrGlobalName marks a name that must be unique document-wide.
	AttrGlobalName
	// AttrLocalName marks a name with narrower uniqueness requirements
	// than AttrGlobalName.
	AttrLocalName
	// AttrClasses marks a space-separated list of class tokens.
	AttrClasses
	// AttrURI marks a URI, rewritten via the caller's URIRewriter after
	// a scheme check.
	AttrURI
	// AttrURIFragment marks a "#"-prefixed fragment reference.
	AttrURIFragment
)

// Schema bundles the element and attribute tables the tokenizer and
// policy engine consume as data. Both tables are read-only once
// constructed; DefaultSchema returns a ready-to-use instance, and callers
// may build their own for a stricter or looser policy.
type Schema struct {
	// Elements maps a lowercase element name to its flags. An element
	// absent from this map is unknown and is dropped by the tokenizer.
	Elements map[string]ElementFlags

	// Attributes maps "tag::attr" to an AttrType, with "*::attr" as a
	// fallback applied to any tag. An attribute absent from both is
	// dropped.
	Attributes map[string]AttrType
}

// ElementFlags reports the flags for name and whether name is known.
func (s Schema) ElementFlags(name string) (ElementFlags, bool) {
	f, ok := s.Elements[name]
	return f, ok
}

// AttrType reports the AttrType for attribute attr on element tag,
// falling back to the wildcard entry, and whether either lookup
// succeeded.
func (s Schema) AttrType(tag, attr string) (AttrType, bool) {
	if t, ok := s.Attributes[joinKey(tag, attr)]; ok {
		return t, true
	}
	t, ok := s.Attributes[joinKey("*", attr)]
	return t, ok
}

// ToLower lowercases s using only the ASCII A-Z range, avoiding the
// Turkish-locale I/i misfolds that strings.ToLower can introduce under
// some Unicode tables. Every lowercase comparison in this package goes
// through ToLower for that reason.
func ToLower(s string) string {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
			changed = true
		}
	}
	if !changed {
		return s
	}
	return string(b)
}

// commonAttrs are global attributes allowed on any element in
// DefaultSchema.
var commonAttrs = map[string]AttrType{
	"id":               AttrID,
	"class":            AttrClasses,
	"style":            AttrStyle,
	"lang":             AttrNone,
	"dir":              AttrNone,
	"title":            AttrNone,
	"tabindex":         AttrNone,
	"role":             AttrNone,
	"aria-hidden":      AttrNone,
	"aria-label":       AttrNone,
	"aria-describedby": AttrIDRefs,
	"aria-flowto":      AttrIDRefs,
	"aria-labelledby":  AttrIDRefs,
	"aria-owns":        AttrIDRefs,
}

var scriptAttrs = []string{
	"onclick", "ondblclick", "onmousedown", "onmouseup", "onmouseover",
	"onmousemove", "onmouseout", "onkeypress", "onkeydown", "onkeyup",
	"onload", "onerror", "onunload", "onfocus", "onblur", "onsubmit",
	"onchange", "onreset", "onselect",
}

// DefaultSchema returns the built-in element and attribute tables:
// common inline and block-level HTML elements and a conservative
// attribute allow-list. It is the Schema Sanitize, SanitizeWithPolicy,
// and NewHTMLSanitizer use; NewTagPolicy and NewHTMLSanitizerWithSchema
// take the schema as an argument.
func DefaultSchema() Schema {
	elements := map[string]ElementFlags{
		"a": 0, "abbr": 0, "b": 0, "bdi": 0, "bdo": 0,
		"big": 0, "blockquote": 0, "caption": 0, "center": 0,
		"cite": 0, "code": 0, "data": 0, "del": 0, "dfn": 0,
		"div": 0, "em": 0, "figcaption": 0, "figure": 0,
		"i": 0, "ins": 0, "kbd": 0, "mark": 0, "pre": 0,
		"q": 0, "ruby": 0, "rb": 0, "s": 0, "samp": 0,
		"small": 0, "span": 0, "strike": 0, "strong": 0,
		"sub": 0, "sup": 0, "time": 0, "tt": 0, "u": 0,
		"var": 0, "font": 0,

		"h1": 0, "h2": 0, "h3": 0, "h4": 0, "h5": 0, "h6": 0,

		"ul": 0, "ol": 0, "dl": 0,
		"li": FlagOptionalEndTag,
		"dt": FlagOptionalEndTag,
		"dd": FlagOptionalEndTag,

		"p": FlagOptionalEndTag,

		"table":    0,
		"thead":    FlagOptionalEndTag,
		"tbody":    FlagOptionalEndTag,
		"tfoot":    FlagOptionalEndTag,
		"tr":       FlagOptionalEndTag,
		"td":       FlagOptionalEndTag,
		"th":       FlagOptionalEndTag,
		"colgroup": FlagOptionalEndTag,
		"col":      FlagEmpty,

		"rp":  FlagOptionalEndTag,
		"rt":  FlagOptionalEndTag,
		"rtc": FlagOptionalEndTag,

		"br":   FlagEmpty,
		"hr":   FlagEmpty,
		"wbr":  FlagEmpty,
		"img":  FlagEmpty,
		"area": FlagEmpty,
		"base": FlagEmpty,

		"audio":  0,
		"video":  0,
		"source": FlagEmpty,
		"track":  FlagEmpty,

		"details":  0,
		"summary":  0,
		"section":  0,
		"article":  0,
		"aside":    0,

		"textarea": FlagRCDATA,
		"title":    FlagUnsafe | FlagRCDATA,

		"script":    FlagUnsafe | FlagCDATA,
		"style":     FlagUnsafe | FlagCDATA,
		"iframe":    FlagUnsafe | FlagCDATA,
		"noembed":   FlagUnsafe | FlagCDATA,
		"noframes":  FlagUnsafe | FlagCDATA,
		"noscript":  FlagUnsafe | FlagCDATA,
		"object":    FlagUnsafe,
		"embed":     FlagUnsafe | FlagEmpty,
		"applet":    FlagUnsafe,
		"form":      FlagUnsafe,
		"input":     FlagUnsafe | FlagEmpty,
		"button":    FlagUnsafe,
		"select":    FlagUnsafe,
		"frame":     FlagUnsafe | FlagEmpty,
		"frameset":  FlagUnsafe,
		"meta":      FlagUnsafe | FlagEmpty,
		"link":      FlagUnsafe | FlagEmpty,

		// Foldable: body/html wrappers that a fragment sanitizer should
		// never need to preserve, but whose text content is still safe.
		"html": FlagFoldable,
		"head": FlagUnsafe,
		"body": FlagFoldable,
	}

	attrs := map[string]AttrType{}
	for k, v := range commonAttrs {
		attrs[joinKey("*", k)] = v
	}
	for _, k := range scriptAttrs {
		attrs[joinKey("*", k)] = AttrScript
	}

	set := func(tag, attr string, t AttrType) { attrs[joinKey(tag, attr)] = t }

	set("a", "href", AttrURI)
	set("a", "name", AttrLocalName)
	set("a", "rel", AttrNone)
	set("a", "rev", AttrNone)

	set("img", "src", AttrURI)
	set("img", "alt", AttrNone)
	set("img", "width", AttrNone)
	set("img", "height", AttrNone)
	set("img", "usemap", AttrURIFragment)

	set("blockquote", "cite", AttrURI)
	set("q", "cite", AttrURI)
	set("del", "cite", AttrURI)
	set("ins", "cite", AttrURI)
	set("del", "datetime", AttrNone)
	set("ins", "datetime", AttrNone)
	set("time", "datetime", AttrNone)

	set("map", "name", AttrGlobalName)

	set("ol", "type", AttrNone)
	set("ol", "start", AttrNone)
	set("ol", "reversed", AttrNone)
	set("ul", "type", AttrNone)
	set("li", "type", AttrNone)
	set("li", "value", AttrNone)

	set("table", "summary", AttrNone)
	set("table", "width", AttrNone)
	set("td", "colspan", AttrNone)
	set("td", "rowspan", AttrNone)
	set("td", "headers", AttrIDRefs)
	set("th", "colspan", AttrNone)
	set("th", "rowspan", AttrNone)
	set("th", "headers", AttrIDRefs)
	set("th", "scope", AttrNone)
	set("col", "span", AttrNone)
	set("colgroup", "span", AttrNone)

	set("source", "src", AttrURI)
	set("source", "type", AttrNone)
	set("track", "src", AttrURI)
	set("track", "kind", AttrNone)
	set("track", "srclang", AttrNone)
	set("track", "label", AttrNone)
	set("audio", "controls", AttrNone)
	set("video", "controls", AttrNone)
	set("video", "poster", AttrURI)

	set("font", "size", AttrNone)
	set("font", "color", AttrNone)
	set("font", "face", AttrNone)

	set("details", "open", AttrNone)

	return Schema{Elements: elements, Attributes: attrs}
}

// joinKey builds the "tag::attr" lookup key used by Schema.Attributes.
func joinKey(tag, attr string) string {
	var b strings.Builder
	b.Grow(len(tag) + len(attr) + 2)
	b.WriteString(tag)
	b.WriteString("::")
	b.WriteString(attr)
	return b.String()
}
