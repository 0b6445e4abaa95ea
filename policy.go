package htmlsanitizer

import (
	"regexp"
	"strings"
)

// CSSPolicy sanitizes the declaration list of a STYLE attribute. Sanitize
// returns the rewritten declarations and whether any survived; a false
// second return deletes the attribute entirely.
//
// csspolicy.Policy implements this interface; NewTagPolicy works without
// one (STYLE attributes are always deleted, per §4.5) and
// NewTagPolicyWithCSS accepts one to sanitize them instead.
type CSSPolicy interface {
	Sanitize(declarations string, rewriteURI URIRewriter) (string, bool)
}

// schemeRegex extracts a URI's scheme per RFC 3986: the leading run of
// characters before ":" that contains none of ":/?# ".
var schemeRegex = regexp.MustCompile(`^([^:/?# ]+):`)

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

func uriScheme(uri string) (scheme string, ok bool) {
	m := schemeRegex.FindStringSubmatch(uri)
	if m == nil {
		return "", false
	}
	return ToLower(m[1]), true
}

// NewTagPolicy returns a TagPolicy that drops elements flagged Unsafe in
// schema and otherwise sanitizes each surviving element's attributes: URIs
// are rewritten and scheme-checked via rewriteURI, name tokens (IDs,
// classes, and the like) are passed through nmtoken, and STYLE attributes
// are always deleted, since no CSS collaborator is supplied. Either
// rewriteURI or nmtoken may be nil, in which case the corresponding
// attribute types are always deleted or passed through verbatim,
// respectively (see sanitizeAttribs).
func NewTagPolicy(schema Schema, rewriteURI URIRewriter, nmtoken NMTokenPolicy) TagPolicy {
	return newTagPolicy(schema, rewriteURI, nmtoken, nil)
}

// NewTagPolicyWithCSS is NewTagPolicy, but sanitizes STYLE attributes
// through css instead of deleting them.
func NewTagPolicyWithCSS(schema Schema, rewriteURI URIRewriter, nmtoken NMTokenPolicy, css CSSPolicy) TagPolicy {
	return newTagPolicy(schema, rewriteURI, nmtoken, css)
}

func newTagPolicy(schema Schema, rewriteURI URIRewriter, nmtoken NMTokenPolicy, css CSSPolicy) TagPolicy {
	return func(tag string, attrs []Attr) ([]Attr, bool) {
		flags, _ := schema.ElementFlags(tag)
		if flags&FlagUnsafe != 0 {
			return nil, false
		}
		return sanitizeAttribs(schema, tag, attrs, rewriteURI, nmtoken, css), true
	}
}

// sanitizeAttribs walks attrs in order and returns the surviving,
// rewritten subset. An attribute type absent from schema for both
// "tag::name" and "*::name" is dropped.
func sanitizeAttribs(schema Schema, tag string, attrs []Attr, rewriteURI URIRewriter, nmtoken NMTokenPolicy, css CSSPolicy) []Attr {
	out := attrs[:0]
	for _, a := range attrs {
		typ, known := schema.AttrType(tag, a.Name)
		if !known {
			continue
		}
		value, keep := sanitizeAttrValue(typ, a.Value, rewriteURI, nmtoken, css)
		if !keep {
			continue
		}
		out = append(out, Attr{Name: a.Name, Value: value})
	}
	return out
}

func sanitizeAttrValue(typ AttrType, value string, rewriteURI URIRewriter, nmtoken NMTokenPolicy, css CSSPolicy) (string, bool) {
	switch typ {
	case AttrNone:
		return value, true

	case AttrScript:
		return "", false

	case AttrStyle:
		if css == nil {
			return "", false
		}
		return css.Sanitize(value, rewriteURI)

	case AttrID, AttrIDRef, AttrIDRefs, AttrGlobalName, AttrLocalName, AttrClasses:
		return applyNMToken(value, nmtoken)

	case AttrURI:
		if rewriteURI == nil {
			return "", false
		}
		if scheme, ok := uriScheme(value); ok && !allowedSchemes[scheme] {
			return "", false
		}
		return rewriteURI(value)

	case AttrURIFragment:
		if !strings.HasPrefix(value, "#") {
			return "", false
		}
		frag, ok := applyNMToken(value[1:], nmtoken)
		if !ok {
			return "", false
		}
		return "#" + frag, true

	default:
		return "", false
	}
}

// applyNMToken runs nmtoken over a name-bearing attribute value as a
// single unit (ID, IDREF, IDREFS, GLOBAL_NAME, LOCAL_NAME, CLASSES all
// share this path per the schema), passing the value through unchanged
// if nmtoken is nil.
func applyNMToken(value string, nmtoken NMTokenPolicy) (string, bool) {
	if nmtoken == nil {
		return value, true
	}
	return nmtoken(value)
}
