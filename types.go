// Package htmlsanitizer implements a security-oriented HTML sanitizer: a
// tokenizer resilient to malformed input, paired with an element and
// attribute policy engine, that rewrites an untrusted HTML fragment into
// a well-formed, balanced fragment with scripting vectors, dangerous URI
// schemes, unsafe tags, and unsafe attributes removed.
//
// The sanitizer performs local balancing against a Schema, not full HTML5
// tree construction: there is no foster parenting, adoption agency, or
// template content support. That is a deliberate scope limit, not an
// oversight.
package htmlsanitizer

// Attr is a single attribute name/value pair, in the order it appeared in
// the input.
type Attr struct {
	Name  string
	Value string
}

// Tag is a parsed start or end tag: its lowercase name, its flags if the
// element is known, its attributes in input order, and the token-stream
// cursor position just past the tag's closing ">".
type Tag struct {
	Name     string
	Flags    ElementFlags
	HasFlags bool
	Attrs    []Attr
	Next     int
}

// URIRewriter canonicalizes, proxies, or rejects a URI. A false second
// return rejects the URI, causing the attribute to be dropped.
type URIRewriter func(uri string) (string, bool)

// NMTokenPolicy rewrites or rejects the value of a name-bearing attribute
// (an ID, a class list, and the like). List-valued attributes such as
// class are passed whole in one call, not split into tokens. A false
// second return rejects the value.
type NMTokenPolicy func(token string) (string, bool)

// TagPolicy decides whether a start tag survives and, if so, which of its
// attributes do. A false second return drops the tag (and, unless the
// element is empty, its contents).
//
// The attrs slice handed to a TagPolicy is the same one the attribute
// parser produced and may be mutated in place; callers must not retain it
// past the call.
type TagPolicy func(tag string, attrs []Attr) ([]Attr, bool)

// Handler receives the SAX-style events the tokenizer emits. Every method
// is optional: embed BaseHandler to get no-op defaults and override only
// the events a particular Handler cares about.
type Handler interface {
	StartDoc()
	EndDoc()
	StartTag(tag string, attrs []Attr)
	EndTag(tag string)
	PCData(text string)
	RCData(text string)
	CData(text string)
}

// BaseHandler implements Handler with no-op methods. Embed it to satisfy
// Handler while overriding only the events of interest.
type BaseHandler struct{}

func (BaseHandler) StartDoc()                        {}
func (BaseHandler) EndDoc()                          {}
func (BaseHandler) StartTag(tag string, attrs []Attr) {}
func (BaseHandler) EndTag(tag string)                {}
func (BaseHandler) PCData(text string)               {}
func (BaseHandler) RCData(text string)               {}
func (BaseHandler) CData(text string)                {}
