package htmlsanitizer

import (
	"strings"

	"github.com/dkmccandless/htmlsanitizer/entity"
)

// Sanitizer implements Handler, driving the balancing sanitizer described
// in §4.6: a schema-driven element filter with an open-element stack and
// optional-end-tag logic, writing safe output to an internal sink.
type Sanitizer struct {
	schema   Schema
	policy   TagPolicy
	stack    []string
	ignoring bool
	out      strings.Builder
}

// NewHTMLSanitizer returns a function that sanitizes an input fragment
// using policy to decide which tags and attributes survive, against
// DefaultSchema's element table for balancing decisions (flags, optional
// end tags, and the like).
func NewHTMLSanitizer(policy TagPolicy) func(input string) string {
	schema := DefaultSchema()
	return func(input string) string {
		s := &Sanitizer{schema: schema, policy: policy}
		NewSAXParser(s)(input)
		return s.out.String()
	}
}

// NewHTMLSanitizerWithSchema is NewHTMLSanitizer, but balances against an
// explicit schema instead of DefaultSchema. Sanitize and
// SanitizeWithPolicy use DefaultSchema; callers that built their own
// Schema for NewTagPolicy should use this instead so the tokenizer and
// the balancer agree on which elements are known.
func NewHTMLSanitizerWithSchema(schema Schema, policy TagPolicy) func(input string) string {
	return func(input string) string {
		s := &Sanitizer{schema: schema, policy: policy}
		runSAX(input, s, schema)
		return s.out.String()
	}
}

func (s *Sanitizer) StartDoc() {
	s.stack = nil
	s.ignoring = false
}

func (s *Sanitizer) EndDoc() {
	for i := len(s.stack) - 1; i >= 0; i-- {
		s.out.WriteString("</")
		s.out.WriteString(s.stack[i])
		s.out.WriteByte('>')
	}
	s.stack = nil
}

func (s *Sanitizer) StartTag(tag string, attrs []Attr) {
	if s.ignoring {
		return
	}
	flags, known := s.schema.ElementFlags(tag)
	if !known {
		return
	}
	if flags&FlagFoldable != 0 {
		return
	}

	surviving, ok := s.policy(tag, attrs)
	if !ok {
		if flags&FlagEmpty == 0 {
			s.ignoring = true
		}
		return
	}

	if flags&FlagEmpty == 0 {
		s.stack = append(s.stack, tag)
	}

	s.out.WriteByte('<')
	s.out.WriteString(tag)
	for _, a := range surviving {
		s.out.WriteByte(' ')
		s.out.WriteString(a.Name)
		s.out.WriteString(`="`)
		s.out.WriteString(entity.EscapeAttrib(a.Value))
		s.out.WriteByte('"')
	}
	s.out.WriteByte('>')
}

func (s *Sanitizer) EndTag(tag string) {
	if s.ignoring {
		s.ignoring = false
		return
	}
	flags, known := s.schema.ElementFlags(tag)
	if !known {
		return
	}
	if flags&(FlagEmpty|FlagFoldable) != 0 {
		return
	}

	top := -1
	if flags&FlagOptionalEndTag != 0 {
		// The element being closed may itself be implicitly closed by
		// an ancestor: skip over other optional-end-tag elements
		// looking for a match, but a non-optional mismatch aborts the
		// whole close (stray end tag).
		for i := len(s.stack) - 1; i >= 0; i-- {
			if s.stack[i] == tag {
				top = i
				break
			}
			if of, ok := s.schema.ElementFlags(s.stack[i]); !ok || of&FlagOptionalEndTag == 0 {
				return
			}
		}
	} else {
		for i := len(s.stack) - 1; i >= 0; i-- {
			if s.stack[i] == tag {
				top = i
				break
			}
		}
	}
	if top == -1 {
		return
	}

	for i := len(s.stack) - 1; i > top; i-- {
		name := s.stack[i]
		if of, _ := s.schema.ElementFlags(name); of&FlagOptionalEndTag != 0 {
			continue // popped silently, no output
		}
		s.out.WriteString("</")
		s.out.WriteString(name)
		s.out.WriteByte('>')
	}
	s.out.WriteString("</")
	s.out.WriteString(tag)
	s.out.WriteByte('>')
	s.stack = s.stack[:top]
}

func (s *Sanitizer) PCData(text string) {
	if !s.ignoring {
		s.out.WriteString(text)
	}
}

func (s *Sanitizer) RCData(text string) {
	if !s.ignoring {
		s.out.WriteString(text)
	}
}

func (s *Sanitizer) CData(text string) {
	if !s.ignoring {
		s.out.WriteString(text)
	}
}

// Sanitize sanitizes input using DefaultSchema, rewriteURI for URI
// attributes, and nmtoken for ID/class/name-token attributes and for the
// part of a URI-fragment attribute after its "#". Either may be nil; see
// NewTagPolicy.
func Sanitize(input string, rewriteURI URIRewriter, nmtoken NMTokenPolicy) string {
	policy := NewTagPolicy(DefaultSchema(), rewriteURI, nmtoken)
	return NewHTMLSanitizer(policy)(input)
}

// SanitizeWithPolicy sanitizes input against DefaultSchema using a
// caller-supplied TagPolicy, e.g. one built with NewTagPolicy,
// NewTagPolicyWithCSS, or a bespoke closure.
func SanitizeWithPolicy(input string, policy TagPolicy) string {
	return NewHTMLSanitizer(policy)(input)
}
