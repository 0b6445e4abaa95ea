// Package csspolicy implements the optional CSS declaration parser and
// property sanitizer the htmlsanitizer policy engine calls out to when
// sanitizing STYLE attributes (§4.5, §6 of the design). Without a
// csspolicy.Policy, STYLE attributes are always deleted.
package csspolicy

import (
	"strings"

	"github.com/dkmccandless/htmlsanitizer"
	"github.com/gorilla/css/scanner"
)

// Sanitize is the signature of a single CSS property's value sanitizer.
// It receives the property's value tokens and returns the tokens to
// keep; a nil or empty result drops the declaration.
type Sanitize func(tokens []string, rewriteURI htmlsanitizer.URIRewriter) []string

// Schema maps a lowercase CSS property name to its Sanitize function.
// Properties absent from Schema cause their declaration to be dropped.
type Schema map[string]Sanitize

// Policy implements htmlsanitizer.CSSPolicy: it tokenizes a declaration
// list with github.com/gorilla/css/scanner, walks each
// "property: value" declaration, and applies Schema's per-property
// sanitizer.
type Policy struct {
	Schema Schema
}

// New returns a Policy using DefaultSchema.
func New() *Policy { return &Policy{Schema: DefaultSchema()} }

// Sanitize parses declarations as a CSS declaration list (the contents of
// a STYLE attribute, without the surrounding braces) and returns the
// surviving declarations joined by " ; ", and whether anything survived.
func (p *Policy) Sanitize(declarations string, rewriteURI htmlsanitizer.URIRewriter) (string, bool) {
	var kept []string
	Parse(declarations, func(property string, tokens []string) {
		sanitize, ok := p.Schema[strings.ToLower(property)]
		if !ok {
			return
		}
		out := sanitize(tokens, rewriteURI)
		if len(out) == 0 {
			return
		}
		kept = append(kept, property+": "+strings.Join(out, " "))
	})
	if len(kept) == 0 {
		return "", false
	}
	return strings.Join(kept, " ; "), true
}

// Parse tokenizes text as a CSS declaration list using
// github.com/gorilla/css/scanner and invokes declare once per
// "property: value" pair it finds, splitting on every ";" the scanner
// emits as a separate token (nesting inside functions is not tracked).
// Malformed declarations (no colon, empty property) are silently
// skipped, matching the core sanitizer's never-fail error policy.
func Parse(text string, declare func(property string, tokens []string)) {
	s := scanner.New(text)
	var cur []string
	flush := func() {
		if len(cur) == 0 {
			return
		}
		property, tokens := splitDeclaration(cur)
		if property != "" {
			declare(property, tokens)
		}
		cur = nil
	}
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			break
		}
		if tok.Type == scanner.TokenChar && tok.Value == ";" {
			flush()
			continue
		}
		if tok.Type == scanner.TokenS || tok.Type == scanner.TokenComment {
			continue
		}
		cur = append(cur, tok.Value)
	}
	flush()
}

// splitDeclaration splits a run of tokens on the first top-level ":" into
// a property name and its value tokens.
func splitDeclaration(toks []string) (property string, value []string) {
	for i, t := range toks {
		if t == ":" {
			if i == 0 {
				return "", nil
			}
			return strings.Join(toks[:i], ""), toks[i+1:]
		}
	}
	return "", nil
}
