package csspolicy

import (
	"strings"

	"github.com/dkmccandless/htmlsanitizer"
)

// simpleTokens keeps tokens verbatim, rejecting the whole declaration if
// any token contains a disallowed construct: an "expression(" or
// "behavior"/"-moz-binding" invocation, or anything mentioning
// "javascript:".
func simpleTokens(tokens []string, _ htmlsanitizer.URIRewriter) []string {
	for _, t := range tokens {
		if isProblematic(t) {
			return nil
		}
	}
	return tokens
}

// urlTokens is used for properties whose value may contain a url(...)
// function: each "url(...)" token is rewritten through rewriteURI, and
// dropped (along with the rest of the declaration) if rewriteURI rejects
// it or none is supplied.
func urlTokens(tokens []string, rewriteURI htmlsanitizer.URIRewriter) []string {
	var out []string
	for _, t := range tokens {
		if isProblematic(t) {
			return nil
		}
		if u, ok := extractURL(t); ok {
			if rewriteURI == nil {
				return nil
			}
			rewritten, allowed := rewriteURI(u)
			if !allowed {
				return nil
			}
			out = append(out, "url("+rewritten+")")
			continue
		}
		out = append(out, t)
	}
	return out
}

func isProblematic(t string) bool {
	lower := strings.ToLower(t)
	if strings.Contains(lower, "javascript:") {
		return true
	}
	if strings.HasPrefix(lower, "expression") {
		return true
	}
	if strings.Contains(lower, "-moz-binding") || strings.Contains(lower, "behavior") {
		return true
	}
	return false
}

// extractURL pulls the quoted or bare argument out of a "url(...)" token
// as the scanner emits it.
func extractURL(t string) (string, bool) {
	lower := strings.ToLower(t)
	if !strings.HasPrefix(lower, "url(") || !strings.HasSuffix(t, ")") {
		return "", false
	}
	inner := t[4 : len(t)-1]
	inner = strings.TrimSpace(inner)
	inner = strings.Trim(inner, `"'`)
	return inner, true
}

// DefaultSchema returns a conservative property allow-list covering
// common presentational CSS: colors, typography, box-model lengths, and
// the handful of properties that carry a url().
func DefaultSchema() Schema {
	schema := Schema{}
	for _, p := range []string{
		"color", "background-color", "font-weight", "font-style",
		"font-size", "font-family", "text-align", "text-decoration",
		"text-transform", "vertical-align", "white-space",
		"width", "height", "max-width", "max-height",
		"min-width", "min-height",
		"margin", "margin-top", "margin-right", "margin-bottom", "margin-left",
		"padding", "padding-top", "padding-right", "padding-bottom", "padding-left",
		"border", "border-width", "border-style", "border-color",
		"border-radius", "float", "clear", "display", "overflow",
		"letter-spacing", "line-height", "opacity",
	} {
		schema[p] = simpleTokens
	}
	for _, p := range []string{"background-image", "background", "list-style-image"} {
		schema[p] = urlTokens
	}
	return schema
}
