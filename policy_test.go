package htmlsanitizer

import "testing"

func passthroughURI(uri string) (string, bool) { return uri, true }
func passthroughToken(tok string) (string, bool) { return tok, true }

func TestNewTagPolicyUnsafeElement(t *testing.T) {
	policy := NewTagPolicy(DefaultSchema(), passthroughURI, passthroughToken)
	_, ok := policy("script", []Attr{{Name: "src", Value: "evil.js"}})
	if ok {
		t.Errorf("policy(script) ok = true, want false")
	}
}

func TestNewTagPolicyAttributeFiltering(t *testing.T) {
	policy := NewTagPolicy(DefaultSchema(), passthroughURI, passthroughToken)
	for _, test := range []struct {
		name  string
		tag   string
		attrs []Attr
		want  []Attr
	}{
		{
			name:  "event handler dropped",
			tag:   "div",
			attrs: []Attr{{Name: "onclick", Value: "evil()"}},
			want:  nil,
		},
		{
			name:  "unknown attribute dropped",
			tag:   "div",
			attrs: []Attr{{Name: "data-bogus", Value: "x"}},
			want:  nil,
		},
		{
			name:  "class survives",
			tag:   "div",
			attrs: []Attr{{Name: "class", Value: "a b"}},
			want:  []Attr{{Name: "class", Value: "a b"}},
		},
		{
			name:  "href survives via allowed scheme",
			tag:   "a",
			attrs: []Attr{{Name: "href", Value: "http://example.com"}},
			want:  []Attr{{Name: "href", Value: "http://example.com"}},
		},
		{
			name:  "javascript scheme dropped",
			tag:   "a",
			attrs: []Attr{{Name: "href", Value: "javascript:bad()"}},
			want:  nil,
		},
		{
			name:  "style always dropped without a CSS collaborator",
			tag:   "div",
			attrs: []Attr{{Name: "style", Value: "color: red"}},
			want:  nil,
		},
		{
			name:  "uri fragment preserved",
			tag:   "img",
			attrs: []Attr{{Name: "usemap", Value: "#map1"}},
			want:  []Attr{{Name: "usemap", Value: "#map1"}},
		},
		{
			name:  "uri fragment without # dropped",
			tag:   "img",
			attrs: []Attr{{Name: "usemap", Value: "map1"}},
			want:  nil,
		},
	} {
		got, ok := policy(test.tag, test.attrs)
		if !ok {
			t.Errorf("%s: policy ok = false, want true", test.name)
			continue
		}
		if len(got) != len(test.want) {
			t.Errorf("%s: attrs = %+v, want %+v", test.name, got, test.want)
			continue
		}
		for i := range got {
			if got[i] != test.want[i] {
				t.Errorf("%s: attrs = %+v, want %+v", test.name, got, test.want)
				break
			}
		}
	}
}

type upperCSS struct{}

func (upperCSS) Sanitize(declarations string, rewriteURI URIRewriter) (string, bool) {
	if declarations == "" {
		return "", false
	}
	return "SANITIZED(" + declarations + ")", true
}

func TestNewTagPolicyWithCSS(t *testing.T) {
	policy := NewTagPolicyWithCSS(DefaultSchema(), passthroughURI, passthroughToken, upperCSS{})
	got, ok := policy("div", []Attr{{Name: "style", Value: "color: red"}})
	if !ok {
		t.Fatalf("policy ok = false, want true")
	}
	want := []Attr{{Name: "style", Value: "SANITIZED(color: red)"}}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("attrs = %+v, want %+v", got, want)
	}
}

func TestURIScheme(t *testing.T) {
	for _, test := range []struct {
		uri        string
		wantScheme string
		wantOK     bool
	}{
		{"http://x", "http", true},
		{"HTTPS://x", "https", true},
		{"javascript:alert(1)", "javascript", true},
		{"/relative/path", "", false},
		{"#fragment", "", false},
	} {
		scheme, ok := uriScheme(test.uri)
		if ok != test.wantOK || scheme != test.wantScheme {
			t.Errorf("uriScheme(%q) = (%q, %v), want (%q, %v)", test.uri, scheme, ok, test.wantScheme, test.wantOK)
		}
	}
}
