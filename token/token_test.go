package token

import "testing"

func TestSplit(t *testing.T) {
	for _, test := range []struct {
		s    string
		want []Token
	}{
		{"", []Token{{Literal, ""}}},
		{"abc", []Token{{Literal, "abc"}}},
		{"<b>", []Token{
			{Literal, ""}, {LessThan, "<"},
			{Literal, "b"}, {GreaterThan, ">"},
			{Literal, ""},
		}},
		{"</b>", []Token{
			{Literal, ""}, {LessThanSlash, "</"},
			{Literal, "b"}, {GreaterThan, ">"},
			{Literal, ""},
		}},
		{"<!--x-->", []Token{
			{Literal, ""}, {LessThanBangDashDash, "<!--"},
			{Literal, "x--"}, {GreaterThan, ">"},
			{Literal, ""},
		}},
		{"<!DOCTYPE html>", []Token{
			{Literal, ""}, {LessThanBang, "<!"},
			{Literal, "DOCTYPE html"}, {GreaterThan, ">"},
			{Literal, ""},
		}},
		{"<?pi?>", []Token{
			{Literal, ""}, {LessThanQuestion, "<?"},
			{Literal, "pi?"}, {GreaterThan, ">"},
			{Literal, ""},
		}},
		{"a &amp; b", []Token{
			{Literal, "a "}, {Ampersand, "&"},
			{Literal, "amp; b"},
		}},
	} {
		if got := Split(test.s); !equalToks(got, test.want) {
			t.Errorf("Split(%q) = %v, want %v", test.s, got, test.want)
		}
	}
}

func TestAt(t *testing.T) {
	toks := Split("<b>")
	if got := At(toks, 0); got.Kind != Literal {
		t.Errorf("At(toks, 0) = %v, want Literal", got)
	}
	if got := At(toks, 100); got.Kind != Empty {
		t.Errorf("At(toks, 100) = %v, want Empty", got)
	}
	if got := At(toks, -1); got.Kind != Empty {
		t.Errorf("At(toks, -1) = %v, want Empty", got)
	}
}

func equalToks(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
