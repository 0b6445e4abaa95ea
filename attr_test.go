package htmlsanitizer

import (
	"reflect"
	"testing"

	"github.com/dkmccandless/htmlsanitizer/token"
)

func TestParseTag(t *testing.T) {
	schema := DefaultSchema()
	for _, test := range []struct {
		name      string
		input     string // starting just after the opening "<"
		wantOK    bool
		wantName  string
		wantAttrs []Attr
	}{
		{
			name:     "no attrs",
			input:    `div>rest`,
			wantOK:   true,
			wantName: "div",
		},
		{
			name:     "quoted value",
			input:    `a href="http://example.com">rest`,
			wantOK:   true,
			wantName: "a",
			wantAttrs: []Attr{
				{Name: "href", Value: "http://example.com"},
			},
		},
		{
			name:     "unquoted value",
			input:    `img src=x.png>rest`,
			wantOK:   true,
			wantName: "img",
			wantAttrs: []Attr{
				{Name: "src", Value: "x.png"},
			},
		},
		{
			name:     "boolean attribute",
			input:    `input disabled>rest`,
			wantOK:   true,
			wantName: "input",
			wantAttrs: []Attr{
				{Name: "disabled", Value: "disabled"},
			},
		},
		{
			name:     "multiple attributes with non-letter garbage",
			input:    `a href="x" !!!=== title="y">rest`,
			wantOK:   true,
			wantName: "a",
			wantAttrs: []Attr{
				{Name: "href", Value: "x"},
				{Name: "title", Value: "y"},
			},
		},
		{
			name:   "unterminated tag",
			input:  `div class="x"`,
			wantOK: false,
		},
	} {
		toks := token.Split(test.input)
		tag, ok := parseTag(toks, 0, schema)
		if ok != test.wantOK {
			t.Errorf("%s: parseTag ok = %v, want %v", test.name, ok, test.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if tag.Name != test.wantName {
			t.Errorf("%s: Name = %q, want %q", test.name, tag.Name, test.wantName)
		}
		if len(test.wantAttrs) > 0 || len(tag.Attrs) > 0 {
			if !reflect.DeepEqual(tag.Attrs, test.wantAttrs) {
				t.Errorf("%s: Attrs = %+v, want %+v", test.name, tag.Attrs, test.wantAttrs)
			}
		}
	}
}

// TestParseTagQuoteStraddle exercises the recovery path where a value's
// closing quote appears after a literal ">" that the simple grammar would
// otherwise have mistaken for the tag's close.
func TestParseTagQuoteStraddle(t *testing.T) {
	schema := DefaultSchema()
	input := `a title="a > b">rest`
	toks := token.Split(input)
	tag, ok := parseTag(toks, 0, schema)
	if !ok {
		t.Fatalf("parseTag: ok = false, want true")
	}
	want := []Attr{{Name: "title", Value: "a > b"}}
	if !reflect.DeepEqual(tag.Attrs, want) {
		t.Errorf("Attrs = %+v, want %+v", tag.Attrs, want)
	}
	rest := toks[tag.Next:]
	var b []byte
	for _, tk := range rest {
		b = append(b, tk.Text...)
	}
	if string(b) != "rest" {
		t.Errorf("cursor after tag left %q, want %q", string(b), "rest")
	}
}

func TestGarbageRun(t *testing.T) {
	for _, test := range []struct {
		s    string
		want int
	}{
		{"", 0},
		{"*", 1},
		{"***", 3},
		{"*a", 1},
		{"* a", 1},
		{"1foo", 1}, // first char always consumed; "foo" starts a letter run, stops there
		{"1*2foo", 3},
	} {
		if got := garbageRun(test.s); got != test.want {
			t.Errorf("garbageRun(%q) = %d, want %d", test.s, got, test.want)
		}
	}
}
