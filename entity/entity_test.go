package entity

import "testing"

func TestDecodeEntity(t *testing.T) {
	for _, test := range []struct{ name, want string }{
		{"lt", "<"},
		{"GT", ">"},
		{"AMP", "&"},
		{"nbsp", " "},
		{"quot", `"`},
		{"apos", "'"},
		{"#65", "A"},
		{"#x41", "A"},
		{"#X41", "A"},
		{"Lambda", ""},
		{"bogus", ""},
		{"#zzz", ""},
		{"#xzzz", ""},
	} {
		if got := DecodeEntity(test.name); got != test.want {
			t.Errorf("DecodeEntity(%q) = %q, want %q", test.name, got, test.want)
		}
	}
}

func TestUnescapeEntities(t *testing.T) {
	for _, test := range []struct{ s, want string }{
		{"", ""},
		{"abc", "abc"},
		{"a &amp; b", "a & b"},
		{"&lt;b&gt;", "<b>"},
		{"&#65;&#x42;", "AB"},
		{"&bogus;", "&bogus;"},
		{"& amp;", "& amp;"},
		{"no entity here", "no entity here"},
		{"&amp", "&amp"},
	} {
		if got := UnescapeEntities(test.s); got != test.want {
			t.Errorf("UnescapeEntities(%q) = %q, want %q", test.s, got, test.want)
		}
	}
}

func TestEscapeAttrib(t *testing.T) {
	for _, test := range []struct{ s, want string }{
		{"", ""},
		{`a & b`, "a &amp; b"},
		{`<b>`, "&lt;b&gt;"},
		{`"quoted"`, "&#34;quoted&#34;"},
		{`&<>"`, "&amp;&lt;&gt;&#34;"},
	} {
		if got := EscapeAttrib(test.s); got != test.want {
			t.Errorf("EscapeAttrib(%q) = %q, want %q", test.s, got, test.want)
		}
	}
}

func TestNormalizeRCDATA(t *testing.T) {
	for _, test := range []struct{ s, want string }{
		{"", ""},
		{"plain text", "plain text"},
		{"<b>raw</b>", "&lt;b&gt;raw&lt;/b&gt;"},
		{"a & b", "a &amp; b"},
		{"a &amp; b", "a &amp; b"},
		{"a &lt; b", "a &lt; b"},
		{"a &#65; b", "a &#65; b"},
		{"a & <b>", "a &amp; &lt;b&gt;"},
	} {
		if got := NormalizeRCDATA(test.s); got != test.want {
			t.Errorf("NormalizeRCDATA(%q) = %q, want %q", test.s, got, test.want)
		}
	}
}

func TestStripNULs(t *testing.T) {
	for _, test := range []struct{ s, want string }{
		{"", ""},
		{"abc", "abc"},
		{"a\x00b\x00c", "abc"},
	} {
		if got := StripNULs(test.s); got != test.want {
			t.Errorf("StripNULs(%q) = %q, want %q", test.s, got, test.want)
		}
	}
}
