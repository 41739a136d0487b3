package xolmis

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		tail  string
		want  string
	}{
		{"1＃4", 1, "", "1"},
		{"1＃4", 2, "", "1 "},
		{"1＃4", 3, "", "1＃"},
		{"1＃4", 4, "", "1＃4"},
		{"1＃4", 1, "／", " "},
		{"1＃4", 2, "／", "／"},
		{"1＃4", 3, "／", "1／"},
		{"1＃4", 4, "／", "1＃4"},
		{"1＃4", 0, "", ""},
		{"1＃4", 0, "／", ""},
		{"／", 0, "／", ""},
		{"／", 1, "／", " "},
		{"／", 2, "／", "／"},
		{"123", 2, "→", "1→"},
		{"12ݶ", 1, "ݶ", "ݶ"},
		{"abc", -3, "", ""},
	}
	for _, tc := range cases {
		if got := Truncate(tc.in, tc.width, tc.tail); got != tc.want {
			t.Fatalf("Truncate(%q, %d, %q): got %q, want %q", tc.in, tc.width, tc.tail, got, tc.want)
		}
	}
}

func TestTruncateShort(t *testing.T) {
	if got := TruncateShort("1＃4", 2); got != "1" {
		t.Fatalf("got %q", got)
	}
	if got := TruncateShort("／", 1); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateKeepsEscapeSequences(t *testing.T) {
	in := "\x1b[31mhello\x1b[0m world"
	got := Truncate(in, 3, "")
	if got != "\x1b[31mhel\x1b[0m" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateWidthBound(t *testing.T) {
	inputs := []string{
		"\x1b[1;35m0123456789\x1b[0m",
		"src/ansi/modバー.rs",
		"カタカナ and ascii",
		"ééé",
	}
	for _, in := range inputs {
		full := MeasureWidth(in)
		for w := 0; w <= full+1; w++ {
			short := TruncateShort(in, w)
			if got := MeasureWidth(short); got > w {
				t.Fatalf("TruncateShort(%q, %d) width %d", in, w, got)
			}
			filled := Truncate(in, w, "")
			if got := MeasureWidth(filled); got > w {
				t.Fatalf("Truncate(%q, %d) width %d", in, w, got)
			}
			if w >= full && filled != in {
				t.Fatalf("Truncate(%q, %d) changed a fitting string", in, w)
			}
			if !strings.HasPrefix(Strip(in), strings.TrimRight(Strip(filled), " ")) {
				t.Fatalf("Truncate(%q, %d) = %q is not a prefix", in, w, filled)
			}
		}
	}
}

func TestTruncateWithAmbiguousWide(t *testing.T) {
	m := NewMeasurer(true)
	if got := m.Truncate("→→", 3, ""); got != "→ " {
		t.Fatalf("got %q", got)
	}
}
