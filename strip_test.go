package xolmis

import (
	"testing"

	"github.com/muesli/reflow/ansi"
)

func TestStrip(t *testing.T) {
	cases := map[string]string{
		"":                                  "",
		"plain":                             "plain",
		"\x1b[1;35m0123456789\x1b[0m":       "0123456789",
		"a\x1b]8;;uri\x1b\\b\x1b]8;;\x1b\\c": "abc",
		"x\x1b7y":                           "xy",
		"tail\x1b":                          "tail",
		"cut\x1b[38;5":                      "cut",
	}
	for in, want := range cases {
		got := Strip(in)
		if got != want {
			t.Fatalf("Strip(%q): got %q, want %q", in, got, want)
		}
		if again := Strip(got); again != got {
			t.Fatalf("Strip(Strip(%q)): got %q, want %q", in, again, got)
		}
	}
}

func TestMeasureWidth(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"a\nb\n", 2},
		{"バー", 4},
		{"src/ansi/modバー.rs", 19},
		{"\x1b[31mバー\x1b[0m", 4},
		{"é", 1},
		{"1＃4", 4},
	}
	for _, tc := range cases {
		if got := MeasureWidth(tc.in); got != tc.want {
			t.Fatalf("MeasureWidth(%q): got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMeasureWidthAgreesWithReflow(t *testing.T) {
	for _, in := range []string{
		"\x1b[1;36mhello\x1b[m world",
		"\x1b[38;2;1;2;3mカタカナ\x1b[0m",
		"no escapes",
	} {
		if got, want := MeasureWidth(in), ansi.PrintableRuneWidth(in); got != want {
			t.Fatalf("%q: got %d, reflow %d", in, got, want)
		}
	}
}

func TestMeasurerAmbiguousWide(t *testing.T) {
	narrow := NewMeasurer(false)
	wide := NewMeasurer(true)
	if got := narrow.Width("→"); got != 1 {
		t.Fatalf("narrow: got %d", got)
	}
	if got := wide.Width("→"); got != 2 {
		t.Fatalf("wide: got %d", got)
	}
	if got := wide.Width("abc"); got != 3 {
		t.Fatalf("wide ascii: got %d", got)
	}
}
