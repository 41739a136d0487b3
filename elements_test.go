package xolmis

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func kinds(elems []Element) []ElementKind {
	out := make([]ElementKind, len(elems))
	for i, e := range elems {
		out[i] = e.Kind
	}
	return out
}

func TestTokenizeKinds(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []ElementKind
	}{
		{"plain", "hello", []ElementKind{ElementText}},
		{"sgr", "\x1b[31mred\x1b[0m", []ElementKind{ElementSGR, ElementText, ElementSGR}},
		{"csi", "\x1b[2Jx", []ElementKind{ElementCSI, ElementText}},
		{"private marker m", "\x1b[>4;1m", []ElementKind{ElementCSI}},
		{"osc bel", "\x1b]0;title\x07x", []ElementKind{ElementOSC, ElementText}},
		{"osc st", "\x1b]8;;file:///a\x1b\\a\x1b]8;;\x1b\\", []ElementKind{ElementOSC, ElementText, ElementOSC}},
		{"bare esc", "\x1b(Bx", []ElementKind{ElementESC, ElementText}},
		{"lone esc", "abc\x1b", []ElementKind{ElementText, ElementESC}},
		{"truncated csi", "ab\x1b[3", []ElementKind{ElementText, ElementCSI}},
		{"truncated osc", "ab\x1b]8;;x", []ElementKind{ElementText, ElementOSC}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := kinds(Tokenize(tc.in))
			if len(got) != len(tc.want) {
				t.Fatalf("kinds: got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("kind %d: got %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestTokenizeMarksIncompleteSequences(t *testing.T) {
	cases := map[string]bool{
		"abc\x1b":         true,
		"ab\x1b[3":        true,
		"ab\x1b]8;;x":     true,
		"ab\x1b]8;;x\x1b": true,
		"ab\x1b[3m":       false,
		"ab\x1b]0;t\x07":  false,
		"ab\x1b7":         false,
	}
	for in, want := range cases {
		elems := Tokenize(in)
		last := elems[len(elems)-1]
		if last.Incomplete != want {
			t.Fatalf("%q: incomplete got %v, want %v", in, last.Incomplete, want)
		}
		for _, e := range elems[:len(elems)-1] {
			if e.Incomplete {
				t.Fatalf("%q: element at %d marked incomplete", in, e.Start)
			}
		}
	}
}

func TestTokenizePartitionsInput(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"\x1b[1;35m0123456789\x1b[0m",
		"a\x1b",
		"\x1b\x1b\x1b",
		"x\x1b]8;;uri\x07y\x1b[38;2;1;2;3mz",
		"\x1bé tail",
		"\x1b[",
		"\x1b]",
	}
	for _, in := range inputs {
		pos := 0
		var b strings.Builder
		for e := range Elements(in) {
			if e.Start != pos {
				t.Fatalf("%q: element starts at %d, want %d", in, e.Start, pos)
			}
			if e.End <= e.Start {
				t.Fatalf("%q: empty element at %d", in, e.Start)
			}
			b.WriteString(e.Slice(in))
			pos = e.End
		}
		if pos != len(in) || b.String() != in {
			t.Fatalf("%q: elements cover %q", in, b.String())
		}
	}
}

func TestBareEscapeTakesWholeCharacter(t *testing.T) {
	in := "\x1bé!"
	elems := Tokenize(in)
	if len(elems) != 2 {
		t.Fatalf("elements: got %d", len(elems))
	}
	if got := elems[0].Slice(in); got != "\x1bé" {
		t.Fatalf("esc span: got %q", got)
	}
}

func TestElementIteratorCarriesStyle(t *testing.T) {
	first := NewElementIterator("\x1b[1;31mred", DefaultStyle)
	for {
		if _, ok := first.Next(); !ok {
			break
		}
	}
	second := NewElementIterator("still red\x1b[0m", first.Style())
	e, ok := second.Next()
	if !ok || e.Kind != ElementText {
		t.Fatalf("expected text element")
	}
	if !second.Style().Has(tcell.AttrBold) {
		t.Fatalf("expected carried bold style")
	}
	second.Next()
	if !second.Style().IsDefault() {
		t.Fatalf("expected reset after SGR 0")
	}
}

func TestElementsEarlyBreak(t *testing.T) {
	count := 0
	for range Elements("a\x1b[1mb\x1b[0mc") {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("count: got %d", count)
	}
}
