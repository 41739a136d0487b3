package xolmis

import (
	"iter"
	"strings"
	"unicode/utf8"
)

// Element is a typed span [Start, End) of a terminal output buffer.
type Element struct {
	Kind  ElementKind
	Start int
	End   int
	// Style is the cumulative rendition after an SGR element. It is the zero
	// Style for every other kind.
	Style Style
	// Incomplete marks a control sequence cut off by the end of the buffer.
	Incomplete bool
}

type elementKind uint8

// ElementKind is the exported alias of elementKind.
type ElementKind = elementKind

const (
	elementText elementKind = iota
	elementSGR
	elementCSI
	elementESC
	elementOSC
)

const (
	// ElementText is visible content.
	ElementText ElementKind = elementText
	// ElementSGR is a Select Graphic Rendition sequence (CSI ... m).
	ElementSGR ElementKind = elementSGR
	// ElementCSI is any other sequence introduced by CSI.
	ElementCSI ElementKind = elementCSI
	// ElementESC is a bare escape: ESC followed by one character.
	ElementESC ElementKind = elementESC
	// ElementOSC is an Operating System Command, e.g. an OSC 8 hyperlink.
	ElementOSC ElementKind = elementOSC
)

func (k elementKind) String() string {
	switch k {
	case elementText:
		return "text"
	case elementSGR:
		return "sgr"
	case elementCSI:
		return "csi"
	case elementESC:
		return "esc"
	case elementOSC:
		return "osc"
	default:
		return "unknown"
	}
}

// IsControl reports whether e is an escape sequence rather than visible text.
func (e Element) IsControl() bool {
	return e.Kind != ElementText
}

// Slice returns the bytes of s covered by e.
func (e Element) Slice(s string) string {
	return s[e.Start:e.End]
}

const (
	escByte = 0x1b
	belByte = 0x07
)

// ElementIterator scans a buffer left to right and yields Elements that
// partition it. The rendition state folded from SGR sequences starts at the
// style given to NewElementIterator, so callers that need style continuity
// across chunks can carry Style() from one iterator into the next.
type ElementIterator struct {
	s     string
	pos   int
	style Style
}

// NewElementIterator returns an iterator over s starting from style initial.
func NewElementIterator(s string, initial Style) *ElementIterator {
	return &ElementIterator{s: s, style: initial}
}

// Style returns the rendition accumulated so far.
func (it *ElementIterator) Style() Style {
	return it.style
}

// Next returns the next element, or false once the buffer is exhausted.
func (it *ElementIterator) Next() (Element, bool) {
	s := it.s
	start := it.pos
	if start >= len(s) {
		return Element{}, false
	}
	if s[start] != escByte {
		end := strings.IndexByte(s[start:], escByte)
		if end < 0 {
			end = len(s)
		} else {
			end += start
		}
		it.pos = end
		return Element{Kind: ElementText, Start: start, End: end}, true
	}
	if start+1 >= len(s) {
		// A lone trailing ESC is most likely the first byte of a sequence
		// that continues in the next chunk.
		it.pos = len(s)
		return Element{Kind: ElementESC, Start: start, End: it.pos, Incomplete: true}, true
	}
	switch s[start+1] {
	case '[':
		return it.scanCSI(start), true
	case ']':
		return it.scanOSC(start), true
	}
	_, size := utf8.DecodeRuneInString(s[start+1:])
	it.pos = start + 1 + size
	return Element{Kind: ElementESC, Start: start, End: it.pos}, true
}

func (it *ElementIterator) scanCSI(start int) Element {
	s := it.s
	for i := start + 2; i < len(s); i++ {
		if !isCSIFinalByte(s[i]) {
			continue
		}
		it.pos = i + 1
		if s[i] == 'm' && isSGRParams(s[start+2:i]) {
			it.style = it.style.apply(s[start+2 : i])
			return Element{Kind: ElementSGR, Start: start, End: it.pos, Style: it.style}
		}
		return Element{Kind: ElementCSI, Start: start, End: it.pos}
	}
	it.pos = len(s)
	return Element{Kind: ElementCSI, Start: start, End: it.pos, Incomplete: true}
}

func (it *ElementIterator) scanOSC(start int) Element {
	s := it.s
	for i := start + 2; i < len(s); i++ {
		switch s[i] {
		case belByte:
			it.pos = i + 1
			return Element{Kind: ElementOSC, Start: start, End: it.pos}
		case escByte:
			if i+1 < len(s) && s[i+1] == '\\' {
				it.pos = i + 2
				return Element{Kind: ElementOSC, Start: start, End: it.pos}
			}
		}
	}
	it.pos = len(s)
	return Element{Kind: ElementOSC, Start: start, End: it.pos, Incomplete: true}
}

// Elements returns the element sequence of s. Every range over the returned
// sequence rescans s from the start with the default style.
func Elements(s string) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		it := NewElementIterator(s, DefaultStyle)
		for {
			e, ok := it.Next()
			if !ok || !yield(e) {
				return
			}
		}
	}
}

// Tokenize returns all elements of s.
func Tokenize(s string) []Element {
	var out []Element
	for e := range Elements(s) {
		out = append(out, e)
	}
	return out
}

func isCSIFinalByte(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

// isSGRParams rejects private-marker sequences such as CSI > 4 ; 1 m, which
// share the final byte with SGR but mean something else.
func isSGRParams(params string) bool {
	for i := 0; i < len(params); i++ {
		c := params[i]
		if (c < '0' || c > '9') && c != ';' && c != ':' {
			return false
		}
	}
	return true
}
