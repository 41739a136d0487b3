package xolmis

import (
	"sort"
	"strings"
)

// IndexMap relates byte offsets in the visible text of a buffer to byte
// offsets in the raw buffer. It is built with a single scan and answers
// lookups in logarithmic time.
type IndexMap struct {
	raw      string
	stripped string
	elements []Element
	segments []textSegment
}

// textSegment is one Text element placed in both coordinate spaces.
type textSegment struct {
	stripped int
	raw      int
	length   int
	element  int
}

// NewIndexMap scans s once.
func NewIndexMap(s string) *IndexMap {
	m := &IndexMap{raw: s}
	var b strings.Builder
	b.Grow(len(s))
	for e := range Elements(s) {
		if e.Kind == ElementText {
			m.segments = append(m.segments, textSegment{
				stripped: b.Len(),
				raw:      e.Start,
				length:   e.End - e.Start,
				element:  len(m.elements),
			})
			b.WriteString(e.Slice(s))
		}
		m.elements = append(m.elements, e)
	}
	m.stripped = b.String()
	return m
}

// Raw returns the buffer the map was built from.
func (m *IndexMap) Raw() string {
	return m.raw
}

// Elements returns the element sequence of the buffer.
func (m *IndexMap) Elements() []Element {
	return m.elements
}

// Stripped returns the visible text of the buffer.
func (m *IndexMap) Stripped() string {
	return m.stripped
}

func (m *IndexMap) segmentFor(i int) int {
	if i < 0 || i >= len(m.stripped) {
		return -1
	}
	return sort.Search(len(m.segments), func(k int) bool {
		seg := m.segments[k]
		return seg.stripped+seg.length > i
	})
}

// RawOffset returns the raw offset of the i-th visible byte, or false when
// i is outside the visible text.
func (m *IndexMap) RawOffset(i int) (int, bool) {
	k := m.segmentFor(i)
	if k < 0 {
		return 0, false
	}
	seg := m.segments[k]
	return seg.raw + i - seg.stripped, true
}

// RawRange maps the visible range [start, end) onto the raw buffer. When
// the range ends exactly where its last text run ends, the right edge is
// extended over the control sequences that follow, up to the next visible
// byte or the end of the buffer, so that a style opened inside the range is
// also closed inside it. The extension stops before a sequence cut off by the
// end of the buffer, which the next chunk still has to complete.
func (m *IndexMap) RawRange(start, end int) (int, int, bool) {
	if start < 0 || end <= start || end > len(m.stripped) {
		return 0, 0, false
	}
	rawStart, ok := m.RawOffset(start)
	if !ok {
		return 0, 0, false
	}
	k := m.segmentFor(end - 1)
	seg := m.segments[k]
	rawEnd := seg.raw + end - seg.stripped
	if rawEnd == seg.raw+seg.length {
		for j := seg.element + 1; j < len(m.elements); j++ {
			e := m.elements[j]
			if e.Kind == ElementText || e.Incomplete {
				break
			}
			rawEnd = e.End
		}
	}
	return rawStart, rawEnd, true
}

// RawSliceFrom returns the raw buffer from visible offset i onwards. Every
// control sequence is kept, including those before the boundary, so that
// styles stay balanced; visible text before the boundary is dropped.
func (m *IndexMap) RawSliceFrom(i int) string {
	if i <= 0 {
		return m.raw
	}
	var b strings.Builder
	b.Grow(len(m.raw))
	seen := 0
	for _, e := range m.elements {
		if e.Kind != ElementText {
			b.WriteString(e.Slice(m.raw))
			continue
		}
		text := e.Slice(m.raw)
		switch {
		case seen >= i:
			b.WriteString(text)
		case seen+len(text) > i:
			b.WriteString(text[i-seen:])
		}
		seen += len(text)
	}
	return b.String()
}

// RawSliceFrom is IndexMap.RawSliceFrom for a one-off lookup.
func RawSliceFrom(s string, i int) string {
	return NewIndexMap(s).RawSliceFrom(i)
}

// RawOffset is IndexMap.RawOffset for a one-off lookup.
func RawOffset(s string, i int) (int, bool) {
	return NewIndexMap(s).RawOffset(i)
}

// RawRange is IndexMap.RawRange for a one-off lookup.
func RawRange(s string, start, end int) (int, int, bool) {
	return NewIndexMap(s).RawRange(start, end)
}
