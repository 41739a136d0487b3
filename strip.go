package xolmis

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Strip removes every escape sequence from s, leaving only visible text.
func Strip(s string) string {
	if strings.IndexByte(s, escByte) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for e := range Elements(s) {
		if e.Kind == ElementText {
			b.WriteString(e.Slice(s))
		}
	}
	return b.String()
}

// Measurer computes display widths in terminal columns. The zero value
// treats East Asian ambiguous-width characters as narrow.
type Measurer struct {
	cond *runewidth.Condition
}

// NewMeasurer returns a Measurer. When ambiguousWide is set, East Asian
// ambiguous-width characters occupy two columns, as they do in CJK locales.
func NewMeasurer(ambiguousWide bool) Measurer {
	if !ambiguousWide {
		return Measurer{}
	}
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = true
	return Measurer{cond: cond}
}

var defaultMeasurer Measurer

// MeasureWidth returns the display width of the visible text of s.
func MeasureWidth(s string) int {
	return defaultMeasurer.Width(s)
}

// Width returns the display width of the visible text of s. Escape
// sequences and control characters occupy no columns.
func (m Measurer) Width(s string) int {
	width := 0
	for e := range Elements(s) {
		if e.Kind != ElementText {
			continue
		}
		m.clusters(e.Slice(s), func(_ string, w int) bool {
			width += w
			return true
		})
	}
	return width
}

// clusters walks the grapheme clusters of text, stopping when fn returns
// false.
func (m Measurer) clusters(text string, fn func(cluster string, width int) bool) {
	state := -1
	for len(text) > 0 {
		var (
			cluster string
			width   int
		)
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		if m.cond != nil {
			width = m.cond.StringWidth(cluster)
		}
		if !fn(cluster, width) {
			return
		}
	}
}
