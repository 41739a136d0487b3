package xolmis

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Style is the rendition state produced by folding SGR sequences.
type Style struct {
	Foreground tcell.Color
	Background tcell.Color
	Attrs      tcell.AttrMask
}

// DefaultStyle is the terminal's initial rendition.
var DefaultStyle = Style{
	Foreground: tcell.ColorDefault,
	Background: tcell.ColorDefault,
	Attrs:      tcell.AttrNone,
}

// IsDefault reports whether s equals DefaultStyle.
func (s Style) IsDefault() bool {
	return s == DefaultStyle
}

// Has reports whether every attribute in attr is set.
func (s Style) Has(attr tcell.AttrMask) bool {
	return s.Attrs&attr == attr
}

// TCell converts s into a tcell.Style.
func (s Style) TCell() tcell.Style {
	return tcell.StyleDefault.
		Foreground(s.Foreground).
		Background(s.Background).
		Bold(s.Has(tcell.AttrBold)).
		Dim(s.Has(tcell.AttrDim)).
		Italic(s.Has(tcell.AttrItalic)).
		Underline(s.Has(tcell.AttrUnderline)).
		Blink(s.Has(tcell.AttrBlink)).
		Reverse(s.Has(tcell.AttrReverse)).
		StrikeThrough(s.Has(tcell.AttrStrikeThrough))
}

// ParseSGR folds the parameter bytes of a single SGR sequence (the part
// between CSI and 'm') into base.
func ParseSGR(base Style, params string) Style {
	if !isSGRParams(params) {
		return base
	}
	return base.apply(params)
}

type sgrParam struct {
	value int
	sub   []int
}

func parseSGRParams(params string) []sgrParam {
	fields := strings.Split(params, ";")
	out := make([]sgrParam, 0, len(fields))
	for _, field := range fields {
		parts := strings.Split(field, ":")
		p := sgrParam{value: atoiSGR(parts[0])}
		for _, part := range parts[1:] {
			p.sub = append(p.sub, atoiSGR(part))
		}
		out = append(out, p)
	}
	return out
}

// atoiSGR treats empty parameters as 0 and out-of-range values as unknown.
func atoiSGR(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func (s Style) apply(params string) Style {
	codes := parseSGRParams(params)
	for i := 0; i < len(codes); i++ {
		code := codes[i]
		switch v := code.value; {
		case v == 0:
			s = DefaultStyle
		case v == 1:
			s.Attrs |= tcell.AttrBold
		case v == 2:
			s.Attrs |= tcell.AttrDim
		case v == 3:
			s.Attrs |= tcell.AttrItalic
		case v == 4 || v == 21:
			s.Attrs |= tcell.AttrUnderline
		case v == 5 || v == 6:
			s.Attrs |= tcell.AttrBlink
		case v == 7:
			s.Attrs |= tcell.AttrReverse
		case v == 9:
			s.Attrs |= tcell.AttrStrikeThrough
		case v == 22:
			s.Attrs &^= tcell.AttrBold | tcell.AttrDim
		case v == 23:
			s.Attrs &^= tcell.AttrItalic
		case v == 24:
			s.Attrs &^= tcell.AttrUnderline
		case v == 25:
			s.Attrs &^= tcell.AttrBlink
		case v == 27:
			s.Attrs &^= tcell.AttrReverse
		case v == 29:
			s.Attrs &^= tcell.AttrStrikeThrough
		case v >= 30 && v <= 37:
			s.Foreground = tcell.PaletteColor(v - 30)
		case v == 39:
			s.Foreground = tcell.ColorDefault
		case v >= 40 && v <= 47:
			s.Background = tcell.PaletteColor(v - 40)
		case v == 49:
			s.Background = tcell.ColorDefault
		case v >= 90 && v <= 97:
			s.Foreground = tcell.PaletteColor(v - 90 + 8)
		case v >= 100 && v <= 107:
			s.Background = tcell.PaletteColor(v - 100 + 8)
		case v == 38 || v == 48:
			color, consumed, ok := extendedColor(code, codes[i+1:])
			i += consumed
			if !ok {
				continue
			}
			if v == 38 {
				s.Foreground = color
			} else {
				s.Background = color
			}
		}
	}
	return s
}

// extendedColor decodes the 256-color and truecolor forms of SGR 38/48 in
// both the semicolon (38;5;n) and colon (38:5:n, 38:2::r:g:b) spellings. It
// reports how many of the following parameters it consumed.
func extendedColor(code sgrParam, rest []sgrParam) (tcell.Color, int, bool) {
	if len(code.sub) > 0 {
		switch code.sub[0] {
		case 5:
			if len(code.sub) >= 2 {
				return indexedColor(code.sub[1])
			}
		case 2:
			if len(code.sub) >= 4 {
				rgb := code.sub[len(code.sub)-3:]
				return rgbColor(rgb[0], rgb[1], rgb[2])
			}
		}
		return tcell.ColorDefault, 0, false
	}
	if len(rest) == 0 {
		return tcell.ColorDefault, 0, false
	}
	switch rest[0].value {
	case 5:
		if len(rest) < 2 {
			return tcell.ColorDefault, len(rest), false
		}
		c, _, ok := indexedColor(rest[1].value)
		return c, 2, ok
	case 2:
		if len(rest) < 4 {
			return tcell.ColorDefault, len(rest), false
		}
		c, _, ok := rgbColor(rest[1].value, rest[2].value, rest[3].value)
		return c, 4, ok
	}
	return tcell.ColorDefault, 0, false
}

func indexedColor(n int) (tcell.Color, int, bool) {
	if n < 0 || n > 255 {
		return tcell.ColorDefault, 0, false
	}
	return tcell.PaletteColor(n), 0, true
}

func rgbColor(r, g, b int) (tcell.Color, int, bool) {
	if r < 0 || g < 0 || b < 0 {
		return tcell.ColorDefault, 0, false
	}
	return tcell.NewRGBColor(clampChannel(r), clampChannel(g), clampChannel(b)), 0, true
}

func clampChannel(v int) int32 {
	if v > 255 {
		return 255
	}
	return int32(v)
}

// StyleSection is a run of visible text and the rendition it is drawn with.
type StyleSection struct {
	Style Style
	Text  string
}

// ParseStyleSections splits s into runs of visible text, each paired with
// the rendition in effect where the run starts. Non-SGR control sequences
// are dropped.
func ParseStyleSections(s string) []StyleSection {
	var sections []StyleSection
	it := NewElementIterator(s, DefaultStyle)
	for {
		e, ok := it.Next()
		if !ok {
			return sections
		}
		if e.Kind != ElementText {
			continue
		}
		style := it.Style()
		if n := len(sections); n > 0 && sections[n-1].Style == style {
			sections[n-1].Text += e.Slice(s)
			continue
		}
		sections = append(sections, StyleSection{Style: style, Text: e.Slice(s)})
	}
}

// ParseFirstStyle returns the rendition of the first visible text in s.
func ParseFirstStyle(s string) (Style, bool) {
	it := NewElementIterator(s, DefaultStyle)
	for {
		e, ok := it.Next()
		if !ok {
			return Style{}, false
		}
		if e.Kind == ElementText {
			return it.Style(), true
		}
	}
}

// StartsWithStyle reports whether s begins with an SGR sequence.
func StartsWithStyle(s string) bool {
	it := NewElementIterator(s, DefaultStyle)
	e, ok := it.Next()
	return ok && e.Kind == ElementSGR
}
