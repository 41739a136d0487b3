package xolmis

import "strings"

const truncateFill = ' '

// Truncate shortens s so that its visible text fits in width columns,
// ending with tail when it had to cut. A double-width character that would
// straddle the limit is replaced by a space so the result fills width
// exactly. Escape sequences are preserved, including those after the cut, so
// styles opened before it are still closed.
func Truncate(s string, width int, tail string) string {
	return defaultMeasurer.Truncate(s, width, tail)
}

// TruncateShort is Truncate without a tail and without filling: the result
// may be narrower than width.
func TruncateShort(s string, width int) string {
	return defaultMeasurer.TruncateShort(s, width)
}

// Truncate is the package-level Truncate using m's width rules.
func (m Measurer) Truncate(s string, width int, tail string) string {
	return m.truncate(s, width, tail, true)
}

// TruncateShort is the package-level TruncateShort using m's width rules.
func (m Measurer) TruncateShort(s string, width int) string {
	return m.truncate(s, width, "", false)
}

func (m Measurer) truncate(s string, width int, tail string, fill bool) string {
	if width < 0 {
		width = 0
	}
	if m.Width(s) <= width {
		return s
	}
	// The tail itself may not fit.
	if tail != "" {
		tail = m.truncate(tail, width, "", fill)
	}
	used := m.Width(tail)

	var b strings.Builder
	b.Grow(len(s) + len(tail))
	cut := false
	for e := range Elements(s) {
		if e.Kind != ElementText {
			b.WriteString(e.Slice(s))
			continue
		}
		if cut {
			continue
		}
		m.clusters(e.Slice(s), func(cluster string, w int) bool {
			if used+w <= width {
				b.WriteString(cluster)
				used += w
				return true
			}
			if fill {
				switch {
				case w == 2 && used < width:
					b.WriteByte(truncateFill)
				case w > 2:
					for ; used < width; used++ {
						b.WriteByte(truncateFill)
					}
				}
			}
			cut = true
			return false
		})
	}
	b.WriteString(tail)
	return b.String()
}
