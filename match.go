package xolmis

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Match is a rule hit in visible text. Start and End are byte offsets into
// the stripped text.
type Match struct {
	Start int
	End   int
	Text  string
	Path  string
	Line  uint32
	Rule  string
}

// FindMatches runs every rule of rs over stripped and returns the accepted,
// non-overlapping matches in position order. Among candidates starting at
// the same offset the earlier rule wins; a candidate is dropped when it
// starts before the end of the last accepted one.
func FindMatches(rs *RuleSet, stripped string) []Match {
	if rs == nil {
		rs = DefaultRules()
	}
	var candidates []Match
	for _, rule := range rs.rules {
		candidates = collectMatches(candidates, rule, stripped)
	}
	return resolveOverlaps(candidates)
}

func collectMatches(dst []Match, rule Rule, stripped string) []Match {
	if rule.Pattern == nil || rule.LineGroup < 0 {
		return dst
	}
	for _, loc := range rule.Pattern.FindAllStringSubmatchIndex(stripped, -1) {
		start, end := loc[0], loc[1]
		ps, pe := loc[2*rule.PathGroup], loc[2*rule.PathGroup+1]
		ls, le := loc[2*rule.LineGroup], loc[2*rule.LineGroup+1]
		if ps < 0 || ps == pe || ls < 0 {
			continue
		}
		line, err := strconv.ParseUint(stripped[ls:le], 10, 32)
		if err != nil {
			continue
		}
		// Applies to every rule, user rules included: a reference right
		// after "scheme:" is part of a URL and is never a file.
		if followsScheme(stripped, start) {
			continue
		}
		dst = append(dst, Match{
			Start: start,
			End:   end,
			Text:  stripped[start:end],
			Path:  stripped[ps:pe],
			Line:  uint32(line),
			Rule:  rule.Name,
		})
	}
	return dst
}

// followsScheme reports whether a match at start sits inside the authority
// or path of a URL such as http://host:80, where it is not a file.
func followsScheme(stripped string, start int) bool {
	before, rest := stripped[:start], stripped[start:]
	return (strings.HasSuffix(before, ":") && strings.HasPrefix(rest, "//")) ||
		(strings.HasSuffix(before, ":/") && strings.HasPrefix(rest, "/"))
}

func resolveOverlaps(matches []Match) []Match {
	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(a.Start, b.Start)
	})
	accepted := matches[:0]
	lastEnd := 0
	for _, m := range matches {
		if m.Start < lastEnd {
			continue
		}
		accepted = append(accepted, m)
		lastEnd = m.End
	}
	return accepted
}
