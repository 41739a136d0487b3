package xolmis

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sync"
)

// ErrMissingPathGroup reports a rule pattern without the named path group.
var ErrMissingPathGroup = errors.New("rule pattern has no path group")

// Rule is a named pattern that recognizes file references in visible text.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	// PathGroup and LineGroup are capture group indexes. LineGroup is -1
	// when the pattern has no line group; such a rule never produces a
	// match because every link carries a line number.
	PathGroup int
	LineGroup int
}

// Default capture group names.
const (
	PathGroupName = "path"
	LineGroupName = "line"
)

// NewRule compiles pattern and resolves its capture groups by name. Empty
// group names fall back to PathGroupName and LineGroupName.
func NewRule(name, pattern, pathGroup, lineGroup string) (Rule, error) {
	if pathGroup == "" {
		pathGroup = PathGroupName
	}
	if lineGroup == "" {
		lineGroup = LineGroupName
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", name, err)
	}
	path := re.SubexpIndex(pathGroup)
	if path < 0 {
		return Rule{}, fmt.Errorf("rule %q: %w %q", name, ErrMissingPathGroup, pathGroup)
	}
	return Rule{
		Name:      name,
		Pattern:   re,
		PathGroup: path,
		LineGroup: re.SubexpIndex(lineGroup),
	}, nil
}

// MustRule is NewRule for patterns known to be valid. It panics on error.
func MustRule(name, pattern string) Rule {
	rule, err := NewRule(name, pattern, "", "")
	if err != nil {
		panic(err)
	}
	return rule
}

// RuleSet is an ordered, immutable list of rules. Earlier rules win ties
// between matches that start at the same position.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet returns a set holding a copy of rules.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: slices.Clone(rules)}
}

// With returns a new set with extra appended after the rules of rs.
func (rs *RuleSet) With(extra ...Rule) *RuleSet {
	return &RuleSet{rules: slices.Concat(rs.rules, extra)}
}

// Rules returns a copy of the rules in order.
func (rs *RuleSet) Rules() []Rule {
	return slices.Clone(rs.rules)
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Built-in rule names.
const (
	RuleFilePath        = "FilePath"
	RuleBareFileLine    = "BareFileLine"
	RulePythonTraceback = "PythonTraceback"
	RuleIpdbTraceback   = "IpdbTraceback"
	RulePdbStackFrame   = "PdbStackFrame"
)

const (
	// Paths with a leading ~, ., / or drive letter, or with at least one
	// separator, optionally followed by :line.
	filePathPattern = `(?P<path>(?:(?:~|\.|/|[a-zA-Z]:\\)[a-zA-Z0-9._\\/~-]+)|(?:\b[a-zA-Z0-9._~-]+[\\/][a-zA-Z0-9._\\/~-]+))(?::(?P<line>\d+))?\b`
	// name.ext:line with no directory part.
	bareFileLinePattern = `\b(?P<path>[a-zA-Z0-9_][a-zA-Z0-9._-]*):(?P<line>\d+)\b`
	// File "path", line N
	pythonTracebackPattern = `(?m)^[ \t]*File "(?P<path>[^"\n]+)"(?:, line (?P<line>\d+))?`
	// > path(N)func()
	ipdbTracebackPattern = `(?m)^>[ \t]*(?P<path>[^(\n]+)(?:\((?P<line>\d+)\))?`
	// indented /abs/path(N)func()
	pdbStackFramePattern = `(?m)^[ \t]+(?P<path>/[^(\n]+)\((?P<line>\d+)\)`
)

var defaultRules = sync.OnceValue(func() *RuleSet {
	return NewRuleSet(
		MustRule(RuleFilePath, filePathPattern),
		MustRule(RuleBareFileLine, bareFileLinePattern),
		MustRule(RulePythonTraceback, pythonTracebackPattern),
		MustRule(RuleIpdbTraceback, ipdbTracebackPattern),
		MustRule(RulePdbStackFrame, pdbStackFramePattern),
	)
})

// DefaultRules returns the built-in rule set. It is compiled once and
// shared.
func DefaultRules() *RuleSet {
	return defaultRules()
}
