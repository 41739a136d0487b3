package xolmis

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Transformer turns file references in terminal output into OSC 8
// hyperlinks. It is safe for concurrent use.
type Transformer struct {
	rules *RuleSet
	cfg   transformConfig
}

// NewTransformer returns a Transformer applying rules, or DefaultRules when
// rules is nil.
func NewTransformer(rules *RuleSet, opts ...TransformOption) *Transformer {
	if rules == nil {
		rules = DefaultRules()
	}
	cfg := defaultTransformConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Transformer{rules: rules, cfg: cfg}
}

var defaultTransformer = sync.OnceValue(func() *Transformer {
	return NewTransformer(DefaultRules())
})

// Transform rewrites chunk with the default rules and target prefix,
// resolving relative paths against cwd.
func Transform(chunk, cwd string) string {
	return defaultTransformer().Transform(chunk, cwd)
}

// Rules returns the rule set the transformer applies.
func (t *Transformer) Rules() *RuleSet {
	return t.rules
}

// Transform wraps every linkable file reference in chunk in an OSC 8
// hyperlink. Bytes outside the links are copied unchanged, and a chunk that
// already contains a hyperlink is returned as is. Transform never fails:
// references it cannot map are left alone.
func (t *Transformer) Transform(chunk, cwd string) string {
	if chunk == "" || ContainsHyperlink(chunk) {
		return chunk
	}
	idx := NewIndexMap(chunk)
	stripped := idx.Stripped()
	if stripped == "" {
		return chunk
	}
	matches := FindMatches(t.rules, stripped)
	if len(matches) == 0 {
		return chunk
	}

	var b strings.Builder
	last, links := 0, 0
	for _, m := range matches {
		resolved := resolvePath(cwd, m.Path)
		if !t.linkable(m.Path, resolved) {
			if ce := t.cfg.logger.Check(zap.DebugLevel, "skip reference"); ce != nil {
				ce.Write(zap.String("rule", m.Rule), zap.String("text", preview(m.Text, previewWidth)))
			}
			continue
		}
		rawStart, rawEnd, ok := idx.RawRange(m.Start, m.End)
		if !ok || rawStart < last {
			t.cfg.logger.Warn("cannot map reference onto output",
				zap.String("rule", m.Rule),
				zap.String("text", preview(m.Text, previewWidth)),
				zap.Int("start", m.Start),
				zap.Int("end", m.End))
			continue
		}
		if links == 0 {
			b.Grow(len(chunk) + 64*len(matches))
		}
		uri := t.target(resolved, m.Line)
		b.WriteString(chunk[last:rawStart])
		writeHyperlink(&b, uri, chunk[rawStart:rawEnd])
		last = rawEnd
		links++
		if ce := t.cfg.logger.Check(zap.DebugLevel, "link reference"); ce != nil {
			ce.Write(zap.String("rule", m.Rule), zap.String("target", previewTarget(uri, previewWidth)))
		}
	}
	if links == 0 {
		return chunk
	}
	b.WriteString(chunk[last:])
	return b.String()
}
