package xolmis

import (
	"strings"

	"github.com/muesli/reflow/ansi"
)

const previewWidth = 48

// preview renders text for a log line: escape sequences removed and
// shortened to limit columns with a trailing ellipsis.
func preview(text string, limit int) string {
	plain := Strip(text)
	if ansi.PrintableRuneWidth(plain) <= limit {
		return plain
	}
	if limit <= 0 {
		return ""
	}
	return TruncateShort(plain, limit-1) + "…"
}

// previewTarget drops the scheme of a link target when that is enough to
// fit limit.
func previewTarget(uri string, limit int) string {
	if ansi.PrintableRuneWidth(uri) <= limit {
		return uri
	}
	if idx := strings.Index(uri, "://"); idx != -1 {
		trimmed := uri[idx+3:]
		if ansi.PrintableRuneWidth(trimmed) <= limit {
			return trimmed
		}
	}
	return preview(uri, limit)
}
