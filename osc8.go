package xolmis

import (
	"os"
	"strconv"
	"strings"
)

const (
	osc8Introducer = "\x1b]8;"
	osc8Start      = "\x1b]8;;"
	osc8End        = "\x1b]8;;\x1b\\"
	osc8Terminator = "\x1b\\"
)

// DetectOSC8Support returns true if the current environment likely supports OSC 8 hyperlinks.
func DetectOSC8Support() bool {
	if os.Getenv("OSC8") == "0" {
		return false
	}
	if os.Getenv("DOMTERM") != "" {
		return true
	}
	if os.Getenv("WT_SESSION") != "" {
		return true
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "kitty") || strings.Contains(term, "ghostty") {
		return true
	}
	if vte := os.Getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}

// ContainsHyperlink reports whether s already carries an OSC 8 sequence.
func ContainsHyperlink(s string) bool {
	return strings.Contains(s, osc8Introducer)
}

// FormatHyperlink wraps text in an OSC 8 hyperlink pointing at uri.
func FormatHyperlink(uri, text string) string {
	var b strings.Builder
	writeHyperlink(&b, uri, text)
	return b.String()
}

func writeHyperlink(b *strings.Builder, uri, text string) {
	b.Grow(len(osc8Start) + len(uri) + len(osc8Terminator) + len(text) + len(osc8End))
	b.WriteString(osc8Start)
	b.WriteString(uri)
	b.WriteString(osc8Terminator)
	b.WriteString(text)
	b.WriteString(osc8End)
}
