package xolmis

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// resolvePath expands a leading ~ and anchors relative paths at cwd.
func resolvePath(cwd, path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}

// looksLikePath reports whether a captured path is plausible on its own,
// without the file existing.
func looksLikePath(captured string) bool {
	return strings.ContainsAny(captured, `/\`) ||
		strings.ContainsRune(captured, filepath.Separator) ||
		strings.HasPrefix(captured, ".") ||
		filepath.IsAbs(captured)
}

// linkable is the gate a match passes before it is turned into a link.
func (t *Transformer) linkable(captured, resolved string) bool {
	if t.cfg.stat(resolved) == nil {
		return true
	}
	return looksLikePath(captured)
}

// target builds prefix + canonical path + ":" + line. The path is the
// resolved one when it cannot be canonicalized.
func (t *Transformer) target(resolved string, line uint32) string {
	canonical, err := t.cfg.canonicalize(resolved)
	if err != nil {
		canonical = resolved
	}
	return t.cfg.targetPrefix + canonical + ":" + strconv.FormatUint(uint64(line), 10)
}
