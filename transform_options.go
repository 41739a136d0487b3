package xolmis

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// DefaultTargetPrefix opens files in the Cursor editor.
const DefaultTargetPrefix = "cursor://file/"

// TransformOption configures a Transformer.
type TransformOption func(*transformConfig)

type transformConfig struct {
	targetPrefix string
	logger       *zap.Logger
	stat         func(path string) error
	canonicalize func(path string) (string, error)
}

func defaultTransformConfig() transformConfig {
	return transformConfig{
		targetPrefix: DefaultTargetPrefix,
		logger:       zap.NewNop(),
		stat:         statPath,
		canonicalize: filepath.EvalSymlinks,
	}
}

func statPath(path string) error {
	_, err := os.Stat(path)
	return err
}

// WithTargetPrefix sets the URI prefix placed before the canonical path,
// e.g. "vscode://file".
func WithTargetPrefix(prefix string) TransformOption {
	return func(cfg *transformConfig) {
		cfg.targetPrefix = prefix
	}
}

// WithLogger sets the logger used for skipped and failed links.
func WithLogger(logger *zap.Logger) TransformOption {
	return func(cfg *transformConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithStat replaces the existence check used by the link gate.
func WithStat(stat func(path string) error) TransformOption {
	return func(cfg *transformConfig) {
		if stat != nil {
			cfg.stat = stat
		}
	}
}

// WithCanonicalizer replaces the function that resolves symlinks in link
// targets.
func WithCanonicalizer(canonicalize func(path string) (string, error)) TransformOption {
	return func(cfg *transformConfig) {
		if canonicalize != nil {
			cfg.canonicalize = canonicalize
		}
	}
}
