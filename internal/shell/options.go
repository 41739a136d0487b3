package shell

import (
	"errors"
	"io"
	"os"

	"go.uber.org/zap"

	"pkt.systems/xolmis"
)

var (
	// ErrNotTerminal reports that standard input is not a terminal, so
	// there is nothing to host interactively.
	ErrNotTerminal = errors.New("shell: stdin is not a terminal")
	// ErrUnsupported reports a platform without pseudo-terminal support.
	ErrUnsupported = errors.New("shell: pseudo-terminals are not supported on this platform")
)

const (
	defaultShell = "/bin/sh"
	defaultCols  = 80
	defaultRows  = 24
)

// Options configures Run.
type Options struct {
	// Shell is the program to start; it defaults to $SHELL, then /bin/sh.
	Shell string
	Args  []string
	// Dir is the working directory of the program and the directory
	// relative references are resolved against. It defaults to the current
	// directory.
	Dir string
	// Env defaults to the current environment.
	Env         []string
	Stdin       *os.File
	Stdout      io.Writer
	Transformer xolmis.ChunkTransformer
	BufferSize  int
	Logger      *zap.Logger
}

func (o Options) withDefaults() (Options, error) {
	if o.Shell == "" {
		o.Shell = os.Getenv("SHELL")
	}
	if o.Shell == "" {
		o.Shell = defaultShell
	}
	if o.Dir == "" {
		dir, err := os.Getwd()
		if err != nil {
			return o, err
		}
		o.Dir = dir
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Transformer == nil {
		o.Transformer = xolmis.NewTransformer(nil)
	}
	if o.BufferSize <= 0 {
		o.BufferSize = xolmis.DefaultReadBufferSize
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o, nil
}
