//go:build unix

package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/creack/pty"
	"go.uber.org/zap"
	"golang.org/x/term"

	"pkt.systems/xolmis"
)

// drainTimeout bounds how long Run waits for remaining output after the
// program exits. Background jobs can keep the terminal open indefinitely.
const drainTimeout = 500 * time.Millisecond

// Run starts the program on a new pseudo-terminal sized like stdin, puts
// stdin in raw mode, forwards keystrokes and window size changes, and pipes
// the program's output through the transformer to stdout. It returns the
// program's exit code once it exits.
func Run(ctx context.Context, opts Options) (int, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return 1, fmt.Errorf("shell: %w", err)
	}
	log := opts.Logger
	fd := int(opts.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return 1, ErrNotTerminal
	}

	cmd := exec.CommandContext(ctx, opts.Shell, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = opts.Env

	ptmx, err := pty.StartWithSize(cmd, windowSize(fd))
	if err != nil {
		return 1, fmt.Errorf("shell: start %s: %w", opts.Shell, err)
	}
	defer func() { _ = ptmx.Close() }()
	log.Info("started shell",
		zap.String("shell", opts.Shell),
		zap.String("dir", opts.Dir),
		zap.Int("pid", cmd.Process.Pid))

	state, err := term.MakeRaw(fd)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return 1, fmt.Errorf("shell: raw mode: %w", err)
	}
	defer func() { _ = term.Restore(fd, state) }()

	resize := make(chan os.Signal, 1)
	signal.Notify(resize, syscall.SIGWINCH)
	defer func() {
		signal.Stop(resize)
		close(resize)
	}()
	go func() {
		for range resize {
			if err := pty.InheritSize(opts.Stdin, ptmx); err != nil {
				log.Debug("resize failed", zap.Error(err))
			}
		}
	}()

	// The copy stays blocked on stdin after the program exits; it ends with
	// the process.
	go func() {
		if _, err := io.Copy(ptmx, opts.Stdin); err != nil {
			log.Debug("input copy ended", zap.Error(err))
		}
	}()

	outDone := make(chan error, 1)
	go func() {
		outDone <- xolmis.Pipe(xolmis.PipeRequest{
			Reader:      ptyReader{r: ptmx},
			Writer:      opts.Stdout,
			Cwd:         opts.Dir,
			Transformer: opts.Transformer,
			BufferSize:  opts.BufferSize,
		})
	}()

	waitErr := cmd.Wait()
	var pipeErr error
	select {
	case pipeErr = <-outDone:
	case <-time.After(drainTimeout):
		_ = ptmx.Close()
		pipeErr = <-outDone
	}
	if pipeErr != nil && !errors.Is(pipeErr, os.ErrClosed) {
		log.Warn("output pipe failed", zap.Error(pipeErr))
	}

	code := exitCode(cmd, waitErr)
	log.Info("shell exited", zap.Int("code", code))
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return code, fmt.Errorf("shell: wait: %w", waitErr)
		}
	}
	return code, nil
}

func windowSize(fd int) *pty.Winsize {
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = defaultCols, defaultRows
	}
	return &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		if code := cmd.ProcessState.ExitCode(); code >= 0 {
			return code
		}
		// Killed by a signal.
		if status, ok := cmd.ProcessState.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			return 128 + int(status.Signal())
		}
	}
	if waitErr != nil {
		return 1
	}
	return 0
}

// ptyReader reports EIO, which Linux returns once the program side of the
// terminal is closed, as the end of the stream.
type ptyReader struct {
	r io.Reader
}

func (p ptyReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if err != nil && errors.Is(err, syscall.EIO) {
		err = io.EOF
	}
	return n, err
}
