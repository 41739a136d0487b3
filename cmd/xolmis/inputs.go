package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// input is one named source of terminal output. Sources are opened lazily,
// in order, so a later file may be written while an earlier one is read.
type input struct {
	name string
	open func(ctx context.Context) (io.ReadCloser, error)
}

// inputChain reads its inputs back to back. Errors carry the name of the
// input they came from.
type inputChain struct {
	ctx     context.Context
	pending []input
	cur     io.ReadCloser
	curName string
}

func (c *inputChain) Read(p []byte) (int, error) {
	for {
		if c.cur == nil {
			if len(c.pending) == 0 {
				return 0, io.EOF
			}
			next := c.pending[0]
			c.pending = c.pending[1:]
			rc, err := next.open(c.ctx)
			if err != nil {
				return 0, fmt.Errorf("input %s: %w", next.name, err)
			}
			c.cur, c.curName = rc, next.name
		}
		n, err := c.cur.Read(p)
		switch {
		case errors.Is(err, io.EOF):
			if cerr := c.closeCurrent(); cerr != nil {
				return n, cerr
			}
			if n > 0 {
				return n, nil
			}
		case err != nil:
			return n, fmt.Errorf("input %s: %w", c.curName, err)
		case n > 0:
			return n, nil
		}
	}
}

func (c *inputChain) closeCurrent() error {
	if c.cur == nil {
		return nil
	}
	err := c.cur.Close()
	c.cur = nil
	if err != nil {
		return fmt.Errorf("input %s: close: %w", c.curName, err)
	}
	return nil
}

// Close drops the inputs not read yet and closes the current one.
func (c *inputChain) Close() error {
	c.pending = nil
	return c.closeCurrent()
}

// openInputs chains args, or reads stdin when there are none. "-" stands for
// stdin, which is never closed.
func openInputs(ctx context.Context, args []string, stdin io.Reader) (io.ReadCloser, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	chain := &inputChain{ctx: ctx, pending: make([]input, 0, len(args))}
	for _, arg := range args {
		in, err := parseInput(arg, stdin)
		if err != nil {
			return nil, err
		}
		chain.pending = append(chain.pending, in)
	}
	return chain, nil
}

func parseInput(arg string, stdin io.Reader) (input, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "":
		return input{}, errors.New("empty input argument")
	case arg == "-":
		if stdin == nil {
			return input{}, errors.New("stdin is not available")
		}
		return input{name: "stdin", open: func(context.Context) (io.ReadCloser, error) {
			return io.NopCloser(stdin), nil
		}}, nil
	}
	u, err := url.Parse(arg)
	if err != nil || u.Scheme == "" {
		return fileInput(arg), nil
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return input{name: arg, open: func(ctx context.Context) (io.ReadCloser, error) {
			return fetch(ctx, arg)
		}}, nil
	case "file":
		path := u.Path
		if path == "" {
			path = u.Host
		}
		return fileInput(path), nil
	default:
		// Windows drive letters parse as a scheme.
		return fileInput(arg), nil
	}
}

func fileInput(path string) input {
	path = expandPath(path)
	return input{name: path, open: func(context.Context) (io.ReadCloser, error) {
		return os.Open(path)
	}}
}

func fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("GET: %s", resp.Status)
	}
	return resp.Body, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// createOutput returns stdout when path is empty, otherwise a new file at
// path with its parent directories created.
func createOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if strings.TrimSpace(path) == "" {
		return nopWriteCloser{stdout}, nil
	}
	path = expandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("output %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("output %s: %w", path, err)
	}
	return f, nil
}

// expandPath expands a leading ~ and makes path absolute.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// withInputs opens the inputs, hands them to fn and reports a failure on
// stderr. It returns the process exit code.
func withInputs(args []string, stdin io.Reader, stderr io.Writer, fn func(io.Reader) error) int {
	r, err := openInputs(context.Background(), args, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "xolmis: %v\n", err)
		return 1
	}
	err = fn(r)
	if cerr := r.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(stderr, "xolmis: %v\n", err)
		return 1
	}
	return 0
}

// mapLines applies fn to every line of r, keeping CRLF and LF endings.
func mapLines(r io.Reader, w io.Writer, fn func(string) string) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			body, lf := strings.CutSuffix(line, "\n")
			body, cr := strings.CutSuffix(body, "\r")
			out := fn(body)
			if cr {
				out += "\r"
			}
			if lf {
				out += "\n"
			}
			if _, werr := bw.WriteString(out); werr != nil {
				return fmt.Errorf("write: %w", werr)
			}
		}
		if errors.Is(err, io.EOF) {
			return bw.Flush()
		}
		if err != nil {
			_ = bw.Flush()
			return err
		}
	}
}
