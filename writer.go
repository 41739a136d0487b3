package xolmis

import (
	"io"
	"unicode/utf8"
)

// Writer transforms everything written to it and forwards the result to an
// underlying writer. A multi-byte character split across writes is held
// back until it is complete, so the transformer only ever sees whole
// characters. Call Flush when the stream ends.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	dst     io.Writer
	cwd     string
	t       ChunkTransformer
	tailBuf [utf8.UTFMax]byte
	tailLen int
	joined  []byte
}

// NewWriter returns a Writer. A nil transformer means the default rules.
func NewWriter(dst io.Writer, cwd string, t ChunkTransformer) *Writer {
	if t == nil {
		t = defaultTransformer()
	}
	return &Writer{dst: dst, cwd: cwd, t: t}
}

// Write transforms the complete characters of p and writes them out. It
// reports len(p) on success even when a partial character is held back.
func (w *Writer) Write(p []byte) (int, error) {
	n := len(p)
	if w.tailLen > 0 {
		w.joined = append(append(w.joined[:0], w.tailBuf[:w.tailLen]...), p...)
		p = w.joined
	}
	complete, tail := splitComplete(p)
	if len(complete) > 0 {
		// On failure nothing of p is consumed and the held bytes stay put.
		if err := w.emit(complete); err != nil {
			return 0, err
		}
	}
	w.tailLen = copy(w.tailBuf[:], tail)
	return n, nil
}

// Flush writes out any held-back bytes, replacing them with U+FFFD since
// they can no longer be completed.
func (w *Writer) Flush() error {
	if w.tailLen == 0 {
		return nil
	}
	var buf [utf8.UTFMax]byte
	n := copy(buf[:], w.tailBuf[:w.tailLen])
	w.tailLen = 0
	return w.emit(buf[:n])
}

// Reset discards held-back bytes and redirects output to dst.
func (w *Writer) Reset(dst io.Writer, cwd string) {
	w.dst = dst
	w.cwd = cwd
	w.tailLen = 0
	w.joined = w.joined[:0]
}

func (w *Writer) emit(b []byte) error {
	out := w.t.Transform(decodeChunk(b), w.cwd)
	_, err := io.WriteString(w.dst, out)
	return err
}
