package xolmis

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// DefaultReadBufferSize is the read size used by Pipe, matching the chunk
// size a pseudo-terminal typically delivers.
const DefaultReadBufferSize = 2048

var readBufPool = sync.Pool{
	New: func() any {
		buf := make([]byte, DefaultReadBufferSize)
		return &buf
	},
}

// PipeRequest configures Pipe.
type PipeRequest struct {
	Reader io.Reader
	Writer io.Writer
	// Cwd anchors relative paths found in the output.
	Cwd string
	// Transformer defaults to the default rules.
	Transformer ChunkTransformer
	// BufferSize defaults to DefaultReadBufferSize.
	BufferSize int
}

// Pipe copies Reader to Writer, transforming each chunk as it arrives. It
// returns nil when Reader reaches EOF.
func Pipe(req PipeRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("pipe: reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("pipe: writer is nil")
	}
	if req.BufferSize < 0 {
		return fmt.Errorf("pipe: BufferSize must be >= 0")
	}
	var buf []byte
	if req.BufferSize == 0 || req.BufferSize == DefaultReadBufferSize {
		pooled := readBufPool.Get().(*[]byte)
		defer readBufPool.Put(pooled)
		buf = *pooled
	} else {
		buf = make([]byte, req.BufferSize)
	}
	w := NewWriter(req.Writer, req.Cwd, req.Transformer)
	for {
		n, err := req.Reader.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("pipe: write: %w", werr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("pipe: read: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("pipe: write: %w", err)
	}
	return nil
}
