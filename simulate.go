package xolmis

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 4096)
	},
}

// SimulateRequest configures Simulate.
type SimulateRequest struct {
	Reader      io.Reader
	Writer      io.Writer
	Cwd         string
	Transformer ChunkTransformer
	// ChunkSize is the number of bytes handed to the transformer at a time.
	ChunkSize int
	// Delay is slept before each chunk after the first.
	Delay time.Duration
}

// Simulate replays Reader through the transformer in fixed-size chunks,
// the way a slow program or a pseudo-terminal would deliver it. Chunk
// boundaries may fall inside escape sequences or multi-byte characters.
func Simulate(req SimulateRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("simulate: Reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("simulate: Writer is nil")
	}
	if req.ChunkSize <= 0 {
		return fmt.Errorf("simulate: ChunkSize must be > 0")
	}
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(req.Reader)
	defer func() {
		reader.Reset(nil)
		readerPool.Put(reader)
	}()
	w := NewWriter(req.Writer, req.Cwd, req.Transformer)
	buf := make([]byte, req.ChunkSize)
	for first := true; ; first = false {
		n, err := io.ReadFull(reader, buf)
		if n > 0 {
			if !first && req.Delay > 0 {
				time.Sleep(req.Delay)
			}
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("simulate: write: %w", werr)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("simulate: read: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("simulate: write: %w", err)
	}
	return nil
}
