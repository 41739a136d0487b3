package xolmis

// ChunkTransformer rewrites one decoded chunk of terminal output.
type ChunkTransformer interface {
	Transform(chunk, cwd string) string
}

// ChunkTransformerFunc adapts a function to ChunkTransformer.
type ChunkTransformerFunc func(chunk, cwd string) string

// Transform calls f.
func (f ChunkTransformerFunc) Transform(chunk, cwd string) string {
	return f(chunk, cwd)
}

// Passthrough returns chunks unchanged. It is used when hyperlinks are
// turned off.
var Passthrough ChunkTransformer = ChunkTransformerFunc(func(chunk, _ string) string {
	return chunk
})
