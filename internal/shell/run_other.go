//go:build !unix

package shell

import "context"

// Run is not available on this platform.
func Run(ctx context.Context, opts Options) (int, error) {
	return 1, ErrUnsupported
}
