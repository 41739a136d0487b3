// Package logging builds the zap logger used for diagnostics. Logs go to a
// file, never to the terminal the wrapped program is drawing on.
package logging
