// Package shell runs an interactive program inside a pseudo-terminal and
// passes its output through a xolmis transformer on the way to the user's
// terminal.
package shell
