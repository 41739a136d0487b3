// Package xolmis turns file references in terminal output into clickable
// OSC 8 hyperlinks.
//
// It sits between a program and the terminal: each chunk of output is
// scanned for references such as src/main.rs:10, Cargo.toml:5 or Python
// traceback frames, and every reference that points at a plausible file is
// wrapped in a hyperlink to an editor URI. Everything else, escape sequences
// included, passes through byte for byte, so colors, cursor movement and
// full-screen programs keep working.
//
// Core properties:
//   - A tokenizer that splits raw output into text and escape sequences
//   - Width and truncation helpers that ignore escape sequences
//   - Stripped-to-raw offset mapping, so rules match on visible text only
//   - An ordered, extensible rule set for recognizing references
//   - A streaming Writer and Pipe that never split a UTF-8 character
//
// Example:
//
//	err := xolmis.Pipe(xolmis.PipeRequest{
//		Reader: os.Stdin,
//		Writer: os.Stdout,
//		Cwd:    cwd,
//		Transformer: xolmis.NewTransformer(nil,
//			xolmis.WithTargetPrefix("vscode://file")),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// The xolmis command wraps an interactive shell in a pseudo-terminal and
// applies the same pipeline to everything the shell prints.
package xolmis
