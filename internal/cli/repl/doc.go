// Package repl provides the interactive mode of miniredis-cli.
//
//   - repl.go: read-eval-print loop
//   - split.go: tokenizer for quoted command lines
//   - completer.go: command name completion used by "help"
//   - history.go: command history persistence
package repl
