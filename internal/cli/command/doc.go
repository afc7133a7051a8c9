// Package command defines the miniredis-cli application.
//
// The root command takes an optional server command. With arguments it
// sends that single request and prints the reply; without arguments it
// starts the interactive REPL against the same connection.
package command
