// Package output renders server replies for miniredis-cli.
//
//   - formatter.go: Formatter interface and factory
//   - text.go: redis-cli style rendering and raw mode
//   - json.go, yaml.go: machine-readable output for scripting
package output
