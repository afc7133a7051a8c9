// Package config provides server configuration for miniredis.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (address formats, port conflicts, log settings)
//   - sanitize.go: Log sanitization (hide sensitive values)
//   - convert.go: Mapping onto the runtime configs of other packages
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
