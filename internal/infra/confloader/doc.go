// Package confloader provides configuration loading mechanism.
//
// This package implements a configuration loader that supports
// multiple sources using koanf as the underlying library.
//
// Features:
//
//   - Sources: YAML files, environment variables, flag overrides, maps
//   - Watch Support: fsnotify-based notification on config file changes
//   - Type Safety: Unmarshaling into typed structs
//
// Priority (highest to lowest):
//
//  1. Command-line flags (overrides)
//  2. Environment variables (MINIREDIS_ prefix)
//  3. Configuration files
//  4. Default values
package confloader
