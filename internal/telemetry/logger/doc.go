// Package logger provides structured logging for miniredis.
//
// Files:
//
//   - logger.go: Logger interface, slog backend, global default logger
//   - zap.go: zap backend (format "zap")
//   - context.go: Context-aware logging with connection IDs
//   - redact.go: Redaction of value-carrying fields
//
// Stored values are user data; any attribute whose key mentions "value",
// "payload" or "args" is replaced with a placeholder before it is written.
package logger
