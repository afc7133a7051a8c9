// Package httpserver provides the admin HTTP server for miniredis.
//
// It uses the Go standard library net/http and exposes:
//
//   - GET /healthz: liveness with build info and key count
//   - GET /readyz: readiness of the RESP listener
//   - GET /metrics: Prometheus metrics, optionally behind a bearer token
//     and an IP allowlist
//
// Middleware chain: RequestID, Recover, AccessLog, NetworkACL, BearerAuth.
// The server is only started when server.http.addr is configured.
package httpserver
