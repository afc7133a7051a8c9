// Package handler provides the HTTP handlers of the miniredis admin server.
//
//   - health.go: GET /healthz (status, build info, key count) and
//     GET /readyz (readiness of the RESP listener)
//
// /metrics is served by the Prometheus handler and is not part of this
// package.
package handler
