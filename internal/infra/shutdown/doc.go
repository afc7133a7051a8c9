// Package shutdown provides graceful shutdown for miniredis.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Reload callbacks on SIGHUP
//   - Timeout-bounded shutdown hooks, run in reverse registration order
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown("redis", srv.Shutdown)
//	if err := h.Wait(); err != nil {
//		// one or more hooks failed
//	}
package shutdown
