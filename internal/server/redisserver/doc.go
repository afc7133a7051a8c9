// Package redisserver provides a Redis protocol compatible server for miniredis.
//
// This package implements the subset of RESP needed to serve a single
// string keyspace:
//
//   - resp.go: Decoder turning an inbound buffer into request frames
//   - reply.go: Reply values and their wire encoding
//   - command.go: Dispatcher with the command table and arity checks
//   - server.go: TCP accept loop and per-connection handling
//
// Supported commands: PING, ECHO, SET, GET, DEL, EXISTS, KEYS.
//
// Each inbound read is decoded independently and must contain whole
// frames. Malformed requests are dropped without a reply; requests that
// parse but are not arrays of strings are answered with
// "-ERR protocol error".
package redisserver
