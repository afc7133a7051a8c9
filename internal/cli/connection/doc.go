// Package connection implements the miniredis-cli side of the wire
// protocol.
//
//   - client.go: dialing, request encoding and round trips
//   - reply.go: reply reader for status, error, integer, bulk and array
//     replies
package connection
