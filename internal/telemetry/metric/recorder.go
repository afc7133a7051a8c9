package metric

import "time"

// Recorder receives events from the RESP server.
//
// Implementations must be safe for concurrent use.
type Recorder interface {
	// CommandProcessed records one dispatched command.
	// result is "ok" or "error".
	CommandProcessed(command, result string, elapsed time.Duration)
	// ConnectionOpened records an accepted client connection.
	ConnectionOpened()
	// ConnectionClosed records a closed client connection.
	ConnectionClosed()
	// ProtocolError records a request that could not be decoded.
	ProtocolError(kind string)
	// RateLimited records a command rejected by the rate limiter.
	RateLimited()
}

// Protocol error kinds.
const (
	ProtocolErrorMalformed = "malformed"
	ProtocolErrorInvalid   = "protocol"
	ProtocolErrorPanic     = "panic"
)

// Nop returns a Recorder that discards everything.
func Nop() Recorder { return nopRecorder{} }

type nopRecorder struct{}

func (nopRecorder) CommandProcessed(string, string, time.Duration) {}
func (nopRecorder) ConnectionOpened()                              {}
func (nopRecorder) ConnectionClosed()                              {}
func (nopRecorder) ProtocolError(string)                           {}
func (nopRecorder) RateLimited()                                   {}
