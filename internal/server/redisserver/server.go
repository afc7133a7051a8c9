package redisserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/miniredis-go/internal/telemetry/logger"
	"github.com/yndnr/miniredis-go/internal/telemetry/metric"
)

const (
	// DefaultAddress is the default RESP listen address.
	DefaultAddress = "0.0.0.0:6370"
	// DefaultReadBufferSize is the default size of one inbound read.
	DefaultReadBufferSize = 64 * 1024

	limiterPruneInterval = time.Minute
	limiterIdleTimeout   = 5 * time.Minute
)

// ErrServerRunning is returned by Start on a server that is already started.
var ErrServerRunning = errors.New("redisserver: server already running")

// Config holds the Redis server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string
	// ReadBufferSize is the maximum number of bytes handed to the decoder
	// per read. Every read must contain whole frames.
	ReadBufferSize int
	// RateLimit is the maximum number of commands per second per client IP.
	// Set to 0 to disable rate limiting.
	RateLimit int
	// MaxConns limits concurrent client connections. 0 means unlimited.
	MaxConns int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:        DefaultAddress,
		ReadBufferSize: DefaultReadBufferSize,
		RateLimit:      0,
		MaxConns:       0,
	}
}

// Server represents the Redis protocol server.
type Server struct {
	cfg        *Config
	dispatcher *Dispatcher
	limiter    *rateLimiter
	rec        metric.Recorder
	logger     logger.Logger

	mu    sync.Mutex
	ln    net.Listener
	conns map[*Conn]struct{}

	running  atomic.Bool
	active   atomic.Int64
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Conn represents a single Redis client connection.
type Conn struct {
	netConn net.Conn
	bw      *bufio.Writer
	id      string
	ip      string
	log     logger.Logger

	closed atomic.Bool
}

func newConn(ctx context.Context, c net.Conn, base logger.Logger) *Conn {
	id := ulid.Make().String()
	remote := c.RemoteAddr().String()
	ip := remote
	if host, _, err := net.SplitHostPort(remote); err == nil {
		ip = host
	}

	ctx = logger.WithConnID(logger.WithLogger(ctx, base), id)
	return &Conn{
		netConn: c,
		bw:      bufio.NewWriter(c),
		id:      id,
		ip:      ip,
		log:     logger.L(ctx).With("remote", remote),
	}
}

// Close closes the underlying network connection once.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the client address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.netConn.RemoteAddr()
}

// New creates a new Redis protocol server. rec and log may be nil.
func New(cfg *Config, dispatcher *Dispatcher, rec metric.Recorder, log logger.Logger) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ReadBufferSize <= 0 {
		cfg.ReadBufferSize = DefaultReadBufferSize
	}
	if rec == nil {
		rec = metric.Nop()
	}
	if log == nil {
		log = logger.Default()
	}

	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		limiter:    newRateLimiter(cfg.RateLimit),
		rec:        rec,
		logger:     log,
		conns:      make(map[*Conn]struct{}),
		stop:       make(chan struct{}),
	}
}

// Start binds the listen address and begins accepting connections in the
// background. Cancelling ctx stops accepting new connections.
func (s *Server) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerRunning
	}

	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("listen %s: %w", s.cfg.Address, err)
	}

	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil && s.running.Load() {
			s.logger.Error("redis accept loop error", "error", err)
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		select {
		case <-ctx.Done():
			_ = ln.Close()
		case <-s.stop:
		}
	}()

	if s.limiter != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.pruneLoop()
		}()
	}

	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Running reports whether the server is accepting connections.
func (s *Server) Running() bool {
	return s.running.Load()
}

// Shutdown stops the listener, closes all client connections and waits
// for their goroutines to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.running.Store(false)
	s.stopOnce.Do(func() { close(s.stop) })

	var firstErr error

	s.mu.Lock()
	if s.ln != nil {
		if err := s.ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			firstErr = err
		}
	}
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return firstErr
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				s.logger.Warn("temporary accept error", "error", err)
				continue
			}
			return err
		}

		if limit := s.cfg.MaxConns; limit > 0 && s.active.Load() >= int64(limit) {
			s.logger.Warn("rejecting client, connection limit reached",
				"remote", nc.RemoteAddr().String(), "max_conns", limit)
			_, _ = nc.Write([]byte("-ERR max number of clients reached\r\n"))
			_ = nc.Close()
			continue
		}

		c := newConn(ctx, nc, s.logger)
		if !s.track(c) {
			_ = c.Close()
			return nil
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(c)
		}()
	}
}

// track registers c; it returns false once shutdown has begun.
func (s *Server) track(c *Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	s.active.Add(1)
	s.rec.ConnectionOpened()
	return true
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conns[c]; !ok {
		return
	}
	delete(s.conns, c)
	s.active.Add(-1)
	s.rec.ConnectionClosed()
}

func (s *Server) serveConn(c *Conn) {
	defer func() {
		_ = c.Close()
		s.untrack(c)
	}()

	c.log.Debug("client connected")

	buf := make([]byte, s.cfg.ReadBufferSize)
	for {
		n, err := c.netConn.Read(buf)
		if n > 0 {
			s.handleData(c, buf[:n])
			if ferr := c.bw.Flush(); ferr != nil {
				c.log.Debug("connection write error", "error", ferr)
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				c.log.Debug("client disconnected")
			} else {
				c.log.Debug("connection read error", "error", err)
			}
			return
		}
	}
}

// handleData decodes one inbound delivery, dispatches each frame and
// buffers the replies. A panic is answered with a protocol error and the
// connection stays open.
func (s *Server) handleData(c *Conn, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("panic while handling request", "panic", fmt.Sprint(r))
			s.rec.ProtocolError(metric.ProtocolErrorPanic)
			_ = WriteReply(c.bw, replyProtocolError)
		}
	}()

	dec := NewDecoder(data)
	for {
		frame, err := dec.Next()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				return
			case errors.Is(err, ErrProtocol):
				c.log.Debug("invalid request", "error", err)
				s.rec.ProtocolError(metric.ProtocolErrorInvalid)
				_ = WriteReply(c.bw, replyProtocolError)
				continue
			default:
				// Malformed input is dropped without a reply.
				c.log.Debug("dropping malformed request", "error", err, "bytes", len(data))
				s.rec.ProtocolError(metric.ProtocolErrorMalformed)
				return
			}
		}

		if !s.limiter.allow(c.ip) {
			s.rec.RateLimited()
			_ = WriteReply(c.bw, ErrorStatus("ERR rate limit exceeded"))
			continue
		}

		c.log.Debug("dispatching command", "command", normalizeCommandName(frame[0]), "argc", len(frame)-1)
		_ = WriteReply(c.bw, s.dispatcher.Dispatch(frame))
	}
}

func (s *Server) pruneLoop() {
	ticker := time.NewTicker(limiterPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := s.limiter.prune(limiterIdleTimeout); n > 0 {
				s.logger.Debug("pruned idle rate limiters", "count", n)
			}
		case <-s.stop:
			return
		}
	}
}
