package connection

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultAddr is the address miniredis-server listens on by default.
	DefaultAddr = "127.0.0.1:6370"
	// DefaultTimeout bounds dialing and each round trip.
	DefaultTimeout = 5 * time.Second
)

// ErrNotConnected is returned by Do before Connect or after Close.
var ErrNotConnected = errors.New("connection: not connected")

// Client is a single RESP connection to a miniredis server. It is safe
// for concurrent use; requests are serialized.
type Client struct {
	addr    string
	timeout time.Duration

	mu   sync.Mutex
	conn net.Conn
	br   *bufio.Reader
}

// NewClient creates a Client for addr. A non-positive timeout selects
// DefaultTimeout.
func NewClient(addr string, timeout time.Duration) *Client {
	if addr == "" {
		addr = DefaultAddr
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{addr: addr, timeout: timeout}
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Connect dials the server. Calling Connect on a connected client is a
// no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}

	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.addr, err)
	}
	c.conn = conn
	c.br = bufio.NewReader(conn)
	return nil
}

// Do sends args as one request and reads its reply. Error replies are
// returned as a Reply of KindError, not as a Go error; err is reserved
// for transport failures, after which the connection is closed.
func (c *Client) Do(ctx context.Context, args ...string) (Reply, error) {
	if len(args) == 0 {
		return Reply{}, errors.New("connection: empty command")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return Reply{}, ErrNotConnected
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.closeLocked()
		return Reply{}, err
	}

	// The server decodes each read on its own, so a request goes out in a
	// single write.
	if _, err := c.conn.Write(EncodeCommand(args)); err != nil {
		c.closeLocked()
		return Reply{}, fmt.Errorf("write request: %w", err)
	}

	r, err := ReadReply(c.br)
	if err != nil {
		c.closeLocked()
		return Reply{}, fmt.Errorf("read reply: %w", err)
	}
	return r, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Client) closeLocked() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.br = nil
	return err
}

// EncodeCommand encodes args as an array of bulk strings.
func EncodeCommand(args []string) []byte {
	size := 16
	for _, a := range args {
		size += len(a) + 16
	}
	buf := make([]byte, 0, size)
	buf = append(buf, '*')
	buf = strconv.AppendInt(buf, int64(len(args)), 10)
	buf = append(buf, '\r', '\n')
	for _, a := range args {
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(a)), 10)
		buf = append(buf, '\r', '\n')
		buf = append(buf, a...)
		buf = append(buf, '\r', '\n')
	}
	return buf
}
