package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/cardazim/cardazim/pkg/codec"
)

// Connection is a framed message stream over a net.Conn.
type Connection struct {
	conn net.Conn
}

// NewConnection wraps an established connection.
func NewConnection(conn net.Conn) *Connection {
	return &Connection{conn: conn}
}

// Connect dials host:port over TCP.
func Connect(ctx context.Context, host string, port int) (*Connection, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s:%d: %w", host, port, err)
	}
	return NewConnection(conn), nil
}

// SendMessage writes payload as a single frame.
func (c *Connection) SendMessage(payload []byte) error {
	if len(payload) > MaxMessageSize {
		return fmt.Errorf("%w: message of %d bytes exceeds limit of %d", ErrProtocol, len(payload), MaxMessageSize)
	}
	if _, err := c.conn.Write(PackMessage(payload)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// ReceiveMessage blocks until a whole frame has arrived and returns its
// payload. It returns io.EOF if the peer closed the stream between frames.
func (c *Connection) ReceiveMessage() ([]byte, error) {
	var header [codec.LengthSize]byte
	if _, err := io.ReadFull(c.conn, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: stream closed inside frame header", ErrProtocol)
		}
		return nil, fmt.Errorf("failed to read frame header: %w", err)
	}

	length, _, err := codec.ReadUint32(header[:], 0)
	if err != nil {
		return nil, err
	}
	if length > MaxMessageSize {
		return nil, fmt.Errorf("%w: frame declares %d bytes, limit is %d", ErrProtocol, length, MaxMessageSize)
	}

	payload := make([]byte, length)
	if n, err := io.ReadFull(c.conn, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: stream closed after %d of %d payload bytes", ErrProtocol, n, length)
		}
		return nil, fmt.Errorf("failed to read frame payload: %w", err)
	}

	return payload, nil
}

// SetDeadline sets the read and write deadline of the underlying connection.
func (c *Connection) SetDeadline(t time.Time) error {
	return c.conn.SetDeadline(t)
}

// LocalAddr returns the local network address.
func (c *Connection) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr returns the peer's network address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Close closes the underlying connection.
func (c *Connection) Close() error {
	return c.conn.Close()
}

func (c *Connection) String() string {
	return fmt.Sprintf("<Connection from %s to %s>", c.conn.LocalAddr(), c.conn.RemoteAddr())
}
