package protocol

import (
	"fmt"
	"net"
)

// Listener accepts framed connections.
type Listener struct {
	listener net.Listener
	backlog  int
}

// Listen binds host:port with address reuse enabled and starts listening
// with the given accept backlog. Port 0 picks a free port.
func Listen(host string, port, backlog int) (*Listener, error) {
	if backlog <= 0 {
		return nil, fmt.Errorf("backlog must be positive, got %d", backlog)
	}

	listener, err := listenTCP(host, port, backlog)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s:%d: %w", host, port, err)
	}
	return &Listener{listener: listener, backlog: backlog}, nil
}

// Accept blocks until a client connects.
func (l *Listener) Accept() (*Connection, error) {
	conn, err := l.listener.Accept()
	if err != nil {
		return nil, err
	}
	return NewConnection(conn), nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.listener.Addr()
}

// Close stops listening. Blocked Accept calls return net.ErrClosed.
func (l *Listener) Close() error {
	return l.listener.Close()
}

func (l *Listener) String() string {
	return fmt.Sprintf("<Listener %s backlog=%d>", l.listener.Addr(), l.backlog)
}
