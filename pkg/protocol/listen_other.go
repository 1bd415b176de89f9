//go:build !unix

package protocol

import (
	"net"
	"strconv"
)

// listenTCP falls back to the runtime listener, which sizes the backlog
// itself.
func listenTCP(host string, port, _ int) (net.Listener, error) {
	return net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
}
