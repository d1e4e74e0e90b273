// Package transport is the thin TCP collaborator: dial, listen, accept.
// Handles are plain net.Conn values; the protocol layers consume them as
// io.ReadWriter and cancel blocking I/O by closing them.
package transport

import (
	"fmt"
	"net"

	"cipherlink/internal/domain"
)

// Dial connects to a listening peer at addr ("host:port").
func Dial(addr string) (net.Conn, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrTransport, addr, err)
	}
	return conn, nil
}

// Acceptor wraps a listening socket that hands out one peer at a time.
type Acceptor struct {
	ln net.Listener
}

// Listen opens a TCP listening socket on addr (for example ":5000").
func Listen(addr string) (*Acceptor, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen %s: %v", domain.ErrTransport, addr, err)
	}
	return &Acceptor{ln: ln}, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (a *Acceptor) Addr() net.Addr { return a.ln.Addr() }

// AcceptOne blocks until a peer connects.
func (a *Acceptor) AcceptOne() (net.Conn, error) {
	conn, err := a.ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("%w: accept: %v", domain.ErrTransport, err)
	}
	return conn, nil
}

// Close releases the listening socket.
func (a *Acceptor) Close() error { return a.ln.Close() }
