package session

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"time"
)

type readResult struct {
	data []byte
	err  error
}

// fakeConn is a scripted net.Conn. Reads pop from reads; an empty script
// reads as a peer close.
type fakeConn struct {
	mu       sync.Mutex
	reads    []readResult
	writeErr error
	written  bytes.Buffer
	writes   int
	closes   int
	onRead   func()
}

func (c *fakeConn) Read(p []byte) (int, error) {
	if c.onRead != nil {
		c.onRead()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.reads) == 0 {
		return 0, io.EOF
	}
	r := c.reads[0]
	c.reads = c.reads[1:]
	return copy(p, r.data), r.err
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.writes++
	return c.written.Write(p)
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closes++
	return nil
}

func (c *fakeConn) closeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closes
}

func (c *fakeConn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 50000}
}

func (c *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9000}
}

func (c *fakeConn) SetDeadline(time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

type fakeDialer struct {
	conn    net.Conn
	err     error
	network string
	address string
}

func (d *fakeDialer) DialContext(_ context.Context, network, address string) (net.Conn, error) {
	d.network = network
	d.address = address
	if d.err != nil {
		return nil, d.err
	}
	return d.conn, nil
}

// scriptedInput hands out lines, then io.EOF, or blocks until ctx ends when
// block is set.
type scriptedInput struct {
	lines []string
	block bool
	err   error
	calls int
}

func (in *scriptedInput) Next(ctx context.Context) (string, error) {
	in.calls++
	if len(in.lines) > 0 {
		line := in.lines[0]
		in.lines = in.lines[1:]
		return line, nil
	}
	if in.err != nil {
		return "", in.err
	}
	if in.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "", io.EOF
}

type panickingInput struct{}

func (panickingInput) Next(context.Context) (string, error) {
	panic("input exploded")
}

type countingObserver struct {
	mu             sync.Mutex
	exchanges      int
	sent           int
	received       int
	terminations   []string
	connectFailure int
}

func (o *countingObserver) ExchangeCompleted(sent, received int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.exchanges++
	o.sent += sent
	o.received += received
}

func (o *countingObserver) Terminated(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.terminations = append(o.terminations, reason)
}

func (o *countingObserver) ConnectFailed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.connectFailure++
}
