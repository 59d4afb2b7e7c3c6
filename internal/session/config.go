package session

import (
	"context"
	"net"
)

const (
	DefaultBufferSize = 4096
	DefaultQuitToken  = "quit"
)

// ContextDialer opens the connection for Start.
type ContextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Config defines loop tunables. The zero value of each field falls back to
// DefaultConfig.
type Config struct {
	BufferSize int
	QuitToken  string
	Dialer     ContextDialer
	Observer   Observer
}

// DefaultConfig returns a 4096-byte read buffer, the "quit" token and a
// dialer without timeouts.
func DefaultConfig() Config {
	return Config{
		BufferSize: DefaultBufferSize,
		QuitToken:  DefaultQuitToken,
		Dialer:     &net.Dialer{},
		Observer:   nopObserver{},
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BufferSize <= 0 {
		c.BufferSize = def.BufferSize
	}
	if c.QuitToken == "" {
		c.QuitToken = def.QuitToken
	}
	if c.Dialer == nil {
		c.Dialer = def.Dialer
	}
	if c.Observer == nil {
		c.Observer = def.Observer
	}
	return c
}
