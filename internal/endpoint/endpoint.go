// Package endpoint parses and validates the host/port pair a session dials.
package endpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
)

const (
	MinPort = 1
	MaxPort = 65535
)

var (
	ErrEmptyHost   = errors.New("endpoint: host required")
	ErrInvalidPort = errors.New("endpoint: invalid port")
	ErrIncomplete  = errors.New("endpoint: input ended before host and port")
)

// Endpoint identifies the remote server. It is immutable once parsed.
type Endpoint struct {
	Host string
	Port int
}

// LineReader yields one input line per call and gives up when ctx ends.
type LineReader interface {
	Next(ctx context.Context) (string, error)
}

// Parse validates host and a decimal port in [MinPort, MaxPort].
func Parse(host string, port string) (Endpoint, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return Endpoint{}, ErrEmptyHost
	}
	raw := strings.TrimSpace(port)
	p, err := strconv.Atoi(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: %q is not a number", ErrInvalidPort, raw)
	}
	if p < MinPort || p > MaxPort {
		return Endpoint{}, fmt.Errorf("%w: %d out of range %d-%d", ErrInvalidPort, p, MinPort, MaxPort)
	}
	return Endpoint{Host: host, Port: p}, nil
}

// Read consumes the host line and then the port line from src.
func Read(ctx context.Context, src LineReader) (Endpoint, error) {
	host, err := readField(ctx, src, "host")
	if err != nil {
		return Endpoint{}, err
	}
	port, err := readField(ctx, src, "port")
	if err != nil {
		return Endpoint{}, err
	}
	return Parse(host, port)
}

func readField(ctx context.Context, src LineReader, name string) (string, error) {
	line, err := src.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: missing %s", ErrIncomplete, name)
		}
		return "", fmt.Errorf("endpoint: read %s: %w", name, err)
	}
	return line, nil
}

func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e Endpoint) String() string {
	return e.Address()
}
