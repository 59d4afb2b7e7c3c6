// Package console reads operator input one line at a time.
package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// Reader hands out lines from an input stream. Next can be abandoned through
// ctx; ReadLine cannot. Once Next has been called, ReadLine must not be used.
type Reader struct {
	r *bufio.Reader

	startOnce sync.Once
	stopOnce  sync.Once
	req       chan struct{}
	res       chan result
	stop      chan struct{}
	done      chan struct{}
	err       error
}

type result struct {
	line string
	err  error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:    bufio.NewReader(r),
		req:  make(chan struct{}),
		res:  make(chan result),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// ReadLine blocks for one line and strips its "\n" or "\r\n" terminator. An
// unterminated final line is returned as-is; the call after it gets io.EOF.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return line, nil
		}
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// Next reads exactly one line per call on a helper goroutine. Nothing is
// read from the input before Next asks for it.
func (r *Reader) Next(ctx context.Context) (string, error) {
	r.startOnce.Do(func() { go r.pump() })

	select {
	case r.req <- struct{}{}:
	case <-r.done:
		return "", r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}

	select {
	case res := <-r.res:
		return res.line, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *Reader) pump() {
	defer close(r.done)
	for {
		select {
		case <-r.req:
		case <-r.stop:
			r.err = io.EOF
			return
		}
		line, err := r.ReadLine()
		select {
		case r.res <- result{line: line, err: err}:
		case <-r.stop:
			r.err = io.EOF
			return
		}
		if err != nil {
			r.err = err
			return
		}
	}
}

// Close releases the helper goroutine unless it is parked in a blocking read.
func (r *Reader) Close() error {
	r.stopOnce.Do(func() { close(r.stop) })
	return nil
}
