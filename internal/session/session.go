package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/danmuck/linectl/internal/endpoint"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LineSource yields operator lines. It returns io.EOF when input ends and
// ctx.Err() when the wait is abandoned.
type LineSource interface {
	Next(ctx context.Context) (string, error)
}

// Session owns one connection for its whole lifetime.
type Session struct {
	cfg Config
	in  LineSource
	out io.Writer
	id  string
	log zerolog.Logger

	mu    sync.Mutex
	state State
	conn  net.Conn
	addr  string

	closeOnce sync.Once
	closeErr  error
}

func New(cfg Config, in LineSource, out io.Writer) *Session {
	id := uuid.NewString()
	return &Session{
		cfg:   cfg.withDefaults(),
		in:    in,
		out:   out,
		id:    id,
		log:   log.With().Str("session", id).Logger(),
		state: StateDisconnected,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Addr is the dialed address, empty before Start succeeds.
func (s *Session) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start dials ep. Any failure wraps ErrConnection and is final; there is no
// retry.
func (s *Session) Start(ctx context.Context, ep endpoint.Endpoint) error {
	switch s.State() {
	case StateDisconnected:
	case StateClosed:
		return ErrClosed
	default:
		return ErrAlreadyStarted
	}

	addr := ep.Address()
	conn, err := s.cfg.Dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		s.cfg.Observer.ConnectFailed()
		return fmt.Errorf("%w: %s: %w", ErrConnection, addr, err)
	}

	s.mu.Lock()
	if s.state != StateDisconnected {
		state := s.state
		s.mu.Unlock()
		_ = conn.Close()
		if state == StateClosed {
			return ErrClosed
		}
		return ErrAlreadyStarted
	}
	s.conn = conn
	s.addr = addr
	s.state = StateConnected
	s.mu.Unlock()

	s.log.Debug().Str("addr", addr).Str("local", conn.LocalAddr().String()).Msg("connected")
	return nil
}

// Run drives the exchange loop until quit, end of input, peer close,
// interrupt or failure. It always closes the session before returning and
// never panics; failures are reported in the Termination only.
func (s *Session) Run(ctx context.Context) (term Termination) {
	exchanges := 0
	defer func() {
		if r := recover(); r != nil {
			term = Termination{
				Reason: ReasonTransport,
				Err:    fmt.Errorf("%w: panic: %v", ErrTransport, r),
			}
		}
		term.Exchanges = exchanges
		if err := s.Close(); err != nil {
			s.log.Debug().Err(err).Msg("close")
		}
		s.cfg.Observer.Terminated(string(term.Reason))
		s.log.Debug().
			Str("reason", string(term.Reason)).
			Int("exchanges", term.Exchanges).
			Err(term.Err).
			Msg("session ended")
	}()

	s.mu.Lock()
	conn := s.conn
	state := s.state
	s.mu.Unlock()
	if conn == nil || state != StateConnected {
		return Termination{Reason: ReasonTransport, Err: ErrNotConnected}
	}

	// Unblock an in-flight read or write when ctx ends.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, s.cfg.BufferSize)
	for {
		line, err := s.in.Next(ctx)
		if err != nil {
			return inputTermination(ctx, err)
		}
		if s.isQuit(line) {
			return Termination{Reason: ReasonQuit}
		}
		reason, err := s.exchange(ctx, conn, line, buf)
		if reason != "" {
			return Termination{Reason: reason, Err: err}
		}
		exchanges++
	}
}

func (s *Session) isQuit(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), s.cfg.QuitToken)
}

// exchange sends one line and prints the single bounded response. A non-empty
// Reason ends the loop.
func (s *Session) exchange(ctx context.Context, conn net.Conn, line string, buf []byte) (Reason, error) {
	s.setState(StateExchanging)
	defer s.setState(StateConnected)

	start := time.Now()
	payload := []byte(line + "\n")
	if _, err := conn.Write(payload); err != nil {
		return classify(ctx, ReasonTransport, fmt.Errorf("%w: write: %w", ErrTransport, err))
	}

	// One read; a response longer than buf or split across segments is
	// truncated here. Callers rely on that boundary.
	n, err := conn.Read(buf)
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return ReasonPeerClosed, nil
		}
		return classify(ctx, ReasonTransport, fmt.Errorf("%w: read: %w", ErrTransport, err))
	}

	data := buf[:n]
	if !utf8.Valid(data) {
		return ReasonDecoding, fmt.Errorf("%w: %d bytes", ErrDecoding, n)
	}
	s.cfg.Observer.ExchangeCompleted(len(payload), n, time.Since(start))
	s.log.Trace().Int("sent", len(payload)).Int("received", n).Msg("exchange")

	if _, err := fmt.Fprintln(s.out, strings.TrimSpace(string(data))); err != nil {
		return ReasonTransport, fmt.Errorf("%w: display: %w", ErrTransport, err)
	}
	return "", nil
}

func (s *Session) setState(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateClosed {
		return
	}
	s.state = next
}

// Close releases the connection. It is safe to call more than once and from
// any state; only the first call closes.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		conn := s.conn
		s.state = StateClosed
		s.mu.Unlock()
		if conn != nil {
			s.closeErr = conn.Close()
		}
	})
	return s.closeErr
}

func inputTermination(ctx context.Context, err error) Termination {
	switch {
	case errors.Is(err, io.EOF):
		return Termination{Reason: ReasonEndOfInput}
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return Termination{Reason: ReasonInterrupted, Err: fmt.Errorf("%w: %w", ErrInterrupted, err)}
	default:
		return Termination{Reason: ReasonEndOfInput, Err: fmt.Errorf("session: read input: %w", err)}
	}
}

// classify attributes a network failure to the interrupt when ctx has ended,
// since the deadline set by Run is what failed the call.
func classify(ctx context.Context, reason Reason, err error) (Reason, error) {
	if ctx.Err() != nil {
		return ReasonInterrupted, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return reason, err
}
