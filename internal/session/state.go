package session

import "errors"

// State is the connection lifecycle phase.
//
//	Disconnected -> Connected -> Exchanging <-> Connected -> Closed
//
// Closed is reachable from every state and is terminal.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateExchanging
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateExchanging:
		return "exchanging"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Reason names what ended the exchange loop.
type Reason string

const (
	ReasonQuit        Reason = "quit"
	ReasonEndOfInput  Reason = "end_of_input"
	ReasonPeerClosed  Reason = "peer_closed"
	ReasonInterrupted Reason = "interrupted"
	ReasonTransport   Reason = "transport"
	ReasonDecoding    Reason = "decoding"
)

// Termination records how Run ended. Err is diagnostic only; it is logged and
// never shown to the operator.
type Termination struct {
	Reason    Reason
	Err       error
	Exchanges int
}

// Clean reports whether the loop ended without a failure. An interrupt
// counts as clean, the same as quit.
func (t Termination) Clean() bool {
	return t.Err == nil || errors.Is(t.Err, ErrInterrupted)
}
