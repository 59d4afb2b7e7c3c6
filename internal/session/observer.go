package session

import "time"

// Observer receives session events, typically for metrics.
type Observer interface {
	ExchangeCompleted(sent, received int, elapsed time.Duration)
	Terminated(reason string)
	ConnectFailed()
}

type nopObserver struct{}

func (nopObserver) ExchangeCompleted(int, int, time.Duration) {}
func (nopObserver) Terminated(string)                         {}
func (nopObserver) ConnectFailed()                            {}
