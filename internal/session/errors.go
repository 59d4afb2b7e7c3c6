package session

import "errors"

var (
	ErrConnection     = errors.New("session: connection failed")
	ErrTransport      = errors.New("session: transport failure")
	ErrDecoding       = errors.New("session: response is not valid utf-8")
	ErrInterrupted    = errors.New("session: interrupted")
	ErrNotConnected   = errors.New("session: not connected")
	ErrAlreadyStarted = errors.New("session: already started")
	ErrClosed         = errors.New("session: closed")
)
