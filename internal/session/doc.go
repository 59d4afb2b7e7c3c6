// Package session owns the single outbound connection of an interactive
// line client and drives its send-then-receive loop.
//
// Ownership boundary:
// - dialing the endpoint and closing the connection exactly once
// - quit detection on operator input
// - one bounded read per sent line, printed as trimmed UTF-8 text
// - classifying every post-connect failure into a Termination
package session
