package search

import "sync/atomic"

// Tracker hands out tickets for in-flight searches so a caller can drop a
// response that a newer search has superseded. Requests are not cancelled.
type Tracker struct {
	latest atomic.Uint64
}

// Begin starts a new search and returns its ticket.
func (t *Tracker) Begin() uint64 {
	return t.latest.Add(1)
}

// Current reports whether ticket still belongs to the most recent search.
func (t *Tracker) Current(ticket uint64) bool {
	return t.latest.Load() == ticket
}
