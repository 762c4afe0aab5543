// Package gate implements the per-user single-flight limiter: at most one
// model request may be in flight for a given user, and the holder can be
// cancelled cooperatively from another update.
package gate

import (
	"context"
	"sync"

	"github.com/Timmn3/Chat-GPT-4/internal/domain"
)

// Slot is the handle for one granted request. It carries a context that is
// cancelled when the user sends /cancel; the request observes cancellation at
// its next suspension point.
type Slot struct {
	userID int64
	gate   *Gate

	ctx    context.Context
	cancel context.CancelFunc

	once sync.Once
}

// Context returns the slot's cancellable context.
func (s *Slot) Context() context.Context {
	return s.ctx
}

// Release frees the user's slot. Safe to call more than once; the slot is
// released exactly once. Always call it via defer so every exit path
// (normal, error, cancelled) unwinds the gate.
func (s *Slot) Release() {
	s.once.Do(func() {
		s.cancel()
		s.gate.mu.Lock()
		if s.gate.slots[s.userID] == s {
			delete(s.gate.slots, s.userID)
		}
		s.gate.mu.Unlock()
	})
}

// Gate keys one in-flight slot per user id. Acquire attempts for different
// users never contend beyond the short map critical section.
type Gate struct {
	mu    sync.Mutex
	slots map[int64]*Slot
}

func New() *Gate {
	return &Gate{slots: make(map[int64]*Slot)}
}

// TryAcquire grants the user's slot or fails fast with domain.ErrBusy.
// It never blocks waiting for the current holder.
func (g *Gate) TryAcquire(ctx context.Context, userID int64) (*Slot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.slots[userID]; held {
		return nil, domain.ErrBusy
	}

	sctx, cancel := context.WithCancel(ctx)
	s := &Slot{userID: userID, gate: g, ctx: sctx, cancel: cancel}
	g.slots[userID] = s
	return s, nil
}

// Cancel requests cooperative cancellation of the user's in-flight request.
// It reports whether a request was actually in flight. The slot itself is
// released by the holder's deferred Release, not here.
func (g *Gate) Cancel(userID int64) bool {
	g.mu.Lock()
	s, held := g.slots[userID]
	g.mu.Unlock()

	if !held {
		return false
	}
	s.cancel()
	return true
}

// Busy reports whether the user currently holds a slot.
func (g *Gate) Busy(userID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, held := g.slots[userID]
	return held
}
