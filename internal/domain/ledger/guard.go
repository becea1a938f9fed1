package ledger

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Guard allows at most one investment submission in flight.
type Guard struct {
	slot atomic.Pointer[string]
}

// Acquire claims the slot and returns its token. It returns false while
// another submission holds the slot.
func (g *Guard) Acquire() (string, bool) {
	token := uuid.NewString()
	if !g.slot.CompareAndSwap(nil, &token) {
		return "", false
	}
	return token, true
}

// Release frees the slot if token still owns it.
func (g *Guard) Release(token string) {
	cur := g.slot.Load()
	if cur == nil || *cur != token {
		return
	}
	g.slot.CompareAndSwap(cur, nil)
}

// InFlight reports whether a submission currently holds the slot.
func (g *Guard) InFlight() bool {
	return g.slot.Load() != nil
}
