// Package gate holds the process-lifetime record of the last receipt whose
// notification email was delivered. Downloads are authorized against it.
//
// This is a convenience check, not a security control: there is no token and
// no per-user binding, and receipt-number equality is the only test.
package gate

import (
	"sync"

	"github.com/nyashahama/cash-receipt-backend/internal/receipt"
)

// Gate remembers at most one record. Each RecordSuccess overwrites the
// previous one unconditionally and nothing survives a restart.
//
// Individual calls are serialised by a mutex, but the gate does not isolate
// concurrent dispatches from each other: when two different receipts are
// dispatched at the same time the one recorded last wins, and a concurrent
// download may observe either.
type Gate struct {
	mu         sync.RWMutex
	authorized bool
	last       receipt.Record
}

// New returns a Gate that authorizes nothing.
func New() *Gate {
	return &Gate{}
}

// RecordSuccess stores a copy of rec and marks it as authorized. Callers must
// only invoke it after the primary notification email was accepted.
func (g *Gate) RecordSuccess(rec receipt.Record) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = rec // Record holds only strings, so assignment is a deep copy.
	g.authorized = true
}

// IsAuthorized reports whether rec has the same receipt number as the last
// recorded success.
func (g *Gate) IsAuthorized(rec receipt.Record) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.authorized && g.last.ReceiptNumber == rec.ReceiptNumber
}

// Last returns the stored record and whether one has been recorded.
func (g *Gate) Last() (receipt.Record, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.last, g.authorized
}
