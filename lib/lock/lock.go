package lock

import (
	"sync"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// --------------------------------------------------------------------------
// Process-Wide State
// --------------------------------------------------------------------------

var (
	// mu serializes all guarded mutation sessions in the process.
	// The zero value is ready to use and lives for the process lifetime.
	mu sync.Mutex

	// sessions records which goroutines currently hold a mutation session.
	// Presence of a goroutine ID in the map is the reentrancy flag.
	sessions = xsync.NewMapOf[uint64, struct{}]()
)

var (
	acquiredTotal  = metrics.NewCounter("shellstate_lock_acquired_total")
	reentrantTotal = metrics.NewCounter("shellstate_lock_reentrant_total")
	releasedTotal  = metrics.NewCounter("shellstate_lock_released_total")
)

// --------------------------------------------------------------------------
// Token
// --------------------------------------------------------------------------

// Token represents one acquisition of the global mutation lock. A token
// either newly took the mutex (and owns the obligation to release it) or
// rode on an existing session of the same goroutine (and owns nothing).
//
// A token is confined to the goroutine that acquired it and must be
// released exactly once, in reverse order of acquisition relative to any
// sibling tokens on the same goroutine.
type Token struct {
	owned    bool
	gid      uint64
	released bool
}

// Acquire obtains a mutation session for the calling goroutine. It never
// fails. If the goroutine already holds a session, Acquire returns
// immediately with a non-owning token; otherwise it blocks until no other
// goroutine holds a session.
func Acquire() *Token {
	gid := goroutineID()

	// Fast path: this goroutine already holds a session.
	if _, held := sessions.Load(gid); held {
		reentrantTotal.Inc()
		return &Token{owned: false, gid: gid}
	}

	mu.Lock()
	sessions.Store(gid, struct{}{})
	acquiredTotal.Inc()
	return &Token{owned: true, gid: gid}
}

// Release ends the acquisition represented by the token. For a non-owning
// token this is a no-op. For an owning token the goroutine's session flag
// is cleared first, while the mutex is still held, and the mutex is
// unlocked afterwards. Releasing a token twice panics: it indicates a
// broken release discipline in the caller.
func (t *Token) Release() {
	if t.released {
		panic("lock: token released twice")
	}
	t.released = true

	if !t.owned {
		return
	}

	// The flag must be cleared before the mutex is unlocked so that no
	// moment exists where the mutex is free but the goroutine still
	// appears to hold a session.
	sessions.Delete(t.gid)
	mu.Unlock()
	releasedTotal.Inc()
}

// Owned reports whether the token newly took the mutex (as opposed to
// riding on an existing session of the same goroutine).
func (t *Token) Owned() bool {
	return t.owned
}
