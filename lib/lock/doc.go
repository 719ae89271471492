// Package lock implements the process-wide mutation lock that serializes
// all guarded changes to global process state (the working directory and
// environment variables). It provides a single acquire operation that
// returns a scoped token, with reentrant semantics for the acquiring
// goroutine.
//
// Core Functionality:
//   - Exclusive acquisition across goroutines (blocking, never failing)
//   - Reentrant acquisition within one goroutine (non-blocking no-op)
//   - Scoped release through the returned Token
//
// Implementation Approach:
//
//	A single package-level sync.Mutex guards all mutation sessions,
//	regardless of which resource a session targets. Sharing one mutex
//	across resource kinds is deliberate: the consistency checks that
//	guards perform at close time are only sound if no other guarded
//	mutation of any kind can interleave between a guard's setup and its
//	teardown.
//
//	Reentrancy is tracked per goroutine. A concurrent map keyed by
//	goroutine ID records which goroutines currently hold a session. If
//	the acquiring goroutine is already in the map, Acquire returns a
//	token that owns nothing and Release of that token is a no-op. This
//	makes nested guards on one goroutine (a directory guard created
//	while an environment guard is active, or vice versa) deadlock-free.
//
//	A token that newly took the mutex clears the goroutine's session
//	flag before unlocking. Both steps happen on the goroutine that
//	acquired the token; tokens must not be handed to other goroutines.
//
// Thread Safety:
//
//	Acquire and Release are safe to call from any number of goroutines.
//	Sessions are totally ordered across goroutines: no two goroutines
//	ever hold overlapping sessions. A Token itself is confined to the
//	goroutine that acquired it.
//
// Performance Impact:
//
//	These operations are intended for test setup/teardown and command
//	orchestration, not for hot paths. They intentionally serialize all
//	guarded mutations process-wide. The reentrant fast path costs one
//	map lookup and never touches the mutex.
package lock
