// Package shell provides scoped, crash-safe mutation of two pieces of
// process-wide state: the current working directory and individual
// environment variables. It is intended for test harnesses and command
// orchestration code that must temporarily alter global state and
// guarantee its restoration.
//
// Core Functionality:
//   - Pushd: change the working directory, restore it on Close
//   - Pushenv: set or override an environment variable, restore it on Close
//   - WithDir / WithEnv / WithEnvMap: block-scoped forms that always restore
//
// Implementation Approach:
//
//	Every guard acquires the process-wide mutation lock from the lock
//	package before touching any state, records the prior state, performs
//	the mutation, and on Close validates, restores, and releases - in
//	that order. Validation compares the live value of the resource with
//	the value the guard itself set; a mismatch means some other part of
//	the program mutated the resource while the guard was supposedly
//	exclusive. That is a bug in the caller's concurrency discipline, not
//	an environmental condition, and is therefore reported with a panic
//	rather than an error value.
//
//	Guards of both kinds share one lock. Nested guards on the same
//	goroutine ride on the outer session and never block; guards on
//	different goroutines are fully serialized.
//
// Usage Example:
//
//	// Guard form: restore on scope exit via defer
//	guard, err := shell.Pushd("/tmp/workdir")
//	if err != nil {
//	    // Handle error - nothing was mutated
//	}
//	defer guard.Close()
//
//	// Block form: restore even if the function fails
//	err = shell.WithEnv("APP_MODE", "test", func() error {
//	    return runTests()
//	})
//
// Error Handling:
//
//	Failures while creating a directory guard (unreadable or unreachable
//	directory) are reported as a *Error carrying a RetCode and the path
//	involved; no global state is left mutated. Failures detected at
//	Close time are fatal panics as described above.
//
// Thread Safety:
//
//	Guards may be created from any goroutine; creation blocks while a
//	different goroutine holds a session. A guard itself is confined to
//	the goroutine that created it: Close must run on that goroutine, and
//	sibling guards must be closed in reverse order of creation.
package shell
