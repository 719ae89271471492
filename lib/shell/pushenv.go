package shell

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/shellstate/lib/lock"
)

// EnvGuard represents a temporary mutation of a single environment
// variable. It is created by Pushenv and restores the prior value (or
// removes the variable if it was previously absent) when Close is
// called.
type EnvGuard struct {
	token   *lock.Token
	key     string
	prev    string
	hadPrev bool
	value   string
	closed  bool
}

// Pushenv acquires the global mutation lock, records the current state
// of the variable key (its value, or the fact that it was absent), and
// sets it to value. It never fails: setting an environment variable
// within the own process always succeeds. An empty value is a real
// value, distinct from the variable being absent.
func Pushenv(key, value string) *EnvGuard {
	token := lock.Acquire()

	prev, hadPrev := os.LookupEnv(key)
	_ = os.Setenv(key, value)

	Logger.Debugf("pushenv %s=%s", key, value)

	return &EnvGuard{
		token:   token,
		key:     key,
		prev:    prev,
		hadPrev: hadPrev,
		value:   value,
	}
}

// Close validates that the variable still holds the value this guard
// set, restores the prior state (the recorded value, or removal if the
// variable was previously absent), and releases the guard's hold on the
// global mutation lock, in that order.
//
// A mismatch during validation or a second Close panics: both signal a
// broken invariant in the caller.
//
// Close must run on the goroutine that created the guard.
func (g *EnvGuard) Close() {
	if g.closed {
		panic("shell: environment guard closed twice")
	}
	g.closed = true

	value, ok := os.LookupEnv(g.key)
	if !ok || value != g.value {
		got := "<absent>"
		if ok {
			got = value
		}
		panic(fmt.Sprintf(
			"shell: environment variable was changed concurrently\nvar      %s\nexpected %s\ngot      %s",
			g.key, g.value, got,
		))
	}

	if g.hadPrev {
		_ = os.Setenv(g.key, g.prev)
	} else {
		_ = os.Unsetenv(g.key)
	}

	Logger.Debugf("popenv %s", g.key)

	g.token.Release()
}

// Key returns the environment variable key this guard mutates.
func (g *EnvGuard) Key() string {
	return g.key
}

// Value returns the value this guard set.
func (g *EnvGuard) Value() string {
	return g.value
}
