package shell

import (
	"os"
	"testing"
	"time"
)

// TestPushenvSetAndRestore tests that Pushenv overrides an existing
// value and Close restores it
func TestPushenvSetAndRestore(t *testing.T) {
	const key = "SHELLSTATE_TEST_RESTORE"

	if err := os.Setenv(key, "old"); err != nil {
		t.Fatalf("Setenv() failed: %v", err)
	}
	defer os.Unsetenv(key)

	guard := Pushenv(key, "new")

	if got := os.Getenv(key); got != "new" {
		t.Errorf("Variable is %q while guard is active, want %q", got, "new")
	}

	guard.Close()

	if got := os.Getenv(key); got != "old" {
		t.Errorf("Variable is %q after Close(), want %q", got, "old")
	}
}

// TestPushenvAbsentVariable tests that a previously absent variable is
// removed again on Close
func TestPushenvAbsentVariable(t *testing.T) {
	const key = "SHELLSTATE_TEST_ABSENT"

	os.Unsetenv(key)

	guard := Pushenv(key, "x")

	if got, ok := os.LookupEnv(key); !ok || got != "x" {
		t.Errorf("Variable is %q (present=%v) while guard is active, want %q", got, ok, "x")
	}

	guard.Close()

	if _, ok := os.LookupEnv(key); ok {
		t.Error("Variable still present after Close(), want absent")
	}
}

// TestPushenvEmptyValue tests that present-and-empty is a real prior
// state, distinct from absent
func TestPushenvEmptyValue(t *testing.T) {
	const key = "SHELLSTATE_TEST_EMPTY"

	if err := os.Setenv(key, ""); err != nil {
		t.Fatalf("Setenv() failed: %v", err)
	}
	defer os.Unsetenv(key)

	guard := Pushenv(key, "filled")
	guard.Close()

	if got, ok := os.LookupEnv(key); !ok {
		t.Error("Variable absent after Close(), want present and empty")
	} else if got != "" {
		t.Errorf("Variable is %q after Close(), want empty string", got)
	}
}

// TestPushenvConcurrentChangePanics tests that mutating the variable
// behind the guard's back is detected as a fatal consistency violation
func TestPushenvConcurrentChangePanics(t *testing.T) {
	const key = "SHELLSTATE_TEST_INTERFERENCE"

	os.Unsetenv(key)

	guard := Pushenv(key, "guarded")

	// Unguarded interference
	if err := os.Setenv(key, "intruder"); err != nil {
		t.Fatalf("Setenv() failed: %v", err)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Close() should panic after concurrent variable change")
			}
		}()
		guard.Close()
	}()

	// Repair process state by hand: the panic aborted the guard before
	// restoration and before the lock release
	os.Unsetenv(key)
	guard.token.Release()
}

// TestPushenvRemovedBehindGuardPanics tests that removing the variable
// entirely while the guard is active also fails validation
func TestPushenvRemovedBehindGuardPanics(t *testing.T) {
	const key = "SHELLSTATE_TEST_REMOVED"

	os.Unsetenv(key)

	guard := Pushenv(key, "guarded")
	os.Unsetenv(key)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Close() should panic after the variable was removed")
			}
		}()
		guard.Close()
	}()

	guard.token.Release()
}

// TestGuardNesting tests that directory and environment guards nest on
// one goroutine in either order without blocking
func TestGuardNesting(t *testing.T) {
	const key = "SHELLSTATE_TEST_NESTING"
	os.Unsetenv(key)
	target := t.TempDir()

	// env outside, dir inside
	env := Pushenv(key, "outer")
	dir, err := Pushd(target)
	if err != nil {
		env.Close()
		t.Fatalf("Pushd() inside Pushenv() failed: %v", err)
	}
	dir.Close()
	env.Close()

	// dir outside, env inside
	dir, err = Pushd(target)
	if err != nil {
		t.Fatalf("Pushd() failed: %v", err)
	}
	env = Pushenv(key, "inner")
	env.Close()
	dir.Close()

	if _, ok := os.LookupEnv(key); ok {
		t.Error("Variable still present after nested guards closed")
	}
}

// TestGuardCrossGoroutineExclusion tests that a guard on one goroutine
// blocks guard creation on another until the whole nest is closed
func TestGuardCrossGoroutineExclusion(t *testing.T) {
	const key = "SHELLSTATE_TEST_EXCLUSION"
	os.Unsetenv(key)

	outer := Pushenv(key, "held")
	inner := Pushenv(key, "nested")

	acquired := make(chan struct{})
	go func() {
		g := Pushenv(key, "other")
		close(acquired)
		g.Close()
	}()

	select {
	case <-acquired:
		t.Fatal("Second goroutine created a guard while the session was held")
	case <-time.After(50 * time.Millisecond):
	}

	inner.Close()

	// The outer guard is still open - the other goroutine must keep
	// blocking
	select {
	case <-acquired:
		t.Fatal("Second goroutine created a guard before the outer guard closed")
	case <-time.After(50 * time.Millisecond):
	}

	outer.Close()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Second goroutine never created its guard")
	}
}
