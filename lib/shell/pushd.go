package shell

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/shellstate/lib/lock"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("shell")

// DirGuard represents a temporary change of the process working
// directory. It is created by Pushd and restores the prior directory
// when Close is called.
type DirGuard struct {
	token  *lock.Token
	prev   string
	dir    string
	closed bool
}

// Pushd acquires the global mutation lock and changes the working
// directory to dir. The returned guard records both the prior directory
// and the canonical form of the new one (as reported by the OS after the
// change, which resolves symlinks and relative components).
//
// On failure nothing is left mutated and the lock is released before the
// error is returned.
func Pushd(dir string) (*DirGuard, error) {
	token := lock.Acquire()

	prev, err := os.Getwd()
	if err != nil {
		token.Release()
		return nil, NewError(RetCGetwdFailed, dir, err)
	}

	if err := os.Chdir(dir); err != nil {
		token.Release()
		return nil, NewError(RetCChdirFailed, dir, err)
	}

	// Re-read the directory to capture its canonical form.
	canonical, err := os.Getwd()
	if err != nil {
		token.Release()
		return nil, NewError(RetCGetwdFailed, dir, err)
	}

	Logger.Debugf("pushd %s (from %s)", canonical, prev)

	return &DirGuard{
		token: token,
		prev:  prev,
		dir:   canonical,
	}, nil
}

// Close validates that the working directory still equals the directory
// this guard set, restores the prior directory, and releases the guard's
// hold on the global mutation lock, in that order.
//
// A mismatch during validation, a failed restoration, or a second Close
// all panic: each signals a broken invariant in the caller, and the
// process cannot continue in a known-good directory state.
//
// Close must run on the goroutine that created the guard.
func (g *DirGuard) Close() {
	if g.closed {
		panic("shell: directory guard closed twice")
	}
	g.closed = true

	dir, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("shell: cannot read working directory during restore: %v", err))
	}

	if dir != g.dir {
		panic(fmt.Sprintf(
			"shell: current directory was changed concurrently\nexpected %s\ngot      %s",
			g.dir, dir,
		))
	}

	if err := os.Chdir(g.prev); err != nil {
		panic(fmt.Sprintf("shell: cannot restore working directory %s: %v", g.prev, err))
	}

	Logger.Debugf("popd %s", g.prev)

	g.token.Release()
}

// Dir returns the canonical directory this guard set.
func (g *DirGuard) Dir() string {
	return g.dir
}
