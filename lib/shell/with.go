package shell

import (
	"sort"
)

// WithDir runs fn with the working directory changed to dir. The prior
// directory is always restored afterwards, including when fn returns an
// error or panics. Errors from setting up the guard are returned before
// fn is called.
func WithDir(dir string, fn func() error) error {
	guard, err := Pushd(dir)
	if err != nil {
		return err
	}
	defer guard.Close()

	return fn()
}

// WithEnv runs fn with the environment variable key set to value. The
// prior state of the variable is always restored afterwards, including
// when fn returns an error or panics.
func WithEnv(key, value string, fn func() error) error {
	guard := Pushenv(key, value)
	defer guard.Close()

	return fn()
}

// WithEnvMap runs fn with every variable in vars set to its mapped
// value. The variables are pushed in sorted key order (so the operation
// is deterministic) and restored in reverse order afterwards. All pushes
// happen inside a single mutation session of the calling goroutine.
func WithEnvMap(vars map[string]string, fn func() error) error {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	guards := make([]*EnvGuard, 0, len(keys))
	defer func() {
		for i := len(guards) - 1; i >= 0; i-- {
			guards[i].Close()
		}
	}()

	for _, key := range keys {
		guards = append(guards, Pushenv(key, vars[key]))
	}

	return fn()
}
