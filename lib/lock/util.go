package lock

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID returns the numeric ID of the calling goroutine.
//
// The ID is parsed from the stack trace header, which has the fixed form
// "goroutine 123 [running]:". The Go runtime does not expose goroutine
// IDs directly; the header format has been stable since Go 1.0.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		panic("lock: malformed stack header: " + string(buf[:n]))
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		panic("lock: cannot parse goroutine id: " + err.Error())
	}
	return id
}
