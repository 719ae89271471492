package shell

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode),
// the filesystem path involved, and an error message.
type Error struct {
	Code RetCode // The return code
	Path string  // The path the failed operation targeted
	Msg  string  // The error message
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCGetwdFailed:
		errorCode = "GetwdFailed"
	case RetCChdirFailed:
		errorCode = "ChdirFailed"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("ShellError (code %s): %s: %s", errorCode, e.Path, e.Msg)
}

// NewError creates a new Error from the given code, path and underlying
// OS-level error.
func NewError(code RetCode, path string, err error) *Error {
	return &Error{
		Code: code,
		Path: path,
		Msg:  err.Error(),
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess     RetCode = iota // 0: Operation executed successfully.
	RetCGetwdFailed                // 1: The current working directory could not be read.
	RetCChdirFailed                // 2: The working directory could not be changed.
)
