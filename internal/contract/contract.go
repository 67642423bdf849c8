// Package contract holds fail-fast checks for conditions that can only be
// violated by a bug in the interpreter or in its host, never by lx source.
package contract

import (
	"fmt"

	"github.com/golang/glog"
)

const (
	assertMsg  = "An assertion has failed"
	requireMsg = "A precondition has failed for %v"
)

// Assert checks an invariant and fails if it is false.
func Assert(cond bool) {
	if !cond {
		failfast(assertMsg)
	}
}

// Assertf checks an invariant and fails with a formatted message if it is false.
func Assertf(cond bool, msg string, args ...interface{}) {
	if !cond {
		failfast(fmt.Sprintf("%v: %v", assertMsg, fmt.Sprintf(msg, args...)))
	}
}

// Require checks a precondition on the named parameter.
func Require(cond bool, param string) {
	if !cond {
		failfast(fmt.Sprintf(requireMsg, param))
	}
}

// failfast logs the message at the caller's frame and panics with it.
func failfast(msg string) {
	glog.ErrorDepth(2, msg)
	panic(msg)
}
