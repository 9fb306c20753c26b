//go:build !debug

// Package debug provides assertions, compiled in with the debug build tag
// and compiled to no-ops without it.
//
// Fifo index bookkeeping and bus addressing fail silently when they go
// wrong: the engine reads stale or foreign memory and the display is merely
// off. Assertions turn those into panics in development builds at no cost
// to release builds.
package debug

// Enabled gates assertions that need setup code of their own. Wrap anything
// beyond a plain condition in `if debug.Enabled { ... }` so release builds
// drop it completely.
const Enabled = false

// Assert panics with message if b is false.
func Assert(b bool, message string) {}

// AssertErrNil panics if err is not nil.
func AssertErrNil(err error) {}
