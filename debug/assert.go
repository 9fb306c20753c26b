//go:build debug

package debug

// Enabled gates assertions that need setup code of their own. Wrap anything
// beyond a plain condition in `if debug.Enabled { ... }` so release builds
// drop it completely.
const Enabled = true

func Assert(b bool, message string) {
	if !b {
		panic(message)
	}
}

func AssertErrNil(err error) {
	if err != nil {
		panic(err)
	}
}
