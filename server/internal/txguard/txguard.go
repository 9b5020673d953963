// Package txguard recovers from panics inside callbacks invoked across the
// Go/script boundary, so that a bug in a single Lua-triggered callback
// can't take down the whole tick loop.
package txguard

import "fmt"

// Run executes fn, recovering any panic and returning it as an error
// instead. A nil error means fn returned normally.
func Run(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}

// Value executes fn, recovering any panic and returning it as an error
// instead of the zero value of T.
func Value[T any](fn func() T) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(), nil
}
