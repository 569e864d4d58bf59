package dial

import "errors"

// ErrInvalidConfiguration is returned when a call would introduce a bad
// scale or dimension. The controller state is left untouched.
var ErrInvalidConfiguration = errors.New("invalid configuration")
