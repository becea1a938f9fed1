package stage

import "errors"

// ErrInvalidTime indicates a timeline value that cannot be parsed.
var ErrInvalidTime = errors.New("invalid stage time")
