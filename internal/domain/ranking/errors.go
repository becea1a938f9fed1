package ranking

import "errors"

// ErrRankMismatch indicates supplied ranks differ from the local computation.
var ErrRankMismatch = errors.New("rank mismatch")
