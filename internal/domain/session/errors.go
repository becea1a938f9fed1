package session

import "errors"

// ErrNotLoggedIn indicates an investor operation without a login.
var ErrNotLoggedIn = errors.New("investor not logged in")
