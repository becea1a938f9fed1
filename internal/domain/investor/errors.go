package investor

import "errors"

var (
	// ErrInvestorNotFound indicates the investor doesn't exist.
	ErrInvestorNotFound = errors.New("investor not found")
	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidInput indicates a malformed login form.
	ErrInvalidInput = errors.New("invalid investor input")
	// ErrBudgetViolated indicates the budget invariant no longer holds.
	ErrBudgetViolated = errors.New("investor budget invariant violated")
)
