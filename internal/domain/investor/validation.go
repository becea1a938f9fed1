package investor

import (
	"fmt"
	"regexp"
)

var (
	usernamePattern = regexp.MustCompile(`^[0-9]{4}$`)
	passwordPattern = regexp.MustCompile(`^[0-9a-z]{6}$`)
)

// ValidateCredentials checks the login form shape: a 4-digit account and a
// 6-character lowercase alphanumeric password.
func ValidateCredentials(username, password string) error {
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: 账号必须是4位数字", ErrInvalidInput)
	}
	if !passwordPattern.MatchString(password) {
		return fmt.Errorf("%w: 密码必须是6位数字和小写字母", ErrInvalidInput)
	}
	return nil
}
