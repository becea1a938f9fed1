package sqlite

import "strings"

// modernc.org/sqlite reports constraint failures only through the message
// text, so classification matches on the SQLite wording.
const (
	msgForeignKey = "FOREIGN KEY constraint failed"
	msgUnique     = "UNIQUE constraint failed"
	msgCheck      = "CHECK constraint failed"
)

func constraintFailed(err error, msg string) bool {
	return err != nil && strings.Contains(err.Error(), msg)
}

func isForeignKeyViolation(err error) bool { return constraintFailed(err, msgForeignKey) }

func isUniqueViolation(err error) bool { return constraintFailed(err, msgUnique) }

// isCheckViolation covers the budget bounds on investors.
func isCheckViolation(err error) bool { return constraintFailed(err, msgCheck) }
