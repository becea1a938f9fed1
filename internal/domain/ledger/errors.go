package ledger

import "errors"

// Kind classifies a failed investment precondition.
type Kind string

const (
	KindPhaseNotInvestable Kind = "PhaseNotInvestable"
	KindNotAuthenticated   Kind = "NotAuthenticated"
	KindProjectNotFound    Kind = "ProjectNotFound"
	KindNotQualified       Kind = "NotQualified"
	KindInvalidAmount      Kind = "InvalidAmount"
	KindInsufficientBudget Kind = "InsufficientBudget"
)

var (
	// ErrPhaseNotInvestable indicates the current stage does not accept investments.
	ErrPhaseNotInvestable = &ValidationError{Kind: KindPhaseNotInvestable, Message: "当前阶段不可投资，请见大赛规则"}
	// ErrNotAuthenticated indicates there is no investor session.
	ErrNotAuthenticated = &ValidationError{Kind: KindNotAuthenticated, Message: "请先登录投资人账号"}
	// ErrProjectNotFound indicates the project id does not resolve.
	ErrProjectNotFound = &ValidationError{Kind: KindProjectNotFound, Message: "项目不存在"}
	// ErrNotQualified indicates the project is outside the qualified set.
	ErrNotQualified = &ValidationError{Kind: KindNotQualified, Message: "只能投资晋级的前15名作品"}
	// ErrInvalidAmount indicates the amount is not a positive whole number.
	ErrInvalidAmount = &ValidationError{Kind: KindInvalidAmount, Message: "投资金额必须为正整数"}
	// ErrInsufficientBudget indicates the amount exceeds the remaining budget.
	ErrInsufficientBudget = &ValidationError{Kind: KindInsufficientBudget, Message: "投资金额超过剩余额度！"}
)

// ValidationError is a locally recoverable rejection. No state changes when
// one is returned.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// KindOf returns the validation kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return "", false
}
