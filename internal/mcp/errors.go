package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/ledger"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/session"
	"github.com/rpggio/hackvote/internal/transport"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var ledgerCodes = map[ledger.Kind]struct {
	code string
	hint string
}{
	ledger.KindPhaseNotInvestable: {"PHASE_NOT_INVESTABLE", "Investments open only during the investment stage; call get_stage"},
	ledger.KindNotAuthenticated:   {"NOT_AUTHENTICATED", "Call login first"},
	ledger.KindProjectNotFound:    {"PROJECT_NOT_FOUND", "Check the id with list_projects"},
	ledger.KindNotQualified:       {"NOT_QUALIFIED", "Only projects in the qualified list accept investment"},
	ledger.KindInvalidAmount:      {"INVALID_AMOUNT", "Use a positive whole number"},
	ledger.KindInsufficientBudget: {"INSUFFICIENT_BUDGET", "Check remainingAmount with get_investor"},
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		c := ledgerCodes[verr.Kind]
		return &APIError{Code: c.code, Message: verr.Message, RecoveryHint: c.hint}
	}
	if af, ok := transport.AsApplicationFailure(err); ok {
		return &APIError{
			Code:         "API_ERROR",
			Message:      af.Message,
			Details:      map[string]int{"code": af.Code},
			RecoveryHint: "The contest API rejected the request; refresh and check the message",
		}
	}

	switch {
	case transport.IsTransportFailure(err):
		return &APIError{Code: "TRANSPORT_FAILURE", Message: err.Error(), RecoveryHint: "Nothing is retried automatically; check state with get_investor before retrying"}
	case errors.Is(err, session.ErrNotLoggedIn):
		return &APIError{Code: "NOT_AUTHENTICATED", Message: "investor not logged in", RecoveryHint: "Call login first"}
	case errors.Is(err, investor.ErrInvalidInput):
		return &APIError{Code: "INVALID_CREDENTIALS", Message: err.Error(), RecoveryHint: "Username is 4 digits, password is 6 lowercase letters or digits"}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the id with list_projects"}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error()}
	default:
		return nil
	}
}

// ErrInvalidParams indicates tool arguments that do not decode.
var ErrInvalidParams = errors.New("invalid params")

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
