package investor

import (
	"fmt"
	"time"
)

// Investor is an authenticated participant allocating a virtual budget.
type Investor struct {
	ID                int64     `json:"id,omitempty"`
	Username          string    `json:"username"`
	Name              string    `json:"name"`
	Title             string    `json:"title,omitempty"`
	Avatar            string    `json:"avatar,omitempty"`
	InitialAmount     int64     `json:"initialAmount"`
	RemainingAmount   int64     `json:"remainingAmount"`
	InvestedAmount    int64     `json:"investedAmount"`
	InvestmentHistory []History `json:"investmentHistory"`
}

// History is one investment from the investor's point of view.
type History struct {
	Time        time.Time `json:"time"`
	ProjectID   int64     `json:"projectId"`
	ProjectName string    `json:"projectName,omitempty"`
	TeamName    string    `json:"teamName,omitempty"`
	TeamNumber  string    `json:"teamNumber,omitempty"`
	Amount      int64     `json:"amount"`
}

// Clone returns a copy that shares no slices with inv.
func (inv Investor) Clone() Investor {
	out := inv
	if inv.InvestmentHistory != nil {
		out.InvestmentHistory = append([]History(nil), inv.InvestmentHistory...)
	}
	return out
}

// Spent sums the amounts in the investment history.
func (inv Investor) Spent() int64 {
	var total int64
	for _, h := range inv.InvestmentHistory {
		total += h.Amount
	}
	return total
}

// CheckBudget verifies 0 <= remaining <= initial and that the history
// accounts for every debit.
func (inv Investor) CheckBudget() error {
	if inv.RemainingAmount < 0 || inv.RemainingAmount > inv.InitialAmount {
		return fmt.Errorf("%w: remaining %d outside [0, %d]", ErrBudgetViolated, inv.RemainingAmount, inv.InitialAmount)
	}
	if spent := inv.Spent(); inv.InitialAmount-inv.RemainingAmount != spent {
		return fmt.Errorf("%w: debited %d but history sums to %d", ErrBudgetViolated, inv.InitialAmount-inv.RemainingAmount, spent)
	}
	return nil
}
