// Package ledger validates investments against the current ranking and the
// investor's budget.
package ledger

import (
	"math"
	"time"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/stage"
)

// Request is the input to ValidateAndApply. Projects must come from the
// ranking engine for Stage.
type Request struct {
	Stage     stage.Stage
	// Closed is set when the API reports investing closed, which it may do
	// before the investment stage ends.
	Closed    bool
	Investor  *investor.Investor
	Projects  []project.Project
	ProjectID int64
	Amount    float64
	Now       time.Time
}

// Result holds the updated copies of the investor and project.
type Result struct {
	Investor investor.Investor
	Project  project.Project
	Amount   int64
}

// maxAmount is the largest whole number a float64 holds exactly.
const maxAmount = 1 << 53

// ParseAmount accepts only positive finite whole numbers.
func ParseAmount(v float64) (int64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 || v != math.Trunc(v) || v > maxAmount {
		return 0, ErrInvalidAmount
	}
	return int64(v), nil
}

// Validate runs every precondition in order and returns the resolved
// project and amount.
func Validate(req Request) (project.Project, int64, error) {
	if !req.Stage.CanInvest() || req.Closed {
		return project.Project{}, 0, ErrPhaseNotInvestable
	}
	if req.Investor == nil {
		return project.Project{}, 0, ErrNotAuthenticated
	}
	target, ok := project.Find(req.Projects, req.ProjectID)
	if !ok {
		return project.Project{}, 0, ErrProjectNotFound
	}
	if !target.Qualified {
		return project.Project{}, 0, ErrNotQualified
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return project.Project{}, 0, err
	}
	if amount > req.Investor.RemainingAmount {
		return project.Project{}, 0, ErrInsufficientBudget
	}
	return target, amount, nil
}

// ValidateAndApply checks the request and returns the investor debited and
// the project credited, both with a matching history entry. The inputs are
// never modified, so a rejected request leaves the caller's state intact.
func ValidateAndApply(req Request) (*Result, error) {
	target, amount, err := Validate(req)
	if err != nil {
		return nil, err
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	inv := req.Investor.Clone()
	inv.RemainingAmount -= amount
	inv.InvestedAmount += amount
	inv.InvestmentHistory = append(inv.InvestmentHistory, investor.History{
		Time:        now,
		ProjectID:   target.ID,
		ProjectName: target.Name,
		TeamName:    target.TeamName,
		TeamNumber:  target.TeamNumber,
		Amount:      amount,
	})

	proj := target.Clone()
	proj.Investment += amount
	proj.InvestmentRecords = append(proj.InvestmentRecords, project.InvestmentRecord{
		InvestorName:  inv.Name,
		Title:         inv.Title,
		Avatar:        inv.Avatar,
		Amount:        amount,
		InitialAmount: inv.InitialAmount,
	})

	return &Result{Investor: inv, Project: proj, Amount: amount}, nil
}
