package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/ledger"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/ranking"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/rpggio/hackvote/internal/repository"
	"github.com/rpggio/hackvote/internal/transport"
)

// Backend serves the contest API from SQLite. Ranks are computed per
// request for the current stage.
type Backend struct {
	projects    repository.ProjectRepository
	investors   repository.InvestorRepository
	investments repository.InvestmentRepository
	stageOf     func() stage.Stage
	now         func() time.Time
}

var _ transport.Backend = (*Backend)(nil)

// NewBackend creates a Backend over db. stageOf reports the current stage.
func NewBackend(db *DB, stageOf func() stage.Stage) *Backend {
	return &Backend{
		projects:    NewProjectRepository(db),
		investors:   NewInvestorRepository(db),
		investments: NewInvestmentRepository(db),
		stageOf:     stageOf,
		now:         time.Now,
	}
}

// Stage returns the display info of the current stage.
func (b *Backend) Stage(context.Context) (stage.Info, error) {
	return b.stageOf().Info(), nil
}

// Projects returns every project ranked for the current stage.
func (b *Backend) Projects(ctx context.Context) ([]project.Project, error) {
	list, err := b.projects.List(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.Rank(b.stageOf(), list), nil
}

// Project returns one ranked project.
func (b *Backend) Project(ctx context.Context, id int64) (*project.Project, error) {
	ranked, err := b.Projects(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := project.Find(ranked, id)
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	full, err := b.projects.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	p.InvestmentRecords = full.InvestmentRecords
	return &p, nil
}

// Login checks the investor's credentials.
func (b *Backend) Login(ctx context.Context, username, password string) (*investor.Investor, error) {
	inv, err := b.investors.Authenticate(ctx, username, password)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, investor.ErrInvalidCredentials
	}
	return inv, err
}

// Investor returns the investor's current budget and history.
func (b *Backend) Investor(ctx context.Context, username string) (*investor.Investor, error) {
	inv, err := b.investors.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, investor.ErrInvestorNotFound
	}
	return inv, err
}

// Invest applies the same rules as the client ledger, then stores the
// investment atomically.
func (b *Backend) Invest(ctx context.Context, req transport.InvestRequest) error {
	st := b.stageOf()
	if !st.CanInvest() {
		return ledger.ErrPhaseNotInvestable
	}
	if _, err := b.Investor(ctx, req.InvestorUsername); err != nil {
		return err
	}
	ranked, err := b.Projects(ctx)
	if err != nil {
		return err
	}
	target, ok := project.Find(ranked, req.ProjectID)
	if !ok {
		return project.ErrProjectNotFound
	}
	if !target.Qualified {
		return ledger.ErrNotQualified
	}
	if req.Amount <= 0 {
		return ledger.ErrInvalidAmount
	}

	err = b.investments.Invest(ctx, req.InvestorUsername, req.ProjectID, req.Amount, b.now())
	switch {
	case errors.Is(err, repository.ErrInsufficientBudget):
		return ledger.ErrInsufficientBudget
	case errors.Is(err, repository.ErrNotFound):
		return investor.ErrInvestorNotFound
	}
	return err
}
