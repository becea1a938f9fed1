package repository

import (
	"context"
	"time"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/project"
)

// ProjectRepository manages project persistence
type ProjectRepository interface {
	Create(ctx context.Context, proj *project.Project) error
	Get(ctx context.Context, id int64) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	AddUV(ctx context.Context, id, delta int64) error
}

// InvestorRepository manages investor accounts
type InvestorRepository interface {
	Create(ctx context.Context, inv *investor.Investor, password string) error
	GetByUsername(ctx context.Context, username string) (*investor.Investor, error)
	Authenticate(ctx context.Context, username, password string) (*investor.Investor, error)
}

// InvestmentRepository records investments
type InvestmentRepository interface {
	// Invest debits the investor and credits the project atomically.
	Invest(ctx context.Context, username string, projectID, amount int64, at time.Time) error
}
