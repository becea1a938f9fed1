package session

import (
	"context"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/rpggio/hackvote/internal/transport"
)

// API is the remote contest API the session reads from and submits to.
type API interface {
	Stage(ctx context.Context) (stage.Info, error)
	Projects(ctx context.Context) ([]project.Project, error)
	Login(ctx context.Context, username, password string) (*investor.Investor, error)
	Investor(ctx context.Context, username string) (*investor.Investor, error)
	Invest(ctx context.Context, req transport.InvestRequest) (string, error)
}
