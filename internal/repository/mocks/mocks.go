package mocks

import (
	"context"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/rpggio/hackvote/internal/transport"
	"github.com/stretchr/testify/mock"
)

// API is a mock for session.API.
type API struct {
	mock.Mock
}

func (m *API) Stage(ctx context.Context) (stage.Info, error) {
	args := m.Called(ctx)
	return args.Get(0).(stage.Info), args.Error(1)
}

func (m *API) Projects(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return project.CloneAll(list), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) Login(ctx context.Context, username, password string) (*investor.Investor, error) {
	args := m.Called(ctx, username, password)
	if inv, ok := args.Get(0).(*investor.Investor); ok {
		out := inv.Clone()
		return &out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) Investor(ctx context.Context, username string) (*investor.Investor, error) {
	args := m.Called(ctx, username)
	if inv, ok := args.Get(0).(*investor.Investor); ok {
		out := inv.Clone()
		return &out, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *API) Invest(ctx context.Context, req transport.InvestRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
