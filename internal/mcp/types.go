package mcp

import (
	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/ranking"
	"github.com/rpggio/hackvote/internal/domain/session"
	"github.com/rpggio/hackvote/internal/domain/stage"
)

type RefreshParams struct {
	Refresh bool `json:"refresh,omitempty"`
}

type GetProjectParams struct {
	ID int64 `json:"id"`
}

type LoginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type InvestParams struct {
	ProjectID int64   `json:"project_id"`
	Amount    float64 `json:"amount"`
}

type StageResponse struct {
	Stage  stage.Info     `json:"stage"`
	Status session.Status `json:"status"`
}

type BoardResponse struct {
	ranking.Board
	Status      session.Status `json:"status"`
	InvestorSet bool           `json:"logged_in"`
}

type ProjectResponse struct {
	Project       project.Project `json:"project"`
	CanInvest     bool            `json:"can_invest"`
	InvestBlocked string          `json:"invest_blocked,omitempty"`
}

type InvestorResponse struct {
	Investor *investor.Investor `json:"investor"`
}

type InvestResponse struct {
	*session.InvestOutcome
}

type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}
