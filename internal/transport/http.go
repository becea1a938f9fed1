package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/ledger"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/stage"
)

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// InvestRequest is the body of POST /invest.
type InvestRequest struct {
	InvestorUsername string `json:"investorUsername"`
	InvestorName     string `json:"investorName,omitempty"`
	ProjectID        int64  `json:"projectId"`
	ProjectName      string `json:"projectName,omitempty"`
	Amount           int64  `json:"amount"`
}

// Backend is the system of record behind the envelope API.
type Backend interface {
	Stage(ctx context.Context) (stage.Info, error)
	Projects(ctx context.Context) ([]project.Project, error)
	Project(ctx context.Context, id int64) (*project.Project, error)
	Login(ctx context.Context, username, password string) (*investor.Investor, error)
	Investor(ctx context.Context, username string) (*investor.Investor, error)
	Invest(ctx context.Context, req InvestRequest) error
}

// Server wires envelope HTTP handlers onto a Backend.
type Server struct {
	backend Backend
	logger  *slog.Logger
}

// NewServer creates the envelope API router.
func NewServer(backend Backend, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{backend: backend, logger: logger}

	r.Get("/stage", srv.handleStage)
	r.Get("/projects", srv.handleProjects)
	r.Get("/projects/{id}", srv.handleProject)
	r.Post("/login", srv.handleLogin)
	r.Get("/investor/{username}", srv.handleInvestor)
	r.Post("/invest", srv.handleInvest)
	r.Get("/health", srv.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteOK(w, "", "ok")
}

func (s *Server) handleStage(w http.ResponseWriter, r *http.Request) {
	info, err := s.backend.Stage(r.Context())
	if err != nil {
		s.fail(w, err, "获取比赛阶段失败")
		return
	}
	WriteOK(w, "", info)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.backend.Projects(r.Context())
	if err != nil {
		s.fail(w, err, "获取项目列表失败")
		return
	}
	WriteOK(w, "", projects)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		WriteFail(w, CodeBadRequest, "无效的项目ID")
		return
	}
	proj, err := s.backend.Project(r.Context(), id)
	if err != nil {
		s.fail(w, err, "获取项目详情失败")
		return
	}
	WriteOK(w, "", proj)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFail(w, CodeBadRequest, "invalid request")
		return
	}
	if err := investor.ValidateCredentials(req.Username, req.Password); err != nil {
		s.fail(w, err, "登录失败")
		return
	}
	inv, err := s.backend.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, err, "登录失败")
		return
	}
	WriteOK(w, "登录成功", inv)
}

func (s *Server) handleInvestor(w http.ResponseWriter, r *http.Request) {
	inv, err := s.backend.Investor(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.fail(w, err, "获取投资人信息失败")
		return
	}
	WriteOK(w, "", inv)
}

func (s *Server) handleInvest(w http.ResponseWriter, r *http.Request) {
	var req InvestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteFail(w, CodeBadRequest, "invalid request")
		return
	}
	if req.InvestorUsername == "" || req.ProjectID <= 0 {
		WriteFail(w, CodeBadRequest, "投资人账号和项目ID不能为空")
		return
	}
	if req.Amount < 1 {
		WriteFail(w, CodeBadRequest, "投资金额必须大于0")
		return
	}
	if err := s.backend.Invest(r.Context(), req); err != nil {
		s.fail(w, err, "投资失败")
		return
	}
	WriteOK(w, "投资成功", fmt.Sprintf("投资 %d 万元", req.Amount))
}

// fail maps backend errors onto envelope codes. Unknown errors are logged
// and reported with the generic fallback message.
func (s *Server) fail(w http.ResponseWriter, err error, fallback string) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteFail(w, CodeBadRequest, verr.Message)
	case errors.Is(err, investor.ErrInvalidInput):
		WriteFail(w, CodeBadRequest, err.Error())
	case errors.Is(err, investor.ErrInvalidCredentials):
		WriteFail(w, CodeUnauthorized, "账号或密码错误")
	case errors.Is(err, investor.ErrInvestorNotFound):
		WriteFail(w, CodeNotFound, "投资人不存在")
	case errors.Is(err, project.ErrProjectNotFound):
		WriteFail(w, CodeNotFound, "项目不存在")
	default:
		if s.logger != nil {
			s.logger.Error("backend call failed", "error", err)
		}
		WriteFail(w, CodeInternal, fallback)
	}
}
