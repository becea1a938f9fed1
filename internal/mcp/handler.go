package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/hackvote/internal/domain/ledger"
	"github.com/rpggio/hackvote/internal/domain/session"
)

// Handler dispatches MCP tool calls to the caller's session.
type Handler struct {
	sessions *session.Registry
}

// NewHandler creates a new MCP handler.
func NewHandler(sessions *session.Registry) *Handler {
	return &Handler{sessions: sessions}
}

// Handle dispatches a tool call for the client identified by sessionID.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	sess := h.sessions.Get(sessionID)

	switch method {
	case "get_stage":
		var req RefreshParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := ensureLoaded(ctx, sess, req.Refresh); err != nil {
			return nil, mapError(err)
		}
		snap := sess.Snapshot()
		return StageResponse{Stage: snap.Stage, Status: snap.Status}, nil
	case "list_projects":
		var req RefreshParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := ensureLoaded(ctx, sess, req.Refresh); err != nil {
			return nil, mapError(err)
		}
		return BoardResponse{
			Board:       sess.Board(),
			Status:      sess.Snapshot().Status,
			InvestorSet: sess.Investor() != nil,
		}, nil
	case "get_project":
		var req GetProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := ensureLoaded(ctx, sess, false); err != nil {
			return nil, mapError(err)
		}
		p, err := sess.Project(req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		resp := ProjectResponse{Project: *p, CanInvest: true}
		if reason := investBlocked(sess, req.ID); reason != nil {
			resp.CanInvest = false
			resp.InvestBlocked = reason.Message
		}
		return resp, nil
	case "login":
		var req LoginParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		inv, err := sess.Login(ctx, req.Username, req.Password)
		if err != nil {
			return nil, mapError(err)
		}
		if err := ensureLoaded(ctx, sess, false); err != nil {
			return nil, mapError(err)
		}
		return InvestorResponse{Investor: inv}, nil
	case "logout":
		sess.Logout()
		return LogoutResponse{LoggedOut: true}, nil
	case "get_investor":
		var req RefreshParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Refresh {
			inv, err := sess.RefreshInvestor(ctx)
			if err != nil {
				return nil, mapError(err)
			}
			return InvestorResponse{Investor: inv}, nil
		}
		inv := sess.Investor()
		if inv == nil {
			return nil, mapError(session.ErrNotLoggedIn)
		}
		return InvestorResponse{Investor: inv}, nil
	case "invest":
		var req InvestParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := ensureLoaded(ctx, sess, false); err != nil {
			return nil, mapError(err)
		}
		outcome, err := sess.Invest(ctx, req.ProjectID, req.Amount)
		if err != nil {
			return nil, mapError(err)
		}
		return InvestResponse{InvestOutcome: outcome}, nil
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

// ensureLoaded refreshes on first use or when asked.
func ensureLoaded(ctx context.Context, sess *session.Session, force bool) error {
	if !force && sess.Snapshot().Status != session.StatusEmpty {
		return nil
	}
	return sess.Refresh(ctx)
}

// investBlocked reports why the project cannot take the smallest possible
// investment right now, if anything blocks it.
func investBlocked(sess *session.Session, projectID int64) *ledger.ValidationError {
	snap := sess.Snapshot()
	_, _, err := ledger.Validate(ledger.Request{
		Stage:     snap.Stage.Code,
		Closed:    !snap.Stage.CanInvest,
		Investor:  snap.Investor,
		Projects:  snap.Projects,
		ProjectID: projectID,
		Amount:    1,
	})
	if err == nil {
		return nil
	}
	verr, _ := err.(*ledger.ValidationError)
	return verr
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return mapError(fmt.Errorf("%w: %v", ErrInvalidParams, err))
	}
	return nil
}
