// Package session owns the cached contest state of one client: the stage,
// the ranked project list and the logged-in investor.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/ledger"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/ranking"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/rpggio/hackvote/internal/metrics"
	"github.com/rpggio/hackvote/internal/transport"
	"golang.org/x/sync/errgroup"
)

// Options configures a Session. Zero values are usable.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Now     func() time.Time
}

// Session is the only owner of the mutable cached state. Readers get
// copies; writers replace the snapshot wholesale.
type Session struct {
	api     API
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
	guard   ledger.Guard

	mu   sync.RWMutex
	snap Snapshot
}

// New creates an empty session over api.
func New(api API, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		api:     api,
		logger:  logger,
		metrics: opts.Metrics,
		now:     now,
		snap: Snapshot{
			Stage:    stage.Selection.Info(),
			Projects: []project.Project{},
			Status:   StatusEmpty,
		},
	}
}

// Snapshot returns a copy of the cached state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.clone()
}

// Stage returns the cached stage.
func (s *Session) Stage() stage.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Stage
}

// Investor returns the logged-in investor, or nil.
func (s *Session) Investor() *investor.Investor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.Investor == nil {
		return nil
	}
	inv := s.snap.Investor.Clone()
	return &inv
}

// Board partitions the cached ranking for display.
func (s *Session) Board() ranking.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ranking.Partition(s.snap.Stage.Code, s.snap.Projects)
}

// Project looks up a project in the cached ranking.
func (s *Session) Project(id int64) (*project.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := project.Find(s.snap.Projects, id)
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return &p, nil
}

// InFlight reports whether an investment submission is pending.
func (s *Session) InFlight() bool {
	return s.guard.InFlight()
}

type remoteState struct {
	stage    stage.Info
	projects []project.Project
	investor *investor.Investor
}

// fetch loads stage, projects and, when username is set, the investor
// concurrently.
func (s *Session) fetch(ctx context.Context, username string) (*remoteState, error) {
	var st remoteState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := s.api.Stage(gctx)
		if err != nil {
			return fmt.Errorf("fetch stage: %w", err)
		}
		st.stage = info
		return nil
	})
	g.Go(func() error {
		projects, err := s.api.Projects(gctx)
		if err != nil {
			return fmt.Errorf("fetch projects: %w", err)
		}
		st.projects = projects
		return nil
	})
	if username != "" {
		g.Go(func() error {
			inv, err := s.api.Investor(gctx, username)
			if err != nil {
				return fmt.Errorf("fetch investor: %w", err)
			}
			st.investor = inv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}

// rank recomputes the ranking locally and compares it with the ranks the
// server supplied.
func (s *Session) rank(st stage.Stage, supplied []project.Project) []project.Project {
	if hasServerRanks(supplied) {
		if err := ranking.Verify(st, supplied); err != nil {
			s.logger.Warn("server ranking disagrees with local ranking", "stage", st, "error", err)
		}
	}
	s.metrics.Ranking(string(st))
	return ranking.Rank(st, supplied)
}

func hasServerRanks(projects []project.Project) bool {
	for _, p := range projects {
		if p.Rank != 0 {
			return true
		}
	}
	return false
}

func (s *Session) username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.Investor == nil {
		return ""
	}
	return s.snap.Investor.Username
}

// Refresh reloads the state from the API. On failure the previous snapshot
// is kept and the error returned.
func (s *Session) Refresh(ctx context.Context) error {
	username := s.username()
	st, err := s.fetch(ctx, username)
	if err != nil {
		s.logger.Warn("refresh failed, keeping cached state", "error", err)
		return err
	}
	s.store(st, username)
	return nil
}

func (s *Session) store(st *remoteState, username string) {
	code := stage.FromCode(string(st.stage.Code))
	ranked := s.rank(code, st.projects)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Stage = st.stage
	s.snap.Stage.Code = code
	s.snap.Projects = ranked
	// A logout during the fetch wins over the fetched investor.
	if st.investor != nil && s.snap.Investor != nil && s.snap.Investor.Username == username {
		s.snap.Investor = st.investor
	}
	s.snap.Status = StatusActive
	s.snap.RefreshedAt = s.now()
}

// Login authenticates the investor. The cached investor is replaced only
// on success.
func (s *Session) Login(ctx context.Context, username, password string) (*investor.Investor, error) {
	if err := investor.ValidateCredentials(username, password); err != nil {
		return nil, err
	}
	inv, err := s.api.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.snap.Investor = inv
	s.mu.Unlock()

	s.logger.Info("investor logged in", "username", inv.Username)
	out := inv.Clone()
	return &out, nil
}

// Logout forgets the investor.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Investor = nil
}

// RefreshInvestor reloads the logged-in investor.
func (s *Session) RefreshInvestor(ctx context.Context) (*investor.Investor, error) {
	username := s.username()
	if username == "" {
		return nil, ErrNotLoggedIn
	}
	inv, err := s.api.Investor(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("refresh investor: %w", err)
	}

	s.mu.Lock()
	if s.snap.Investor != nil && s.snap.Investor.Username == username {
		s.snap.Investor = inv
	}
	s.mu.Unlock()

	out := inv.Clone()
	return &out, nil
}

// Invest validates the request against the cached state, submits it and
// refreshes from the API. A rejected or failed submission leaves the cached
// state unchanged. A second call while one is in flight is suppressed.
func (s *Session) Invest(ctx context.Context, projectID int64, amount float64) (*InvestOutcome, error) {
	snap := s.Snapshot()
	result, err := ledger.ValidateAndApply(ledger.Request{
		Stage:     snap.Stage.Code,
		Closed:    !snap.Stage.CanInvest,
		Investor:  snap.Investor,
		Projects:  snap.Projects,
		ProjectID: projectID,
		Amount:    amount,
		Now:       s.now(),
	})
	if err != nil {
		if kind, ok := ledger.KindOf(err); ok {
			s.metrics.Submission(string(kind))
		}
		return nil, err
	}

	token, ok := s.guard.Acquire()
	if !ok {
		s.metrics.Submission(metrics.OutcomeSuppressed)
		s.logger.Info("investment suppressed, submission already in flight", "project_id", projectID)
		return &InvestOutcome{Suppressed: true}, nil
	}
	defer s.guard.Release(token)

	username := snap.Investor.Username
	msg, err := s.api.Invest(ctx, transport.InvestRequest{
		InvestorUsername: username,
		InvestorName:     snap.Investor.Name,
		ProjectID:        projectID,
		ProjectName:      result.Project.Name,
		Amount:           result.Amount,
	})
	if err != nil {
		s.recordFailure(err)
		s.logger.Warn("investment failed", "project_id", projectID, "amount", result.Amount, "error", err)
		return nil, fmt.Errorf("invest: %w", err)
	}
	s.metrics.Submission(metrics.OutcomeAccepted)
	s.logger.Info("investment accepted", "username", username, "project_id", projectID, "amount", result.Amount)

	outcome := &InvestOutcome{Message: msg, Amount: result.Amount}
	st, err := s.fetch(ctx, username)
	if err != nil {
		s.logger.Warn("refresh after investment failed, applying local result", "error", err)
		s.applyLocal(result)
		outcome.Stale = true
	} else {
		s.store(st, username)
	}

	outcome.Investor = s.Investor()
	if p, err := s.Project(projectID); err == nil {
		outcome.Project = p
	} else {
		p := result.Project.Clone()
		outcome.Project = &p
	}
	return outcome, nil
}

func (s *Session) recordFailure(err error) {
	if _, ok := transport.AsApplicationFailure(err); ok {
		s.metrics.Submission(metrics.OutcomeApplicationFailure)
		return
	}
	s.metrics.Submission(metrics.OutcomeTransportFailure)
}

// applyLocal folds an accepted ledger result into the snapshot and re-ranks.
func (s *Session) applyLocal(result *ledger.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := project.CloneAll(s.snap.Projects)
	for i := range projects {
		if projects[i].ID == result.Project.ID {
			projects[i] = result.Project.Clone()
		}
	}
	s.snap.Projects = ranking.Rank(s.snap.Stage.Code, projects)
	s.metrics.Ranking(string(s.snap.Stage.Code))

	if s.snap.Investor != nil && s.snap.Investor.Username == result.Investor.Username {
		inv := result.Investor.Clone()
		s.snap.Investor = &inv
	}
	s.snap.Status = StatusStale
}

// IsRejection reports whether err is a local validation rejection.
func IsRejection(err error) bool {
	var verr *ledger.ValidationError
	return errors.As(err, &verr)
}
