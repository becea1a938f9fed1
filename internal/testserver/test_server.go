package testserver

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/rpggio/hackvote/internal/sqlite"
	"github.com/rpggio/hackvote/internal/transport"
	"github.com/stretchr/testify/require"
)

// Password is the password of every seeded investor.
const Password = "abc123"

// ProjectCount is the number of seeded projects. Project i has id i, team
// number "%03d" and uv 1000-10*i, so project 16 is the only one outside the
// qualified set.
const ProjectCount = 16

// Seeded investors and their budgets.
var Investors = map[string]int64{
	"1001": 100,
	"1002": 30,
}

// Schedule is the contest timeline used when no stage is forced.
var Schedule = map[string][2]string{
	"selection":  {"2025-10-24 24:00:00", "2025-11-07 12:00:00"},
	"lock":       {"2025-11-07 12:00:00", "2025-11-14 00:00:00"},
	"investment": {"2025-11-14 00:00:00", "2025-11-14 18:00:00"},
}

// TestServer is an httptest server speaking the contest API over SQLite.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Timeline *stage.Timeline

	mu       sync.Mutex
	override string
	now      time.Time
}

// New starts a seeded server. The stage follows Schedule at the current
// time until SetStage or SetNow is called.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	timeline, err := stage.NewTimeline(Schedule, time.UTC)
	require.NoError(t, err)

	ts := &TestServer{DB: db, Timeline: timeline}
	require.NoError(t, ts.seed(context.Background()))

	backend := sqlite.NewBackend(db, ts.Stage)
	ts.Server = httptest.NewServer(transport.NewServer(backend, nil))

	t.Cleanup(func() {
		ts.Server.Close()
		_ = db.Close()
	})

	return ts
}

// URL is the base URL of the server.
func (ts *TestServer) URL() string {
	return ts.Server.URL
}

// SetStage forces the stage regardless of the clock.
func (ts *TestServer) SetStage(s stage.Stage) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.override = string(s)
}

// SetNow clears any forced stage and resolves the stage at now.
func (ts *TestServer) SetNow(now time.Time) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.override = ""
	ts.now = now
}

// Stage returns the stage the server currently reports.
func (ts *TestServer) Stage() stage.Stage {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	now := ts.now
	if now.IsZero() {
		now = time.Now()
	}
	return ts.Timeline.Resolve(now, ts.override)
}

// AddUV bumps a project's visitor count.
func (ts *TestServer) AddUV(t *testing.T, projectID, delta int64) {
	t.Helper()
	require.NoError(t, sqlite.NewProjectRepository(ts.DB).AddUV(context.Background(), projectID, delta))
}

func (ts *TestServer) seed(ctx context.Context) error {
	projects := sqlite.NewProjectRepository(ts.DB)
	for i := int64(1); i <= ProjectCount; i++ {
		p := &project.Project{
			ID:         i,
			Name:       fmt.Sprintf("Project %d", i),
			TeamName:   fmt.Sprintf("Team %d", i),
			TeamNumber: fmt.Sprintf("%03d", i),
			UV:         1000 - 10*i,
		}
		if err := projects.Create(ctx, p); err != nil {
			return fmt.Errorf("seed project %d: %w", i, err)
		}
	}

	investors := sqlite.NewInvestorRepository(ts.DB)
	for username, budget := range Investors {
		inv := &investor.Investor{
			Username:      username,
			Name:          "Investor " + username,
			Title:         "Partner",
			InitialAmount: budget,
		}
		if err := investors.Create(ctx, inv, Password); err != nil {
			return fmt.Errorf("seed investor %s: %w", username, err)
		}
	}
	return nil
}
