package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/repository"
	"github.com/stretchr/testify/require"
)

func seedInvestor(t *testing.T, db *DB, username string, budget int64) *investor.Investor {
	t.Helper()
	inv := &investor.Investor{Username: username, Name: "Investor " + username, Title: "Partner", InitialAmount: budget}
	require.NoError(t, NewInvestorRepository(db).Create(context.Background(), inv, "abc123"))
	return inv
}

func seedProject(t *testing.T, db *DB, name, team string, uv int64) *project.Project {
	t.Helper()
	p := &project.Project{Name: name, TeamName: "Team " + team, TeamNumber: team, UV: uv}
	require.NoError(t, NewProjectRepository(db).Create(context.Background(), p))
	return p
}

func TestProjectRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	p := seedProject(t, db, "Alpha", "001", 42)
	require.NotZero(t, p.ID)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "Alpha", got.Name)
	require.Equal(t, "001", got.TeamNumber)
	require.Equal(t, int64(42), got.UV)
	require.Zero(t, got.Investment)
	require.Empty(t, got.InvestmentRecords)

	_, err = repo.Get(ctx, 999)
	require.ErrorIs(t, err, repository.ErrNotFound)

	dup := &project.Project{ID: p.ID, Name: "Dup"}
	require.ErrorIs(t, repo.Create(ctx, dup), repository.ErrConflict)
}

func TestProjectRepository_AddUV(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	p := seedProject(t, db, "Alpha", "001", 1)
	require.NoError(t, repo.AddUV(ctx, p.ID, 9))

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(10), got.UV)

	require.ErrorIs(t, repo.AddUV(ctx, 999, 1), repository.ErrNotFound)
}

func TestInvestorRepository_Authenticate(t *testing.T) {
	db := NewTestDB(t)
	repo := NewInvestorRepository(db)
	ctx := context.Background()

	seedInvestor(t, db, "1001", 100)

	inv, err := repo.Authenticate(ctx, "1001", "abc123")
	require.NoError(t, err)
	require.Equal(t, int64(100), inv.RemainingAmount)
	require.Empty(t, inv.InvestmentHistory)

	_, err = repo.Authenticate(ctx, "1001", "wrong1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.GetByUsername(ctx, "9999")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, repo.Create(ctx, &investor.Investor{Username: "1001", InitialAmount: 1}, "abc123"), repository.ErrConflict)
}

func TestInvestmentRepository_Invest(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	investments := NewInvestmentRepository(db)
	investors := NewInvestorRepository(db)
	projects := NewProjectRepository(db)

	seedInvestor(t, db, "1001", 100)
	p := seedProject(t, db, "Alpha", "001", 10)
	at := time.Date(2025, 11, 14, 9, 30, 0, 0, time.UTC)

	require.NoError(t, investments.Invest(ctx, "1001", p.ID, 30, at))
	require.NoError(t, investments.Invest(ctx, "1001", p.ID, 20, at.Add(time.Minute)))

	inv, err := investors.GetByUsername(ctx, "1001")
	require.NoError(t, err)
	require.Equal(t, int64(50), inv.RemainingAmount)
	require.Equal(t, int64(50), inv.InvestedAmount)
	require.Len(t, inv.InvestmentHistory, 2)
	require.Equal(t, "Alpha", inv.InvestmentHistory[0].ProjectName)
	require.True(t, at.Equal(inv.InvestmentHistory[0].Time))
	require.NoError(t, inv.CheckBudget())

	got, err := projects.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50), got.Investment)
	require.Len(t, got.InvestmentRecords, 1)
	require.Equal(t, int64(50), got.InvestmentRecords[0].Amount)
	require.Equal(t, int64(100), got.InvestmentRecords[0].InitialAmount)
}

func TestInvestmentRepository_Rejections(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	investments := NewInvestmentRepository(db)
	investors := NewInvestorRepository(db)

	seedInvestor(t, db, "1001", 30)
	p := seedProject(t, db, "Alpha", "001", 10)
	now := time.Now()

	require.ErrorIs(t, investments.Invest(ctx, "1001", p.ID, 50, now), repository.ErrInsufficientBudget)
	require.ErrorIs(t, investments.Invest(ctx, "1001", p.ID, 0, now), repository.ErrInvalidInput)
	require.ErrorIs(t, investments.Invest(ctx, "9999", p.ID, 5, now), repository.ErrNotFound)
	require.ErrorIs(t, investments.Invest(ctx, "1001", 999, 5, now), repository.ErrNotFound)

	inv, err := investors.GetByUsername(ctx, "1001")
	require.NoError(t, err)
	require.Equal(t, int64(30), inv.RemainingAmount)
	require.Empty(t, inv.InvestmentHistory)
}

func TestInvestmentRepository_ConcurrentDebitsNeverOverspend(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	investments := NewInvestmentRepository(db)

	seedInvestor(t, db, "1001", 100)
	p := seedProject(t, db, "Alpha", "001", 10)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = investments.Invest(ctx, "1001", p.ID, 30, time.Now())
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
			continue
		}
		require.ErrorIs(t, err, repository.ErrInsufficientBudget)
	}
	require.Equal(t, 3, accepted)

	inv, err := NewInvestorRepository(db).GetByUsername(ctx, "1001")
	require.NoError(t, err)
	require.Equal(t, int64(10), inv.RemainingAmount)
	require.NoError(t, inv.CheckBudget())
}
