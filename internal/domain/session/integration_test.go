package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/hackvote/internal/api"
	"github.com/rpggio/hackvote/internal/domain/ledger"
	"github.com/rpggio/hackvote/internal/domain/ranking"
	"github.com/rpggio/hackvote/internal/domain/session"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/rpggio/hackvote/internal/testserver"
	"github.com/rpggio/hackvote/internal/transport"
	"github.com/stretchr/testify/require"
)

func newLiveSession(t *testing.T) (*testserver.TestServer, *session.Session) {
	t.Helper()
	ts := testserver.New(t)
	client := api.New(ts.URL(), ts.Server.Client())
	return ts, session.New(client, session.Options{})
}

func TestIntegration_LocalRanksMatchServer(t *testing.T) {
	ts, sess := newLiveSession(t)
	ctx := context.Background()

	for _, st := range stage.All {
		ts.SetStage(st)
		require.NoError(t, sess.Refresh(ctx))

		supplied, err := api.New(ts.URL(), nil).Projects(ctx)
		require.NoError(t, err)
		require.NoError(t, ranking.Verify(st, supplied), "stage %s", st)

		snap := sess.Snapshot()
		require.Equal(t, st, snap.Stage.Code)
		for i, p := range snap.Projects {
			require.Equal(t, supplied[i].ID, p.ID)
			require.Equal(t, supplied[i].Rank, p.Rank)
			require.Equal(t, supplied[i].Qualified, p.Qualified)
		}
	}
}

func TestIntegration_StageFollowsSchedule(t *testing.T) {
	ts, sess := newLiveSession(t)
	ctx := context.Background()

	cases := map[string]stage.Stage{
		"2025-10-20 00:00:00": stage.Selection,
		"2025-11-08 00:00:00": stage.Lock,
		"2025-11-14 09:00:00": stage.Investment,
		"2025-11-14 18:00:00": stage.Ended,
	}
	for at, want := range cases {
		now, err := time.ParseInLocation(stage.TimeLayout, at, time.UTC)
		require.NoError(t, err)
		ts.SetNow(now)
		require.NoError(t, sess.Refresh(ctx))
		require.Equal(t, want, sess.Stage().Code, at)
	}
}

func TestIntegration_InvestmentFlow(t *testing.T) {
	ts, sess := newLiveSession(t)
	ctx := context.Background()
	ts.SetStage(stage.Investment)

	require.NoError(t, sess.Refresh(ctx))
	_, err := sess.Login(ctx, "1001", testserver.Password)
	require.NoError(t, err)

	outcome, err := sess.Invest(ctx, 15, 95)
	require.NoError(t, err)
	require.False(t, outcome.Stale)
	require.Equal(t, "投资成功", outcome.Message)
	require.Equal(t, int64(5), outcome.Investor.RemainingAmount)
	require.NoError(t, outcome.Investor.CheckBudget())

	board := sess.Board()
	require.Equal(t, int64(15), board.Qualified[0].ID)
	require.Equal(t, int64(95), board.Qualified[0].Investment)
	require.Len(t, board.Qualified[0].InvestmentRecords, 1)
	require.Equal(t, session.StatusActive, sess.Snapshot().Status)
}

func TestIntegration_LocalBudgetRejection(t *testing.T) {
	ts, sess := newLiveSession(t)
	ctx := context.Background()
	ts.SetStage(stage.Investment)

	require.NoError(t, sess.Refresh(ctx))
	_, err := sess.Login(ctx, "1002", testserver.Password)
	require.NoError(t, err)
	before := sess.Snapshot()

	_, err = sess.Invest(ctx, 3, 50)
	require.ErrorIs(t, err, ledger.ErrInsufficientBudget)
	require.Equal(t, before, sess.Snapshot())
}

func TestIntegration_StaleCacheRejectedByServer(t *testing.T) {
	ts, sess := newLiveSession(t)
	ctx := context.Background()
	ts.SetStage(stage.Investment)

	require.NoError(t, sess.Refresh(ctx))
	_, err := sess.Login(ctx, "1002", testserver.Password)
	require.NoError(t, err)

	// Another device spends the budget behind this session's back.
	other := session.New(api.New(ts.URL(), nil), session.Options{})
	require.NoError(t, other.Refresh(ctx))
	_, err = other.Login(ctx, "1002", testserver.Password)
	require.NoError(t, err)
	_, err = other.Invest(ctx, 1, 30)
	require.NoError(t, err)

	before := sess.Snapshot()
	_, err = sess.Invest(ctx, 2, 10)
	af, ok := transport.AsApplicationFailure(err)
	require.True(t, ok)
	require.Equal(t, transport.CodeBadRequest, af.Code)
	require.Equal(t, ledger.ErrInsufficientBudget.Message, af.Message)
	require.Equal(t, before, sess.Snapshot())

	inv, err := sess.RefreshInvestor(ctx)
	require.NoError(t, err)
	require.Zero(t, inv.RemainingAmount)
}

func TestIntegration_InvestClosedAfterStageChange(t *testing.T) {
	ts, sess := newLiveSession(t)
	ctx := context.Background()
	ts.SetStage(stage.Lock)

	require.NoError(t, sess.Refresh(ctx))
	_, err := sess.Login(ctx, "1001", testserver.Password)
	require.NoError(t, err)

	_, err = sess.Invest(ctx, 1, 10)
	require.ErrorIs(t, err, ledger.ErrPhaseNotInvestable)
}
