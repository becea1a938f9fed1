package ranking_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/ranking"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/stretchr/testify/require"
)

func makeProjects(n int, seed uint64) []project.Project {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	out := make([]project.Project, n)
	for i := range out {
		out[i] = project.Project{
			ID:         int64(i + 1),
			Name:       fmt.Sprintf("P%d", i+1),
			TeamNumber: fmt.Sprintf("%03d", i+1),
			// Small ranges force plenty of score ties.
			UV:         rng.Int64N(20),
			Investment: rng.Int64N(10),
		}
	}
	return out
}

func ids(list []project.Project) []int64 {
	out := make([]int64, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestRank_StrictTotalOrder(t *testing.T) {
	for _, st := range stage.All {
		for seed := uint64(0); seed < 10; seed++ {
			ranked := ranking.Rank(st, makeProjects(40, seed))
			require.Len(t, ranked, 40)
			seen := map[int]bool{}
			for i, p := range ranked {
				require.Equal(t, i+1, p.Rank)
				require.False(t, seen[p.Rank])
				seen[p.Rank] = true
			}
		}
	}
}

func TestRank_WeightedOrdering(t *testing.T) {
	for _, st := range []stage.Stage{stage.Investment, stage.Ended} {
		ranked := ranking.Rank(st, makeProjects(50, 42))
		for i := 0; i < len(ranked); i++ {
			for j := i + 1; j < len(ranked); j++ {
				a, b := ranked[i], ranked[j]
				wa, wb := ranking.Weighted(a), ranking.Weighted(b)
				require.False(t, wb.GreaterThan(wa), "weighted score out of order at %d/%d", a.Rank, b.Rank)
				if wa.Equal(wb) {
					require.GreaterOrEqual(t, a.Investment, b.Investment)
					if a.Investment == b.Investment {
						require.Less(t, a.TeamNumber, b.TeamNumber)
					}
				}
			}
		}
	}
}

func TestRank_UVOrderingBeforeInvestment(t *testing.T) {
	for _, st := range []stage.Stage{stage.Selection, stage.Lock} {
		ranked := ranking.Rank(st, makeProjects(50, 7))
		for i := 1; i < len(ranked); i++ {
			prev, cur := ranked[i-1], ranked[i]
			require.GreaterOrEqual(t, prev.UV, cur.UV)
			if prev.UV == cur.UV {
				require.Less(t, prev.TeamNumber, cur.TeamNumber)
			}
			require.Zero(t, cur.WeightedScore)
		}
	}
}

func TestRank_QualificationCount(t *testing.T) {
	for _, n := range []int{0, 1, 10, 15, 16, 30} {
		for _, st := range stage.All {
			ranked := ranking.Rank(st, makeProjects(n, 3))
			qualified := 0
			for _, p := range ranked {
				if p.Qualified {
					qualified++
					require.LessOrEqual(t, p.Rank, ranking.QualifiedCount)
				}
			}
			if st == stage.Selection {
				require.Zero(t, qualified)
			} else {
				require.Equal(t, min(ranking.QualifiedCount, n), qualified, "stage %s n=%d", st, n)
			}
		}
	}
}

func TestRank_Idempotent(t *testing.T) {
	input := makeProjects(25, 11)
	first := ranking.Rank(stage.Investment, input)
	second := ranking.Rank(stage.Investment, input)
	require.Equal(t, first, second)

	again := ranking.Rank(stage.Investment, first)
	require.Equal(t, first, again)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	input := makeProjects(5, 1)
	input[0].InvestmentRecords = []project.InvestmentRecord{{InvestorName: "x", Amount: 1}}
	snapshot := project.CloneAll(input)

	ranked := ranking.Rank(stage.Lock, input)
	ranked[0].InvestmentRecords = append(ranked[0].InvestmentRecords, project.InvestmentRecord{})

	require.Equal(t, snapshot, input)
}

func TestRank_EmptyAndSingle(t *testing.T) {
	require.Empty(t, ranking.Rank(stage.Investment, nil))

	single := ranking.Rank(stage.Lock, []project.Project{{ID: 9, TeamNumber: "009"}})
	require.Len(t, single, 1)
	require.Equal(t, 1, single[0].Rank)
	require.True(t, single[0].Qualified)

	single = ranking.Rank(stage.Selection, []project.Project{{ID: 9}})
	require.False(t, single[0].Qualified)
}

func TestRank_WeightedScenario(t *testing.T) {
	projects := make([]project.Project, 20)
	for i := range projects {
		projects[i] = project.Project{ID: int64(i + 1), TeamNumber: fmt.Sprintf("%03d", i+1), UV: 10}
	}
	projects[6].UV, projects[6].Investment = 5000, 100 // P7
	projects[2].UV, projects[2].Investment = 9000, 0   // P3

	ranked := ranking.Rank(stage.Investment, projects)
	require.Equal(t, int64(3), ranked[0].ID)
	require.Equal(t, 3600.0, ranked[0].WeightedScore)
	require.Equal(t, int64(7), ranked[1].ID)
	require.Equal(t, 2060.0, ranked[1].WeightedScore)
}

func TestRank_ExactWeightedTie(t *testing.T) {
	// 3*0.4 and 2*0.6 differ in binary floating point but are equal scores.
	projects := []project.Project{
		{ID: 1, TeamNumber: "001", UV: 3, Investment: 0},
		{ID: 2, TeamNumber: "002", UV: 0, Investment: 2},
	}
	ranked := ranking.Rank(stage.Investment, projects)
	require.Equal(t, []int64{2, 1}, ids(ranked))
}

func TestRank_TeamNumberTieBreak(t *testing.T) {
	projects := []project.Project{
		{ID: 1, TeamNumber: "010", UV: 5},
		{ID: 2, TeamNumber: "", UV: 5},
		{ID: 3, TeamNumber: "002", UV: 5},
	}
	ranked := ranking.Rank(stage.Selection, projects)
	require.Equal(t, []int64{3, 1, 2}, ids(ranked))
}

func TestPartition(t *testing.T) {
	projects := makeProjects(20, 5)
	// Push a low-uv project into the qualified area with a large investment.
	projects[0].UV, projects[0].Investment = 0, 1000

	ranked := ranking.Rank(stage.Investment, projects)
	board := ranking.Partition(stage.Investment, ranked)

	require.Len(t, board.Qualified, ranking.QualifiedCount)
	require.Len(t, board.Others, 5)
	require.Equal(t, ids(ranked[:ranking.QualifiedCount]), ids(board.Qualified))
	for i := 1; i < len(board.Others); i++ {
		require.LessOrEqual(t, ranking.ByUV(board.Others[i-1], board.Others[i]), 0)
	}
	for _, p := range board.Others {
		require.Greater(t, p.Rank, ranking.QualifiedCount)
	}
}

func TestPartition_SelectionHasNoQualified(t *testing.T) {
	ranked := ranking.Rank(stage.Selection, makeProjects(20, 9))
	board := ranking.Partition(stage.Selection, ranked)
	require.Empty(t, board.Qualified)
	require.Len(t, board.Others, 20)
}

func TestVerify(t *testing.T) {
	ranked := ranking.Rank(stage.Lock, makeProjects(20, 2))
	require.NoError(t, ranking.Verify(stage.Lock, ranked))

	tampered := project.CloneAll(ranked)
	tampered[0].Rank, tampered[1].Rank = tampered[1].Rank, tampered[0].Rank
	require.ErrorIs(t, ranking.Verify(stage.Lock, tampered), ranking.ErrRankMismatch)

	tampered = project.CloneAll(ranked)
	tampered[19].Qualified = true
	require.ErrorIs(t, ranking.Verify(stage.Lock, tampered), ranking.ErrRankMismatch)
}
