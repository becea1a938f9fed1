// Package ranking orders projects for a contest stage and marks the ones
// that qualify for investment.
package ranking

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/shopspring/decimal"
)

// QualifiedCount is the number of top-ranked projects that qualify.
const QualifiedCount = 15

// missingTeamNumber sorts projects without a team number last.
const missingTeamNumber = "999"

var (
	uvWeight         = decimal.New(4, -1)
	investmentWeight = decimal.New(6, -1)
)

// Board is the display split of a ranked list.
type Board struct {
	Stage     stage.Stage       `json:"stage"`
	Qualified []project.Project `json:"qualified"`
	Others    []project.Project `json:"others"`
}

type scored struct {
	project.Project
	score decimal.Decimal
}

// Weighted returns uv*0.4 + investment*0.6 as an exact decimal.
func Weighted(p project.Project) decimal.Decimal {
	return decimal.NewFromInt(p.UV).Mul(uvWeight).
		Add(decimal.NewFromInt(p.Investment).Mul(investmentWeight))
}

// WeightedScore is Weighted as a float for display.
func WeightedScore(p project.Project) float64 {
	return Weighted(p).InexactFloat64()
}

// Score returns the primary ranking score of p under st.
func Score(st stage.Stage, p project.Project) decimal.Decimal {
	if st.Weighted() {
		return Weighted(p)
	}
	return decimal.NewFromInt(p.UV)
}

// Rank returns a new slice in ranking order with Rank, Qualified and
// WeightedScore set. The input is not modified.
func Rank(st stage.Stage, projects []project.Project) []project.Project {
	if len(projects) == 0 {
		return []project.Project{}
	}

	items := make([]scored, len(projects))
	for i, p := range projects {
		items[i] = scored{Project: p.Clone(), score: Score(st, p)}
	}

	weighted := st.Weighted()
	slices.SortStableFunc(items, func(a, b scored) int {
		if c := b.score.Cmp(a.score); c != 0 {
			return c
		}
		if weighted {
			if c := cmp.Compare(b.Investment, a.Investment); c != 0 {
				return c
			}
		}
		return compareTeam(a.Project, b.Project)
	})

	qualifying := st.QualificationActive()
	out := make([]project.Project, len(items))
	for i, item := range items {
		p := item.Project
		p.Rank = i + 1
		p.Qualified = qualifying && p.Rank <= QualifiedCount
		p.WeightedScore = 0
		if weighted {
			p.WeightedScore = item.score.InexactFloat64()
		}
		out[i] = p
	}
	return out
}

// Partition splits a ranked list into the qualified queue, in rank order,
// and the remaining projects ordered by uv. Ranks are left untouched.
func Partition(st stage.Stage, ranked []project.Project) Board {
	board := Board{
		Stage:     st,
		Qualified: []project.Project{},
		Others:    []project.Project{},
	}
	for _, p := range ranked {
		if p.Qualified {
			board.Qualified = append(board.Qualified, p.Clone())
		} else {
			board.Others = append(board.Others, p.Clone())
		}
	}
	slices.SortStableFunc(board.Others, ByUV)
	return board
}

// ByUV orders by uv descending, then team number.
func ByUV(a, b project.Project) int {
	if c := cmp.Compare(b.UV, a.UV); c != 0 {
		return c
	}
	return compareTeam(a, b)
}

// compareTeam compares team numbers as strings. Zero-padded codes sort
// numerically; the id breaks ties between duplicated team numbers.
func compareTeam(a, b project.Project) int {
	if c := cmp.Compare(teamKey(a), teamKey(b)); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func teamKey(p project.Project) string {
	if p.TeamNumber == "" {
		return missingTeamNumber
	}
	return p.TeamNumber
}

// Verify recomputes the ranking for projects and reports the first project
// whose supplied rank or qualified flag disagrees.
func Verify(st stage.Stage, supplied []project.Project) error {
	local := Rank(st, supplied)
	want := make(map[int64]project.Project, len(local))
	for _, p := range local {
		want[p.ID] = p
	}
	for _, got := range supplied {
		exp := want[got.ID]
		if got.Rank != exp.Rank || got.Qualified != exp.Qualified {
			return fmt.Errorf("%w: project %d has rank %d qualified=%t, expected rank %d qualified=%t",
				ErrRankMismatch, got.ID, got.Rank, got.Qualified, exp.Rank, exp.Qualified)
		}
	}
	return nil
}
