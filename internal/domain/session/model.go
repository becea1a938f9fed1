package session

import (
	"time"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/stage"
)

// Status describes how far the cached state can be trusted.
type Status string

const (
	StatusEmpty  Status = "empty"
	StatusActive Status = "active"
	// StatusStale means a local result was applied because the follow-up
	// refresh failed.
	StatusStale Status = "stale"
)

// Snapshot is an immutable copy of the cached state.
type Snapshot struct {
	Stage       stage.Info         `json:"stage"`
	Projects    []project.Project  `json:"projects"`
	Investor    *investor.Investor `json:"investor,omitempty"`
	Status      Status             `json:"status"`
	RefreshedAt time.Time          `json:"refreshed_at"`
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Projects = project.CloneAll(s.Projects)
	if s.Investor != nil {
		inv := s.Investor.Clone()
		out.Investor = &inv
	}
	return out
}

// InvestOutcome reports the result of a submission that did not fail.
type InvestOutcome struct {
	// Suppressed is set when another submission was already in flight.
	// Nothing was sent.
	Suppressed bool               `json:"suppressed"`
	Message    string             `json:"message,omitempty"`
	Amount     int64              `json:"amount,omitempty"`
	Investor   *investor.Investor `json:"investor,omitempty"`
	Project    *project.Project   `json:"project,omitempty"`
	Stale      bool               `json:"stale,omitempty"`
}
