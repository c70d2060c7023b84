package quest

import (
	"slices"
	"time"

	"monsterhunt/internal/hunter"
)

// Status tracks a quest through its single pass of execution.
type Status string

const (
	StatusUnresolved Status = "unresolved"
	StatusRunning    Status = "running"
	StatusSucceeded  Status = "succeeded"
	StatusFailed     Status = "failed"
)

func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// CanTransition reports whether from -> to is a legal step.
// unresolved -> running -> {succeeded, failed}; nothing leaves a terminal state.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusUnresolved:
		return to == StatusRunning
	case StatusRunning:
		return to.Terminal()
	default:
		return false
	}
}

const (
	MinTimeLimit = 15
	MaxTimeLimit = 50

	MinPartySize = 1
	MaxPartySize = 4
)

// Quest pairs a party of hunters with a monster template.
type Quest struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Target       string      `json:"target"`
	RequiredRank int         `json:"required_rank"`
	TimeLimit    int         `json:"time_limit"` // ticks
	PartySize    int         `json:"party_size"` // requested, may exceed len(HunterIDs)
	HunterIDs    []hunter.ID `json:"hunter_ids"`
	Seed         int64       `json:"seed"`

	Status             Status `json:"status"`
	AverageSuccessRate int    `json:"average_success_rate,omitempty"`
	Roll               int    `json:"roll,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

func NameFor(species string) string {
	return "Quest for " + species
}

func (q Quest) Succeeded() bool { return q.Status == StatusSucceeded }

func (q Quest) clone() Quest {
	q.HunterIDs = slices.Clone(q.HunterIDs)
	if q.StartedAt != nil {
		t := *q.StartedAt
		q.StartedAt = &t
	}
	if q.FinishedAt != nil {
		t := *q.FinishedAt
		q.FinishedAt = &t
	}
	return q
}
