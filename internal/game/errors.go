package game

import (
	"errors"

	"monsterhunt/internal/monster"
)

var (
	// ErrEmptyPopulation aborts one generation attempt, never the batch.
	ErrEmptyPopulation = monster.ErrEmptyPopulation

	// ErrNoEligibleHunters means the quest was discarded. It is reported,
	// not treated as a failure.
	ErrNoEligibleHunters = errors.New("no eligible hunters")

	ErrEmptyAssignment        = errors.New("quest has no assigned hunters")
	ErrInvalidHunterReference = errors.New("invalid hunter reference")
	ErrQuestNotPending        = errors.New("quest is not pending")
	ErrAlreadyResolved        = errors.New("quest already resolved")
	ErrInvalidBatchSize       = errors.New("batch size must be positive")
)
