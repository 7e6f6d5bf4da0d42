package services

import (
	"github.com/therabridge/therabridge-backend/internal/models"
)

// TransitionTable maps a therapist status to the statuses an admin may move
// it to. The source data never declared one, so it is built from config at
// startup rather than hard-coded.
type TransitionTable map[models.TherapistStatus][]models.TherapistStatus

// statusTransitions is the active table, configured once from main.
var statusTransitions = DefaultTransitions(true)

// ConfigureTransitions installs the transition table used by ChangeStatus.
func ConfigureTransitions(t TransitionTable) {
	statusTransitions = t
}

// DefaultTransitions builds the standard lifecycle:
// pending → active (approval) or inactive (rejection); active ⇄ paused;
// active/paused → inactive. Pending profiles can never be paused.
// inactive → active only when reactivation by admin action is allowed.
func DefaultTransitions(allowReactivation bool) TransitionTable {
	t := TransitionTable{
		models.StatusPending:  {models.StatusActive, models.StatusInactive},
		models.StatusActive:   {models.StatusPaused, models.StatusInactive},
		models.StatusPaused:   {models.StatusActive, models.StatusInactive},
		models.StatusInactive: {},
	}
	if allowReactivation {
		t[models.StatusInactive] = []models.TherapistStatus{models.StatusActive}
	}
	return t
}

// Allowed reports whether moving from one status to another is legal.
// A same-state write is always allowed; callers treat it as a no-op.
func (t TransitionTable) Allowed(from, to models.TherapistStatus) bool {
	if from == to {
		return true
	}
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}
