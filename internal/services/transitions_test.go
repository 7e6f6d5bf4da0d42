package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/therabridge/therabridge-backend/internal/models"
)

func TestDefaultTransitions(t *testing.T) {
	table := DefaultTransitions(true)

	tests := []struct {
		from, to models.TherapistStatus
		allowed  bool
	}{
		{models.StatusPending, models.StatusActive, true},
		{models.StatusPending, models.StatusInactive, true},
		{models.StatusPending, models.StatusPaused, false},
		{models.StatusActive, models.StatusPaused, true},
		{models.StatusActive, models.StatusInactive, true},
		{models.StatusActive, models.StatusPending, false},
		{models.StatusPaused, models.StatusActive, true},
		{models.StatusPaused, models.StatusInactive, true},
		{models.StatusPaused, models.StatusPending, false},
		{models.StatusInactive, models.StatusActive, true},
		{models.StatusInactive, models.StatusPaused, false},
		{models.StatusInactive, models.StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, table.Allowed(tt.from, tt.to),
			"%s → %s", tt.from, tt.to)
	}
}

func TestTransitionsWithoutReactivation(t *testing.T) {
	table := DefaultTransitions(false)

	assert.False(t, table.Allowed(models.StatusInactive, models.StatusActive))
	// The rest of the lifecycle is unaffected
	assert.True(t, table.Allowed(models.StatusPending, models.StatusActive))
	assert.True(t, table.Allowed(models.StatusActive, models.StatusPaused))
}

func TestSameStateTransitionIsAllowed(t *testing.T) {
	table := DefaultTransitions(false)

	// Callers treat same-state writes as no-ops rather than errors
	for _, s := range []models.TherapistStatus{
		models.StatusPending, models.StatusActive, models.StatusPaused, models.StatusInactive,
	} {
		assert.True(t, table.Allowed(s, s))
	}
}
