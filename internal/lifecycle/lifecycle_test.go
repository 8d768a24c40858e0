package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/repair-service/internal/domain"
	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

func TestTransitionMap(t *testing.T) {
	cases := []struct {
		from, to domain.TicketStatus
		allowed  bool
	}{
		{domain.TicketStatusPending, domain.TicketStatusAssigned, true},
		{domain.TicketStatusPending, domain.TicketStatusInProgress, true},
		{domain.TicketStatusPending, domain.TicketStatusCompleted, true},
		{domain.TicketStatusPending, domain.TicketStatusCancelled, true},
		{domain.TicketStatusAssigned, domain.TicketStatusPending, true},
		{domain.TicketStatusAssigned, domain.TicketStatusInProgress, true},
		{domain.TicketStatusAssigned, domain.TicketStatusCompleted, true},
		{domain.TicketStatusAssigned, domain.TicketStatusCancelled, true},
		{domain.TicketStatusInProgress, domain.TicketStatusCompleted, true},
		{domain.TicketStatusInProgress, domain.TicketStatusCancelled, true},
		{domain.TicketStatusInProgress, domain.TicketStatusAssigned, true},
		{domain.TicketStatusInProgress, domain.TicketStatusPending, false},
		{domain.TicketStatusCompleted, domain.TicketStatusPending, false},
		{domain.TicketStatusCompleted, domain.TicketStatusInProgress, false},
		{domain.TicketStatusCancelled, domain.TicketStatusAssigned, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestSameStatusAlwaysAllowed(t *testing.T) {
	for _, status := range []domain.TicketStatus{
		domain.TicketStatusPending,
		domain.TicketStatusCompleted,
		domain.TicketStatusCancelled,
	} {
		assert.True(t, CanTransition(status, status))
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(domain.TicketStatusCompleted))
	assert.True(t, Terminal(domain.TicketStatusCancelled))
	assert.False(t, Terminal(domain.TicketStatusPending))
	assert.False(t, Terminal(domain.TicketStatusInProgress))
}

func TestCanReopenTerminalOnly(t *testing.T) {
	assert.True(t, CanReopen(domain.TicketStatusCompleted))
	assert.True(t, CanReopen(domain.TicketStatusCancelled))
	assert.False(t, CanReopen(domain.TicketStatusPending))
	assert.False(t, CanReopen(domain.TicketStatusAssigned))
}

func TestValidateTransitionCompletionRequiresDetails(t *testing.T) {
	err := ValidateTransition(domain.TicketStatusPending, TransitionRequest{
		NewStatus: domain.TicketStatusCompleted,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "MISSING_REQUIRED_FIELD"))

	err = ValidateTransition(domain.TicketStatusPending, TransitionRequest{
		NewStatus:         domain.TicketStatusCompleted,
		CompletionDetails: "replaced the faulty breaker",
	})
	assert.NoError(t, err)
}

func TestValidateTransitionUnknownStatus(t *testing.T) {
	err := ValidateTransition(domain.TicketStatusPending, TransitionRequest{NewStatus: "resolved"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestValidateTransitionIllegalMove(t *testing.T) {
	err := ValidateTransition(domain.TicketStatusCompleted, TransitionRequest{
		NewStatus: domain.TicketStatusInProgress,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestValidateTransitionAssignmentNeverRequired(t *testing.T) {
	// a ticket may be completed unassigned
	err := ValidateTransition(domain.TicketStatusInProgress, TransitionRequest{
		NewStatus:         domain.TicketStatusCompleted,
		CompletionDetails: "done",
		AssignedTo:        nil,
	})
	assert.NoError(t, err)
}

func TestValidateTransitionCompletionImagesOnlyWhenCompleting(t *testing.T) {
	err := ValidateTransition(domain.TicketStatusAssigned, TransitionRequest{
		NewStatus:         domain.TicketStatusInProgress,
		HasCompletionImgs: true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	err = ValidateTransition(domain.TicketStatusAssigned, TransitionRequest{
		NewStatus:         domain.TicketStatusCompleted,
		CompletionDetails: "fixed",
		HasCompletionImgs: true,
	})
	assert.NoError(t, err)
}

func TestNextStatusesCopies(t *testing.T) {
	next := NextStatuses(domain.TicketStatusPending)
	require.NotEmpty(t, next)
	next[0] = "corrupted"
	assert.Equal(t, domain.TicketStatusAssigned, NextStatuses(domain.TicketStatusPending)[0])
}
