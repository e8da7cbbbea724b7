package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from  ReservationStatus
		to    ReservationStatus
		legal bool
	}{
		{StatusPending, StatusAccepted, true},
		{StatusPending, StatusRejected, true},
		{StatusAccepted, StatusCompleted, true},
		{StatusAccepted, StatusCancelled, true},
		{StatusPending, StatusCancelled, false},
		{StatusPending, StatusCompleted, false},
		{StatusRejected, StatusAccepted, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusAccepted, false},
		{StatusAccepted, StatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.legal, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range InactiveStatuses {
		assert.True(t, s.IsTerminal(), s)
		assert.False(t, s.IsActive(), s)
	}
	for _, s := range ActiveStatuses {
		assert.False(t, s.IsTerminal(), s)
		assert.True(t, s.IsActive(), s)
	}
}

func TestActionFromStatuses(t *testing.T) {
	assert.Equal(t, []ReservationStatus{StatusPending}, ActionAccept.FromStatuses())
	assert.Equal(t, []ReservationStatus{StatusPending}, ActionReject.FromStatuses())
	assert.Equal(t, []ReservationStatus{StatusAccepted}, ActionComplete.FromStatuses())
	assert.Equal(t, []ReservationStatus{StatusAccepted}, ActionCancel.FromStatuses())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("cancel")
	require.NoError(t, err)
	assert.Equal(t, ActionCancel, a)

	_, err = ParseAction("approve")
	assert.Error(t, err)
}

func TestParseActorRole(t *testing.T) {
	r, err := ParseActorRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, r)

	r, err = ParseActorRole("owner")
	require.NoError(t, err)
	assert.Equal(t, RoleOwner, r)

	_, err = ParseActorRole("root")
	assert.Error(t, err)
}

func TestActorOwns(t *testing.T) {
	res := &Resource{ID: 1, OwnerUserID: 42}

	assert.True(t, Actor{UserID: 42, Role: RoleOwner}.Owns(res))
	assert.False(t, Actor{UserID: 42, Role: RoleCustomer}.Owns(res))
	assert.False(t, Actor{UserID: 7, Role: RoleOwner}.Owns(res))
}
