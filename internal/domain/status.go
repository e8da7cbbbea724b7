package domain

import "fmt"

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusAccepted  ReservationStatus = "accepted"
	StatusRejected  ReservationStatus = "rejected"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
)

// ActiveStatuses occupy capacity on the calendar
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusAccepted,
}

// InactiveStatuses are terminal and free the interval
var InactiveStatuses = []ReservationStatus{
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
}

var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusCompleted, StatusCancelled},
}

// IsValid reports whether s is a known status
func (s ReservationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsActive returns true for pending and accepted
func (s ReservationStatus) IsActive() bool {
	return s == StatusPending || s == StatusAccepted
}

// IsTerminal returns true if no transition leaves s
func (s ReservationStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether s -> target is legal
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// StatusStrings converts statuses for storage queries
func StatusStrings(statuses []ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Action is a request to move a reservation to another status
type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// ParseAction validates an action name
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionAccept, ActionReject, ActionComplete, ActionCancel:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Target is the status the action produces
func (a Action) Target() ReservationStatus {
	switch a {
	case ActionAccept:
		return StatusAccepted
	case ActionReject:
		return StatusRejected
	case ActionComplete:
		return StatusCompleted
	case ActionCancel:
		return StatusCancelled
	}
	return ""
}

// FromStatuses is the set of statuses the action may be applied to
func (a Action) FromStatuses() []ReservationStatus {
	target := a.Target()
	from := make([]ReservationStatus, 0, 1)
	for source := range transitions {
		if source.CanTransitionTo(target) {
			from = append(from, source)
		}
	}
	return from
}

// ActorRole is the role of a caller acting on a reservation
type ActorRole string

const (
	RoleCustomer ActorRole = "customer"
	RoleOwner    ActorRole = "owner"
	RoleAdmin    ActorRole = "admin"
)

// ParseActorRole returns RoleCustomer for an empty string
func ParseActorRole(s string) (ActorRole, error) {
	switch r := ActorRole(s); r {
	case "":
		return RoleCustomer, nil
	case RoleCustomer, RoleOwner, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Actor identifies who performs an action
type Actor struct {
	UserID int64
	Role   ActorRole
}

// IsAdmin returns true for the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns returns true if the actor is the owner of the resource
func (a Actor) Owns(resource *Resource) bool {
	return a.Role == RoleOwner && resource.IsOwnedBy(a.UserID)
}
