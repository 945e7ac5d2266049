package models

// Role is the fixed set of account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleWorker  Role = "worker"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

// RoleAllowed reports whether role is one of allowed.
func RoleAllowed(role Role, allowed []Role) bool {
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of a complaint. Any valid status may follow any other.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Finished reports whether the complaint accepts feedback.
func (s Status) Finished() bool {
	return s == StatusResolved || s == StatusClosed
}

type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

func (u Urgency) Valid() bool {
	return u.Rank() > 0
}

// Rank orders urgencies from low (1) to critical (4). Unknown values rank 0.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyLow:
		return 1
	case UrgencyMedium:
		return 2
	case UrgencyHigh:
		return 3
	case UrgencyCritical:
		return 4
	}
	return 0
}

type ActionType string

const (
	ActionCreated       ActionType = "created"
	ActionStatusChange  ActionType = "status_change"
	ActionAssigned      ActionType = "assigned"
	ActionReassigned    ActionType = "reassigned"
	ActionNoteAdded     ActionType = "note_added"
	ActionResolved      ActionType = "resolved"
	ActionFeedbackAdded ActionType = "feedback_added"
)
