package models

import "time"

// ComplaintHistory is one append-only audit entry. Entries are ordered by (Timestamp, ID).
type ComplaintHistory struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ComplaintID uint       `gorm:"not null;index" json:"complaint_id"`
	ActorUserID *uint      `gorm:"index" json:"actor_user_id"`
	ActionType  ActionType `gorm:"size:30;not null" json:"action_type"`
	OldStatus   *Status    `gorm:"size:20" json:"old_status"`
	NewStatus   *Status    `gorm:"size:20" json:"new_status"`
	Note        *string    `gorm:"type:text" json:"note"`
	IsPublic    bool       `gorm:"not null;default:false" json:"is_public"`
	Timestamp   time.Time  `gorm:"not null;index" json:"timestamp"`
}

func (ComplaintHistory) TableName() string {
	return "complaint_history"
}

// HistoryEntry is a history row joined with its actor.
type HistoryEntry struct {
	ComplaintHistory
	ActorName *string `json:"actor_name"`
	ActorRole *Role   `json:"actor_role"`
}

// IsVisibleToStudent is the single rule deciding which history entries a complaint owner sees.
func IsVisibleToStudent(h ComplaintHistory) bool {
	if h.IsPublic {
		return true
	}
	switch h.ActionType {
	case ActionCreated, ActionStatusChange, ActionAssigned:
		return true
	}
	return false
}
