package models

import "time"

// Feedback is a student's rating of a finished complaint. One row per (complaint, student).
type Feedback struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ComplaintID uint      `gorm:"not null;uniqueIndex:idx_feedback_complaint_student" json:"complaint_id"`
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_feedback_complaint_student" json:"student_id"`
	Rating      int       `gorm:"not null" json:"rating"`
	Comments    *string   `gorm:"type:text" json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
