package models

import "time"

type Complaint struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	StudentID          uint      `gorm:"not null;index" json:"student_id"`
	Title              string    `gorm:"size:255;not null" json:"title"`
	Description        string    `gorm:"type:text;not null" json:"description"`
	Category           string    `gorm:"size:100;not null;index" json:"category"`
	Urgency            Urgency   `gorm:"size:20;not null;default:'medium'" json:"urgency"`
	Status             Status    `gorm:"size:20;not null;default:'open';index" json:"status"`
	AssignedWorkerID   *uint     `gorm:"index" json:"assigned_worker_id"`
	AssignedDepartment *string   `gorm:"size:255" json:"assigned_department"`
	ResolutionMessage  *string   `gorm:"type:text" json:"resolution_message"`
	AISummary          *string   `gorm:"type:text" json:"ai_summary"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ComplaintRow is a complaint joined with the people around it, as returned by list and detail reads.
type ComplaintRow struct {
	Complaint
	StudentName      *string `json:"student_name,omitempty"`
	StudentEmail     *string `json:"student_email,omitempty"`
	StudentNumber    *string `json:"student_number,omitempty"`
	WorkerName       *string `json:"worker_name,omitempty"`
	WorkerEmail      *string `json:"worker_email,omitempty"`
	WorkerDepartment *string `json:"worker_department,omitempty"`
}
