package dto

import "github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"

type CreateComplaintRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=255"`
	Description string `json:"description" validate:"required,min=10"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	Urgency     string `json:"urgency" validate:"omitempty,oneof=low medium high critical"`
}

type UpdateStatusRequest struct {
	Status            string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
	Note              string `json:"note"`
	ResolutionMessage string `json:"resolutionMessage"`
}

type AddNoteRequest struct {
	Note     string `json:"note" validate:"required"`
	IsPublic *bool  `json:"isPublic"`
}

type ReassignRequest struct {
	NewWorkerID uint   `json:"newWorkerId"`
	Reason      string `json:"reason"`
}

type AssignRequest struct {
	WorkerID   *uint  `json:"workerId"`
	Department string `json:"department"`
}

type FeedbackRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comments string `json:"comments"`
}

// ComplaintFilter narrows complaint listings. Empty fields do not filter.
type ComplaintFilter struct {
	Status   string
	Category string
	Urgency  string
	WorkerID *uint
	Search   string
}

type ComplaintDetail struct {
	Complaint models.ComplaintRow   `json:"complaint"`
	History   []models.HistoryEntry `json:"history"`
	Feedback  *models.Feedback      `json:"feedback"`
}

type WorkerStats struct {
	ByStatus          map[models.Status]int64 `json:"byStatus"`
	OverdueCount      int64                   `json:"overdueCount"`
	AvgResolutionDays float64                 `json:"avgResolutionDays"`
}
