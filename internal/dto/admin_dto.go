package dto

import (
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/advisor"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
)

type CreateUserRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"required,oneof=student worker admin"`
	Department string `json:"department" validate:"omitempty,max=255"`
	StudentID  string `json:"studentId" validate:"omitempty,min=3,max=50"`
}

// UpdateUserRequest changes only the fields that are present.
type UpdateUserRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=255"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Role       *string `json:"role" validate:"omitempty,oneof=student worker admin"`
	Department *string `json:"department" validate:"omitempty,max=255"`
}

type UserFilter struct {
	Role       string
	Department string
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type Overview struct {
	TotalComplaints   int64                    `json:"totalComplaints"`
	TotalStudents     int64                    `json:"totalStudents"`
	TotalWorkers      int64                    `json:"totalWorkers"`
	ResolutionRate    float64                  `json:"resolutionRate"`
	AvgResolutionDays float64                  `json:"avgResolutionDays"`
	ByStatus          map[models.Status]int64  `json:"byStatus"`
	ByCategory        []CategoryCount          `json:"byCategory"`
	ByUrgency         map[models.Urgency]int64 `json:"byUrgency"`
	RecentComplaints  []models.ComplaintRow    `json:"recentComplaints"`
	AIInsights        []string                 `json:"aiInsights"`
	AITrends          advisor.Trends           `json:"aiTrends"`
	AIRecommendations []string                 `json:"aiRecommendations"`
}
