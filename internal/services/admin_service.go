package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/advisor"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"gorm.io/gorm"
)

var finishedStatuses = []models.Status{models.StatusResolved, models.StatusClosed}

// AdminService computes the read-only dashboard projections.
type AdminService struct {
	db      *gorm.DB
	advisor advisor.Advisor
}

func NewAdminService(db *gorm.DB, adv advisor.Advisor) *AdminService {
	return &AdminService{db: db, advisor: adv}
}

func (s *AdminService) Overview(ctx context.Context) (*dto.Overview, error) {
	db := s.db.WithContext(ctx)
	out := &dto.Overview{}

	if err := db.Model(&models.Complaint{}).Count(&out.TotalComplaints).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleStudent).Count(&out.TotalStudents).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleWorker).Count(&out.TotalWorkers).Error; err != nil {
		return nil, err
	}

	var statusCounts []statusCount
	if err := db.Model(&models.Complaint{}).Select("status, COUNT(*) AS count").Group("status").Scan(&statusCounts).Error; err != nil {
		return nil, err
	}
	out.ByStatus = make(map[models.Status]int64, len(statusCounts))
	var finished int64
	for _, c := range statusCounts {
		out.ByStatus[c.Status] = c.Count
		if c.Status.Finished() {
			finished += c.Count
		}
	}
	out.ResolutionRate = percentage(finished, out.TotalComplaints)

	out.ByCategory = []dto.CategoryCount{}
	err := db.Model(&models.Complaint{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC, category ASC").
		Limit(10).
		Scan(&out.ByCategory).Error
	if err != nil {
		return nil, err
	}

	var urgencyCounts []urgencyCount
	if err := db.Model(&models.Complaint{}).Select("urgency, COUNT(*) AS count").Group("urgency").Scan(&urgencyCounts).Error; err != nil {
		return nil, err
	}
	out.ByUrgency = make(map[models.Urgency]int64, len(urgencyCounts))
	for _, c := range urgencyCounts {
		out.ByUrgency[c.Urgency] = c.Count
	}

	var spans []timeSpan
	if err := db.Model(&models.Complaint{}).Select("created_at, updated_at").Where("status IN ?", finishedStatuses).Scan(&spans).Error; err != nil {
		return nil, err
	}
	out.AvgResolutionDays = averageDays(spans)

	out.RecentComplaints = []models.ComplaintRow{}
	if err := complaintRows(db).Order("c.created_at DESC, c.id DESC").Limit(10).Scan(&out.RecentComplaints).Error; err != nil {
		return nil, err
	}

	var stats []advisor.ComplaintStat
	if err := db.Model(&models.Complaint{}).
		Select("id, title, category, status, urgency, created_at, updated_at").
		Order("id ASC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	analytics := s.advisor.Analyze(ctx, stats)
	out.AIInsights = analytics.Insights
	out.AITrends = analytics.Trends
	out.AIRecommendations = analytics.Recommendations

	return out, nil
}

type urgencyCount struct {
	Urgency models.Urgency
	Count   int64
}
