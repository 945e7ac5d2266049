package services

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"gorm.io/gorm"
)

const complaintRowColumns = "c.*, " +
	"s.name AS student_name, s.email AS student_email, s.student_id AS student_number, " +
	"w.name AS worker_name, w.email AS worker_email, w.department AS worker_department"

// complaintRows selects complaints aliased as c, joined with their student (s) and worker (w).
func complaintRows(db *gorm.DB) *gorm.DB {
	return db.Table("complaints AS c").
		Select(complaintRowColumns).
		Joins("LEFT JOIN users s ON s.id = c.student_id").
		Joins("LEFT JOIN users w ON w.id = c.assigned_worker_id")
}

// filterComplaints applies the non-empty filter fields with AND.
func filterComplaints(f dto.ComplaintFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("c.status = ?", f.Status)
		}
		if f.Category != "" {
			db = db.Where("c.category = ?", f.Category)
		}
		if f.Urgency != "" {
			db = db.Where("c.urgency = ?", f.Urgency)
		}
		if f.WorkerID != nil {
			db = db.Where("c.assigned_worker_id = ?", *f.WorkerID)
		}
		if search := strings.TrimSpace(f.Search); search != "" {
			like := "%" + strings.ToLower(search) + "%"
			db = db.Where("(LOWER(c.title) LIKE ? OR LOWER(c.description) LIKE ?)", like, like)
		}
		return db
	}
}

// urgencyOrder sorts critical first.
const urgencyOrder = "CASE c.urgency WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END DESC"
