package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/advisor"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const overdueAfter = 7 * 24 * time.Hour

// ComplaintService owns the complaint lifecycle. Every write records history in the same
// transaction; the advisor is consulted before a transaction opens and events are published
// after it commits.
type ComplaintService struct {
	db      *gorm.DB
	advisor advisor.Advisor
	events  events.Publisher
}

func NewComplaintService(db *gorm.DB, adv advisor.Advisor, pub events.Publisher) *ComplaintService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &ComplaintService{db: db, advisor: adv, events: pub}
}

// Create files a complaint for a student. Category and urgency are classified only when omitted.
func (s *ComplaintService) Create(ctx context.Context, studentID uint, req *dto.CreateComplaintRequest) (*models.Complaint, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, ErrMissingFields
	}

	category := strings.TrimSpace(req.Category)
	urgency := models.Urgency(strings.TrimSpace(req.Urgency))
	if urgency != "" && !urgency.Valid() {
		return nil, ErrInvalidUrgency
	}

	if category == "" || urgency == "" {
		classified := s.advisor.Classify(ctx, description, advisor.Metadata{Title: title})
		if category == "" {
			category = classified.Category
		}
		if urgency == "" {
			urgency = classified.Urgency
		}
	}

	workers, err := s.workerRoster(ctx)
	if err != nil {
		return nil, err
	}
	routing := s.advisor.Route(ctx, advisor.RouteInput{Title: title, Category: category, Urgency: urgency}, workers)

	complaint := models.Complaint{
		StudentID:          studentID,
		Title:              title,
		Description:        description,
		Category:           category,
		Urgency:            urgency,
		Status:             models.StatusOpen,
		AssignedWorkerID:   routing.WorkerID,
		AssignedDepartment: optionalString(routing.Department),
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&complaint).Error; err != nil {
			return translate(err)
		}
		rows := []historyRow{{action: models.ActionCreated, newStatus: models.StatusOpen, note: "Complaint created", public: true}}
		if complaint.AssignedWorkerID != nil {
			rows = append(rows, historyRow{action: models.ActionAssigned, note: routing.Reason})
		}
		return appendHistory(tx, complaint.ID, studentID, now, rows...)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	slog.Info("complaint created", "complaint_id", complaint.ID, "user_id", studentID,
		"category", category, "urgency", urgency, "department", routing.Department)
	s.publish(ctx, events.Event{
		Type:        events.ComplaintCreated,
		ComplaintID: complaint.ID,
		ActorID:     studentID,
		Action:      models.ActionCreated,
		Status:      complaint.Status,
		WorkerID:    complaint.AssignedWorkerID,
		Department:  routing.Department,
	})
	return &complaint, nil
}

// Assign sets or clears the worker and department of any complaint.
func (s *ComplaintService) Assign(ctx context.Context, adminID, complaintID uint, req *dto.AssignRequest) (*models.Complaint, error) {
	var workerID *uint
	if req.WorkerID != nil && *req.WorkerID != 0 {
		workerID = req.WorkerID
	}
	department := optionalString(req.Department)

	var complaint models.Complaint
	action := models.ActionAssigned
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&complaint, complaintID).Error; err != nil {
			return notFoundAs(err, ErrComplaintNotFound)
		}
		if workerID != nil {
			if _, err := findWorker(tx, *workerID); err != nil {
				return err
			}
		}

		note := "Admin assigned complaint"
		if complaint.AssignedWorkerID != nil {
			action = models.ActionReassigned
			note = "Admin reassigned complaint"
		}

		now := time.Now()
		err := tx.Model(&models.Complaint{}).Where("id = ?", complaint.ID).Updates(map[string]interface{}{
			"assigned_worker_id":  workerID,
			"assigned_department": department,
			"updated_at":          now,
		}).Error
		if err != nil {
			return err
		}
		if err := appendHistory(tx, complaint.ID, adminID, now, historyRow{action: action, note: note}); err != nil {
			return err
		}
		return tx.First(&complaint, complaint.ID).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("complaint assigned", "complaint_id", complaint.ID, "user_id", adminID, "action", action)
	ev := events.Event{Type: events.ComplaintAssigned, ComplaintID: complaint.ID, ActorID: adminID, Action: action, WorkerID: workerID}
	if department != nil {
		ev.Department = *department
	}
	s.publish(ctx, ev)
	return &complaint, nil
}

// Reassign hands a complaint assigned to workerID over to another worker.
func (s *ComplaintService) Reassign(ctx context.Context, workerID, complaintID uint, req *dto.ReassignRequest) (*models.Complaint, error) {
	if req.NewWorkerID == 0 {
		return nil, ErrWorkerRequired
	}

	var complaint models.Complaint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assignedTo(tx, workerID).First(&complaint, complaintID).Error; err != nil {
			return notFoundAs(err, ErrComplaintNotFound)
		}
		newWorker, err := findWorker(tx, req.NewWorkerID)
		if err != nil {
			return err
		}

		now := time.Now()
		err = tx.Model(&models.Complaint{}).Where("id = ?", complaint.ID).Updates(map[string]interface{}{
			"assigned_worker_id": newWorker.ID,
			"updated_at":         now,
		}).Error
		if err != nil {
			return err
		}

		note := strings.TrimSpace(req.Reason)
		if note == "" {
			note = "Reassigned to " + newWorker.Name
		}
		if err := appendHistory(tx, complaint.ID, workerID, now, historyRow{action: models.ActionReassigned, note: note}); err != nil {
			return err
		}
		return tx.First(&complaint, complaint.ID).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("complaint reassigned", "complaint_id", complaint.ID, "user_id", workerID, "new_worker_id", req.NewWorkerID)
	s.publish(ctx, events.Event{
		Type:        events.ComplaintAssigned,
		ComplaintID: complaint.ID,
		ActorID:     workerID,
		Action:      models.ActionReassigned,
		WorkerID:    complaint.AssignedWorkerID,
	})
	return &complaint, nil
}

// UpdateStatus moves a complaint assigned to workerID to any valid status.
func (s *ComplaintService) UpdateStatus(ctx context.Context, workerID, complaintID uint, req *dto.UpdateStatusRequest) (*models.Complaint, error) {
	status := models.Status(req.Status)
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	resolution := strings.TrimSpace(req.ResolutionMessage)

	var complaint models.Complaint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := assignedTo(tx, workerID).First(&complaint, complaintID).Error; err != nil {
			return notFoundAs(err, ErrComplaintNotFound)
		}
		oldStatus := complaint.Status

		now := time.Now()
		updates := map[string]interface{}{"status": status, "updated_at": now}
		if resolution != "" {
			updates["resolution_message"] = resolution
		}
		if err := tx.Model(&models.Complaint{}).Where("id = ?", complaint.ID).Updates(updates).Error; err != nil {
			return err
		}

		note := strings.TrimSpace(req.Note)
		if note == "" {
			note = "Status changed to " + string(status)
		}
		rows := []historyRow{{action: models.ActionStatusChange, oldStatus: oldStatus, newStatus: status, note: note, public: true}}
		if status == models.StatusResolved && resolution != "" {
			rows = append(rows, historyRow{action: models.ActionResolved, oldStatus: oldStatus, newStatus: status, note: resolution, public: true})
		}
		if err := appendHistory(tx, complaint.ID, workerID, now, rows...); err != nil {
			return err
		}
		return tx.First(&complaint, complaint.ID).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("complaint status changed", "complaint_id", complaint.ID, "user_id", workerID, "status", status)
	s.publish(ctx, events.Event{
		Type:        events.StatusChanged,
		ComplaintID: complaint.ID,
		ActorID:     workerID,
		Action:      models.ActionStatusChange,
		Status:      status,
	})
	return &complaint, nil
}

// AddNote records a note on a complaint assigned to workerID. Notes are internal unless isPublic.
func (s *ComplaintService) AddNote(ctx context.Context, workerID, complaintID uint, req *dto.AddNoteRequest) (*models.ComplaintHistory, error) {
	note := strings.TrimSpace(req.Note)
	if note == "" {
		return nil, ErrNoteRequired
	}
	public := req.IsPublic != nil && *req.IsPublic

	var entry models.ComplaintHistory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var complaint models.Complaint
		if err := assignedTo(tx, workerID).Select("id").First(&complaint, complaintID).Error; err != nil {
			return notFoundAs(err, ErrComplaintNotFound)
		}
		if err := appendHistory(tx, complaint.ID, workerID, time.Now(), historyRow{action: models.ActionNoteAdded, note: note, public: public}); err != nil {
			return err
		}
		return tx.Where("complaint_id = ?", complaint.ID).Order("id DESC").First(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.NoteAdded, ComplaintID: complaintID, ActorID: workerID, Action: models.ActionNoteAdded})
	return &entry, nil
}

// SubmitFeedback rates a finished complaint owned by studentID. Resubmitting replaces the rating.
func (s *ComplaintService) SubmitFeedback(ctx context.Context, studentID, complaintID uint, req *dto.FeedbackRequest) (*models.Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var feedback models.Feedback
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var complaint models.Complaint
		if err := tx.First(&complaint, complaintID).Error; err != nil {
			return notFoundAs(err, ErrComplaintNotFound)
		}
		if complaint.StudentID != studentID {
			return ErrNotOwner
		}
		if !complaint.Status.Finished() {
			return ErrFeedbackNotAllowed
		}

		now := time.Now()
		row := models.Feedback{
			ComplaintID: complaint.ID,
			StudentID:   studentID,
			Rating:      req.Rating,
			Comments:    optionalString(req.Comments),
			CreatedAt:   now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "complaint_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comments", "created_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		note := fmt.Sprintf("Rated %d/5", req.Rating)
		if err := appendHistory(tx, complaint.ID, studentID, now, historyRow{action: models.ActionFeedbackAdded, note: note, public: true}); err != nil {
			return err
		}
		return tx.Where("complaint_id = ? AND student_id = ?", complaint.ID, studentID).First(&feedback).Error
	})
	if err != nil {
		return nil, err
	}

	slog.Info("feedback submitted", "complaint_id", complaintID, "user_id", studentID, "rating", req.Rating)
	s.publish(ctx, events.Event{Type: events.FeedbackSubmitted, ComplaintID: complaintID, ActorID: studentID, Action: models.ActionFeedbackAdded})
	return &feedback, nil
}

// ListForStudent returns the student's own complaints, newest first.
func (s *ComplaintService) ListForStudent(ctx context.Context, studentID uint, f dto.ComplaintFilter) ([]models.ComplaintRow, error) {
	f.Urgency, f.WorkerID, f.Search = "", nil, ""
	rows := []models.ComplaintRow{}
	err := complaintRows(s.db.WithContext(ctx)).
		Scopes(filterComplaints(f)).
		Where("c.student_id = ?", studentID).
		Order("c.created_at DESC, c.id DESC").
		Scan(&rows).Error
	return rows, err
}

// ListForWorker returns complaints assigned to the worker, most urgent first, then oldest first.
func (s *ComplaintService) ListForWorker(ctx context.Context, workerID uint, f dto.ComplaintFilter) ([]models.ComplaintRow, error) {
	f.WorkerID, f.Search = &workerID, ""
	rows := []models.ComplaintRow{}
	err := complaintRows(s.db.WithContext(ctx)).
		Scopes(filterComplaints(f)).
		Order(urgencyOrder).
		Order("c.created_at ASC, c.id ASC").
		Scan(&rows).Error
	return rows, err
}

// ListAll returns every complaint matching f, newest first.
func (s *ComplaintService) ListAll(ctx context.Context, f dto.ComplaintFilter) ([]models.ComplaintRow, error) {
	rows := []models.ComplaintRow{}
	err := complaintRows(s.db.WithContext(ctx)).
		Scopes(filterComplaints(f)).
		Order("c.created_at DESC, c.id DESC").
		Scan(&rows).Error
	return rows, err
}

// GetForStudent returns a complaint owned by studentID with the history entries students may see.
// A complaint that exists but belongs to someone else is reported as not found.
func (s *ComplaintService) GetForStudent(ctx context.Context, studentID, complaintID uint) (*dto.ComplaintDetail, error) {
	row, err := s.findRow(ctx, "c.id = ? AND c.student_id = ?", complaintID, studentID)
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	history = visibleToStudent(history)

	if err := s.ensureSummary(ctx, row, history); err != nil {
		return nil, err
	}
	feedback, err := s.findFeedback(ctx, "complaint_id = ? AND student_id = ?", complaintID, studentID)
	if err != nil {
		return nil, err
	}
	return &dto.ComplaintDetail{Complaint: *row, History: history, Feedback: feedback}, nil
}

// GetForWorker returns a complaint assigned to workerID with its full history.
func (s *ComplaintService) GetForWorker(ctx context.Context, workerID, complaintID uint) (*dto.ComplaintDetail, error) {
	row, err := s.findRow(ctx, "c.id = ? AND c.assigned_worker_id = ?", complaintID, workerID)
	if err != nil {
		return nil, err
	}
	history, err := s.loadHistory(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSummary(ctx, row, history); err != nil {
		return nil, err
	}
	feedback, err := s.findFeedback(ctx, "complaint_id = ?", complaintID)
	if err != nil {
		return nil, err
	}
	return &dto.ComplaintDetail{Complaint: *row, History: history, Feedback: feedback}, nil
}

// WorkerStats summarizes the worker's queue.
func (s *ComplaintService) WorkerStats(ctx context.Context, workerID uint) (*dto.WorkerStats, error) {
	db := s.db.WithContext(ctx)

	var counts []statusCount
	err := db.Model(&models.Complaint{}).
		Select("status, COUNT(*) AS count").
		Where("assigned_worker_id = ?", workerID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	byStatus := make(map[models.Status]int64, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	var overdue int64
	err = db.Model(&models.Complaint{}).
		Where("assigned_worker_id = ? AND status IN ? AND created_at < ?",
			workerID, []models.Status{models.StatusOpen, models.StatusInProgress}, time.Now().Add(-overdueAfter)).
		Count(&overdue).Error
	if err != nil {
		return nil, err
	}

	var spans []timeSpan
	err = db.Model(&models.Complaint{}).
		Select("created_at, updated_at").
		Where("assigned_worker_id = ? AND status = ?", workerID, models.StatusResolved).
		Scan(&spans).Error
	if err != nil {
		return nil, err
	}

	return &dto.WorkerStats{
		ByStatus:          byStatus,
		OverdueCount:      overdue,
		AvgResolutionDays: averageDays(spans),
	}, nil
}

type statusCount struct {
	Status models.Status
	Count  int64
}

func (s *ComplaintService) findRow(ctx context.Context, query string, args ...interface{}) (*models.ComplaintRow, error) {
	var rows []models.ComplaintRow
	err := complaintRows(s.db.WithContext(ctx)).Where(query, args...).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrComplaintNotFound
	}
	return &rows[0], nil
}

func (s *ComplaintService) findFeedback(ctx context.Context, query string, args ...interface{}) (*models.Feedback, error) {
	var list []models.Feedback
	err := s.db.WithContext(ctx).Where(query, args...).Order("created_at DESC").Limit(1).Find(&list).Error
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

// ensureSummary fills ai_summary the first time a complaint is viewed. A stored summary is never replaced.
func (s *ComplaintService) ensureSummary(ctx context.Context, row *models.ComplaintRow, history []models.HistoryEntry) error {
	if row.AISummary != nil {
		return nil
	}
	summary := s.advisor.Summarize(ctx, advisor.SummaryInput{
		Title:    row.Title,
		Category: row.Category,
		Urgency:  row.Urgency,
		Status:   row.Status,
	}, historyItems(history))

	err := s.db.WithContext(ctx).Model(&models.Complaint{}).
		Where("id = ? AND ai_summary IS NULL", row.ID).
		UpdateColumn("ai_summary", summary).Error
	if err != nil {
		return fmt.Errorf("failed to store summary: %w", err)
	}
	row.AISummary = &summary
	return nil
}

func (s *ComplaintService) workerRoster(ctx context.Context) ([]advisor.Worker, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Select("id", "name", "department").
		Where("role = ?", models.RoleWorker).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}
	workers := make([]advisor.Worker, 0, len(users))
	for _, u := range users {
		w := advisor.Worker{ID: u.ID, Name: u.Name}
		if u.Department != nil {
			w.Department = *u.Department
		}
		workers = append(workers, w)
	}
	return workers, nil
}

func (s *ComplaintService) publish(ctx context.Context, ev events.Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		slog.Warn("event publish failed", "type", ev.Type, "complaint_id", ev.ComplaintID, "error", err)
	}
}

func assignedTo(tx *gorm.DB, workerID uint) *gorm.DB {
	return tx.Where("assigned_worker_id = ?", workerID)
}

func findWorker(tx *gorm.DB, id uint) (*models.User, error) {
	var worker models.User
	if err := tx.Where("id = ? AND role = ?", id, models.RoleWorker).First(&worker).Error; err != nil {
		return nil, notFoundAs(err, ErrInvalidWorker)
	}
	return &worker, nil
}
