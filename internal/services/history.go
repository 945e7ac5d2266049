package services

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/advisor"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"gorm.io/gorm"
)

type historyRow struct {
	action    models.ActionType
	oldStatus models.Status
	newStatus models.Status
	note      string
	public    bool
}

// appendHistory inserts entries for one action in order, sharing a timestamp so the
// (timestamp, id) ordering keeps them in insertion order.
func appendHistory(tx *gorm.DB, complaintID, actorID uint, at time.Time, rows ...historyRow) error {
	for _, r := range rows {
		entry := models.ComplaintHistory{
			ComplaintID: complaintID,
			ActorUserID: &actorID,
			ActionType:  r.action,
			OldStatus:   optionalStatus(r.oldStatus),
			NewStatus:   optionalStatus(r.newStatus),
			Note:        optionalString(r.note),
			IsPublic:    r.public,
			Timestamp:   at,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

func optionalStatus(s models.Status) *models.Status {
	if s == "" {
		return nil
	}
	return &s
}

func (s *ComplaintService) loadHistory(ctx context.Context, complaintID uint) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	err := s.db.WithContext(ctx).
		Table("complaint_history AS h").
		Select("h.*, u.name AS actor_name, u.role AS actor_role").
		Joins("LEFT JOIN users u ON u.id = h.actor_user_id").
		Where("h.complaint_id = ?", complaintID).
		Order("h.timestamp ASC, h.id ASC").
		Scan(&entries).Error
	return entries, err
}

func visibleToStudent(entries []models.HistoryEntry) []models.HistoryEntry {
	visible := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if models.IsVisibleToStudent(e.ComplaintHistory) {
			visible = append(visible, e)
		}
	}
	return visible
}

func historyItems(entries []models.HistoryEntry) []advisor.HistoryItem {
	items := make([]advisor.HistoryItem, 0, len(entries))
	for _, e := range entries {
		item := advisor.HistoryItem{ActionType: e.ActionType, Timestamp: e.Timestamp}
		if e.Note != nil {
			item.Note = *e.Note
		}
		items = append(items, item)
	}
	return items
}
