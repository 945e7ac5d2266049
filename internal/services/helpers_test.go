package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/advisor"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role models.Role, department string) models.User {
	t.Helper()
	hash, err := hashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	u := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   optionalString(department),
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// countingAdvisor is the rule advisor with a call counter on Classify.
type countingAdvisor struct {
	advisor.Rules
	classifyCalls int
}

func (a *countingAdvisor) Classify(ctx context.Context, text string, meta advisor.Metadata) advisor.Classification {
	a.classifyCalls++
	return a.Rules.Classify(ctx, text, meta)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev events.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type fixture struct {
	db      *gorm.DB
	svc     *ComplaintService
	advisor *countingAdvisor
	student models.User
	other   models.User
	worker  models.User
	worker2 models.User
	admin   models.User
}

// newFixture seeds two students, two workers (hostel and library) and an admin.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	adv := &countingAdvisor{}
	return &fixture{
		db:      db,
		svc:     NewComplaintService(db, adv, nil),
		advisor: adv,
		student: seedUser(t, db, "Sam Student", "sam@campus.edu", models.RoleStudent, ""),
		other:   seedUser(t, db, "Olive Other", "olive@campus.edu", models.RoleStudent, ""),
		worker:  seedUser(t, db, "Walt Worker", "walt@campus.edu", models.RoleWorker, "Hostel Management"),
		worker2: seedUser(t, db, "Bob Books", "bob@campus.edu", models.RoleWorker, "Library Services"),
		admin:   seedUser(t, db, "Ada Admin", "ada@campus.edu", models.RoleAdmin, ""),
	}
}

// hostelComplaint is routed to f.worker.
func (f *fixture) hostelComplaint(t *testing.T) *models.Complaint {
	t.Helper()
	c, err := f.svc.Create(context.Background(), f.student.ID, &dto.CreateComplaintRequest{
		Title:       "Broken hostel door",
		Description: "The door of room 12 in the hostel does not lock.",
		Category:    "Hostel & Accommodation",
		Urgency:     "high",
	})
	require.NoError(t, err)
	require.NotNil(t, c.AssignedWorkerID)
	require.Equal(t, f.worker.ID, *c.AssignedWorkerID)
	return c
}

func historyOf(t *testing.T, db *gorm.DB, complaintID uint) []models.ComplaintHistory {
	t.Helper()
	var rows []models.ComplaintHistory
	require.NoError(t, db.Where("complaint_id = ?", complaintID).Order("timestamp ASC, id ASC").Find(&rows).Error)
	return rows
}

func actions(rows []models.ComplaintHistory) []models.ActionType {
	out := make([]models.ActionType, len(rows))
	for i, r := range rows {
		out[i] = r.ActionType
	}
	return out
}
