package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"gorm.io/gorm"
)

// UserService is the admin's account management.
type UserService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewUserService(db *gorm.DB, cfg *config.Config) *UserService {
	return &UserService{db: db, cfg: cfg}
}

func (s *UserService) List(ctx context.Context, f dto.UserFilter) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if f.Department != "" {
		query = query.Where("department = ?", f.Department)
	}

	users := []models.User{}
	if err := query.Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	email := normalizeEmail(req.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := hashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Department:   optionalString(req.Department),
		StudentID:    optionalString(req.StudentID),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translate(err)
	}

	slog.Info("user created", "user_id", user.ID, "role", role, "action", "create_user")
	return &user, nil
}

// Update changes only the fields present in req.
func (s *UserService) Update(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*models.User, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = normalizeEmail(*req.Email)
	}
	if req.Role != nil {
		role := models.Role(*req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		updates["role"] = role
	}
	if req.Department != nil {
		updates["department"] = optionalString(*req.Department)
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return translate(err)
		}
		return tx.First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user other than the acting admin. A student's complaints go with them;
// complaints assigned to a worker become unassigned.
func (s *UserService) Delete(ctx context.Context, actorID, id uint) error {
	if actorID == id {
		return ErrSelfDelete
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}

		// History is append-only for every complaint that survives. Only a deleted
		// student's own complaints take their history and feedback with them, since
		// those rows would otherwise point at a complaint that no longer exists.
		owned := tx.Model(&models.Complaint{}).Select("id").Where("student_id = ?", id)
		if err := tx.Where("complaint_id IN (?) OR student_id = ?", owned, id).Delete(&models.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("complaint_id IN (?)", owned).Delete(&models.ComplaintHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&models.Complaint{}).Error; err != nil {
			return err
		}
		// Rows this user authored elsewhere keep actor_user_id; readers get a nil actor name.
		if err := tx.Model(&models.Complaint{}).Where("assigned_worker_id = ?", id).
			Update("assigned_worker_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if errors.Is(err, ErrUserNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted", "user_id", id, "actor_id", actorID, "action", "delete_user")
	return nil
}
