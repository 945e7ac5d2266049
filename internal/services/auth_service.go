package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Claims is the access token payload.
type Claims struct {
	UserID uint        `json:"id"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	Name   string      `json:"name"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() dto.Identity {
	return dto.Identity{ID: c.UserID, Email: c.Email, Role: c.Role, Name: c.Name}
}

type AuthService struct {
	db        *gorm.DB
	cfg       *config.Config
	blacklist TokenBlacklist
}

// NewAuthService builds the service. blacklist may be nil, which makes Logout a no-op.
func NewAuthService(db *gorm.DB, cfg *config.Config, blacklist TokenBlacklist) *AuthService {
	return &AuthService{
		db:        db,
		cfg:       cfg,
		blacklist: blacklist,
	}
}

// Register creates a student account and signs it in.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	studentID := strings.TrimSpace(req.StudentID)

	query := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if studentID != "" {
		query = query.Or("student_id = ?", studentID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
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
		Role:         models.RoleStudent,
		StudentID:    optionalString(studentID),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "action", "register")
	return s.authResponse(&user)
}

// Login accepts an email address or a student number as the identifier.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	identifier := strings.TrimSpace(req.Email)

	var user models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR student_id = ?", strings.ToLower(identifier), identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(&user)
}

// VerifyToken validates a raw access token and returns the caller it identifies.
func (s *AuthService) VerifyToken(ctx context.Context, raw string) (*dto.Identity, error) {
	claims, err := s.parse(raw)
	if err != nil {
		return nil, err
	}
	if revoked, err := s.isRevoked(ctx, claims.ID); err != nil {
		return nil, err
	} else if revoked {
		return nil, ErrTokenRevoked
	}
	identity := claims.Identity()
	return &identity, nil
}

// Logout revokes a valid token until it expires when a blacklist is configured.
// Without one, or without a usable token, it does nothing. A blacklist outage is
// logged and the logout still succeeds.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	if s.blacklist == nil || raw == "" {
		return nil
	}
	claims, err := s.parse(raw)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Warn("token revocation failed", "error", err, "user_id", claims.UserID, "action", "logout")
		return nil
	}
	slog.Info("token revoked", "user_id", claims.UserID, "action", "logout")
	return nil
}

func (s *AuthService) isRevoked(ctx context.Context, jti string) (bool, error) {
	if s.blacklist == nil || jti == "" {
		return false, nil
	}
	return s.blacklist.IsRevoked(ctx, jti)
}

func (s *AuthService) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{User: dto.NewUserResponse(user), Token: token}, nil
}

// IssueToken signs an access token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func hashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optionalString returns nil for blank input.
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
