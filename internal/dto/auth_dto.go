package dto

import "github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	StudentID string `json:"studentId" validate:"omitempty,min=3,max=50"`
}

// LoginRequest accepts either an email address or a student number in Email.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type UserResponse struct {
	ID         uint        `json:"id"`
	Name       string      `json:"name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	Department *string     `json:"department"`
	StudentID  *string     `json:"studentId"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		StudentID:  u.StudentID,
	}
}

// Identity is the authenticated caller carried through a request.
type Identity struct {
	ID    uint        `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Name  string      `json:"name"`
}
