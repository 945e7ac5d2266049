package models

import "time"

// User is an account of any role. StudentID is the campus student number, set for students only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:'student';index" json:"role"`
	Department   *string   `gorm:"size:255" json:"department"`
	StudentID    *string   `gorm:"size:50;uniqueIndex" json:"student_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
