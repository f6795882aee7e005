package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleBackend  Role = "backend"
	RoleFrontend Role = "frontend"
	RoleDesign   Role = "design"
	RolePM       Role = "pm"
	RoleAnalyst  Role = "analyst"
)

// Valid reports whether r is one of the known participant roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBackend, RoleFrontend, RoleDesign, RolePM, RoleAnalyst:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TelegramID   *int64         `gorm:"uniqueIndex" json:"telegram_id,omitempty"`
	Username     string         `gorm:"index" json:"username"`
	FullName     string         `gorm:"not null" json:"full_name"`
	Email        *string        `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string         `json:"-"`
	Bio          string         `gorm:"type:text" json:"bio"`
	MainRole     *Role          `gorm:"type:varchar(20);index" json:"main_role,omitempty"`
	ReadyToWork  bool           `gorm:"default:true" json:"ready_to_work"`
	TeamID       *uuid.UUID     `gorm:"type:uuid;index" json:"team_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Team         *Team         `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Skills       []Skill       `gorm:"many2many:user_skills" json:"skills,omitempty"`
	Achievements []Achievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserResponse is a safe representation without credential fields
type UserResponse struct {
	ID           uuid.UUID     `json:"id"`
	TelegramID   *int64        `json:"telegram_id,omitempty"`
	Username     string        `json:"username"`
	FullName     string        `json:"full_name"`
	Bio          string        `json:"bio"`
	MainRole     *Role         `json:"main_role,omitempty"`
	ReadyToWork  bool          `json:"ready_to_work"`
	TeamID       *uuid.UUID    `json:"team_id,omitempty"`
	Skills       []string      `json:"skills"`
	Achievements []Achievement `json:"achievements,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

func (u *User) ToResponse() UserResponse {
	skills := make([]string, 0, len(u.Skills))
	for _, s := range u.Skills {
		skills = append(skills, s.Name)
	}
	return UserResponse{
		ID:           u.ID,
		TelegramID:   u.TelegramID,
		Username:     u.Username,
		FullName:     u.FullName,
		Bio:          u.Bio,
		MainRole:     u.MainRole,
		ReadyToWork:  u.ReadyToWork,
		TeamID:       u.TeamID,
		Skills:       skills,
		Achievements: u.Achievements,
		CreatedAt:    u.CreatedAt,
	}
}
