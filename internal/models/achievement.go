package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Achievement is an immutable portfolio record of a past hackathon result.
type Achievement struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	HackathonName string    `gorm:"not null;index" json:"hackathon_name"`
	Place         *int      `json:"place,omitempty"`
	TeamName      string    `json:"team_name"`
	ProjectLink   string    `json:"project_link,omitempty"`
	Year          int       `gorm:"index" json:"year"`
	Description   string    `gorm:"type:text" json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
