package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Skill names are stored lowercase so lookups stay case-insensitive.
type Skill struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Users []User `gorm:"many2many:user_skills" json:"-"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
