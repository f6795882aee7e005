package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Hackathon is the time-boxed competition instance teams and requests belong to.
// Invariant: RegistrationDeadline <= StartDate < EndDate.
type Hackathon struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Title                string         `gorm:"not null;index" json:"title"`
	Description          string         `gorm:"type:text" json:"description"`
	StartDate            time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate              time.Time      `gorm:"not null;index" json:"end_date"`
	RegistrationDeadline time.Time      `gorm:"not null;index" json:"registration_deadline"`
	LogoURL              string         `json:"logo_url,omitempty"`
	Location             string         `json:"location"`
	IsActive             bool           `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Teams    []Team    `gorm:"foreignKey:HackathonID" json:"teams,omitempty"`
	Requests []Request `gorm:"foreignKey:HackathonID" json:"-"`
}

func (h *Hackathon) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// ValidDates checks the deadline <= start < end invariant.
func (h *Hackathon) ValidDates() bool {
	return !h.RegistrationDeadline.After(h.StartDate) && h.StartDate.Before(h.EndDate)
}
