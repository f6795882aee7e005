package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team belongs to exactly one hackathon. The captain is immutable and is
// always one of the members.
type Team struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"not null;index" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	ChatLink    string         `json:"chat_link,omitempty"`
	IsLooking   bool           `gorm:"default:true" json:"is_looking"`
	HackathonID uuid.UUID      `gorm:"type:uuid;not null;index" json:"hackathon_id"`
	CaptainID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"captain_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Hackathon *Hackathon `gorm:"foreignKey:HackathonID" json:"hackathon,omitempty"`
	Captain   *User      `gorm:"foreignKey:CaptainID" json:"captain,omitempty"`
	Members   []User     `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TeamResponse is the list/recommendation representation of a team.
type TeamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ChatLink    string    `json:"chat_link,omitempty"`
	IsLooking   bool      `json:"is_looking"`
	HackathonID uuid.UUID `json:"hackathon_id"`
	CaptainID   uuid.UUID `json:"captain_id"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (t *Team) ToResponse() TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ChatLink:    t.ChatLink,
		IsLooking:   t.IsLooking,
		HackathonID: t.HackathonID,
		CaptainID:   t.CaptainID,
		MemberCount: len(t.Members),
		CreatedAt:   t.CreatedAt,
	}
}
