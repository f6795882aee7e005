package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus is shared by both request shapes. The only legal transition
// is pending -> {accepted, declined, canceled}; the three terminal states
// are one-way.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
	StatusCanceled RequestStatus = "canceled"
)

// Valid reports whether s is a known status value.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCanceled:
		return true
	}
	return false
}

type RequestType string

const (
	// TypeJoinTeam asks a team's captain to take the sender in.
	TypeJoinTeam RequestType = "join_team"
	// TypeCollaborate asks another participant directly, no team involved.
	TypeCollaborate RequestType = "collaborate"
	// TypeInvite is sent by a captain to pull a participant into their team.
	TypeInvite RequestType = "invite"
)

func (t RequestType) Valid() bool {
	switch t {
	case TypeJoinTeam, TypeCollaborate, TypeInvite:
		return true
	}
	return false
}

// Request is the general three-kind membership request.
type Request struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	SenderID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID  *uuid.UUID    `gorm:"type:uuid;index" json:"receiver_id,omitempty"`
	TeamID      *uuid.UUID    `gorm:"type:uuid;index" json:"team_id,omitempty"`
	HackathonID uuid.UUID     `gorm:"type:uuid;not null;index" json:"hackathon_id"`
	RequestType RequestType   `gorm:"type:varchar(20);not null;index" json:"request_type"`
	Status      RequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Sender    *User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver  *User      `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	Team      *Team      `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Hackathon *Hackathon `gorm:"foreignKey:HackathonID" json:"-"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TeamRequest is the team-scoped shape used by the bot frontend. IsInvite
// distinguishes "captain invited the user" from "user knocked on the team".
type TeamRequest struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	TeamID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"team_id"`
	IsInvite  bool          `gorm:"default:false" json:"is_invite"`
	Status    RequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (r *TeamRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
