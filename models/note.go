package models

import (
	"time"
)

// InterviewNote holds one interviewer's notes for one room. RoomID stores
// the room's public identifier as a plain string, not a foreign key: a
// shared room_id can reach interviewers who do not own the room.
type InterviewNote struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RoomID        string    `gorm:"size:255;not null;index;uniqueIndex:idx_notes_room_interviewer" json:"room_id"`
	InterviewerID string    `gorm:"type:uuid;not null;uniqueIndex:idx_notes_room_interviewer" json:"interviewer"`
	CandidateName string    `gorm:"size:255" json:"candidate_name"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Interviewer User `gorm:"foreignKey:InterviewerID" json:"-"`
}
