package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room is an interview room. The numeric ID orders rooms and keys the
// owner-facing endpoints; RoomID is the opaque public identifier used for
// shareable links and note lookups.
type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    string    `gorm:"type:uuid;uniqueIndex;not null" json:"room_id"`
	OwnerID   string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_rooms_owner_name" json:"owner"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_rooms_owner_name" json:"name"`
	IsClosed  bool      `gorm:"default:false" json:"is_closed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.RoomID == "" {
		r.RoomID = uuid.New().String()
	}
	return nil
}
