package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avask/interview-lobby/backend/models"
	"gorm.io/gorm"
)

// Room operations. Every query except GetRoomByPublicID filters on the
// owner; a room that exists but belongs to someone else looks exactly like
// a room that does not exist.

func (r *GORMRepository) GetRooms(ctx context.Context, ownerID string) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id DESC").Find(&rooms).Error
	if err != nil {
		slog.Error("Failed to get rooms", "error", err, "owner_id", ownerID)
		return nil, err
	}
	return rooms, nil
}

func (r *GORMRepository) CreateRoom(ctx context.Context, room *models.Room) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("owner_id = ? AND name = ?", room.OwnerID, room.Name).
		Count(&count).Error; err != nil {
		slog.Error("Failed to check room name", "error", err, "owner_id", room.OwnerID)
		return err
	}
	if count > 0 {
		return ErrDuplicateRoomName
	}

	if err := r.db.WithContext(ctx).Create(room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent create with the same name.
			return ErrDuplicateRoomName
		}
		slog.Error("Failed to create room", "error", err, "owner_id", room.OwnerID)
		return err
	}
	slog.Info("Room created", "room_id", room.RoomID, "owner_id", room.OwnerID, "name", room.Name)
	return nil
}

func (r *GORMRepository) GetRoomByID(ctx context.Context, ownerID string, id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get room", "error", err, "id", id, "owner_id", ownerID)
		return nil, err
	}
	return &room, nil
}

// GetRoomByPublicID looks a room up by its shareable identifier with no
// owner filter. The owner is preloaded for the public view's owner field.
func (r *GORMRepository) GetRoomByPublicID(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).Preload("Owner").First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get room by public ID", "error", err, "room_id", roomID)
		return nil, err
	}
	return &room, nil
}

func (r *GORMRepository) UpdateRoom(ctx context.Context, room *models.Room) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("owner_id = ? AND name = ? AND id <> ?", room.OwnerID, room.Name, room.ID).
		Count(&count).Error; err != nil {
		slog.Error("Failed to check room name", "error", err, "owner_id", room.OwnerID)
		return err
	}
	if count > 0 {
		return ErrDuplicateRoomName
	}

	if err := r.db.WithContext(ctx).Save(room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRoomName
		}
		slog.Error("Failed to update room", "error", err, "id", room.ID)
		return err
	}
	slog.Info("Room updated", "room_id", room.RoomID, "owner_id", room.OwnerID)
	return nil
}

// DeleteRoom removes an owned room. Returns (false, nil) when no owned row
// matched.
func (r *GORMRepository) DeleteRoom(ctx context.Context, ownerID string, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Room{})
	if result.Error != nil {
		slog.Error("Failed to delete room", "error", result.Error, "id", id, "owner_id", ownerID)
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	slog.Info("Room deleted", "id", id, "owner_id", ownerID)
	return true, nil
}
