package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avask/interview-lobby/backend/models"
	"gorm.io/gorm"
)

// Interview note operations, all scoped to the interviewer.

func (r *GORMRepository) GetNoteByRoom(ctx context.Context, roomID, interviewerID string) (*models.InterviewNote, error) {
	var note models.InterviewNote
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND interviewer_id = ?", roomID, interviewerID).
		First(&note).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get note by room", "error", err, "room_id", roomID, "interviewer_id", interviewerID)
		return nil, err
	}
	return &note, nil
}

func (r *GORMRepository) GetNotesByInterviewer(ctx context.Context, interviewerID string) ([]models.InterviewNote, error) {
	var notes []models.InterviewNote
	err := r.db.WithContext(ctx).
		Where("interviewer_id = ?", interviewerID).
		Order("updated_at DESC").
		Find(&notes).Error
	if err != nil {
		slog.Error("Failed to get notes", "error", err, "interviewer_id", interviewerID)
		return nil, err
	}
	return notes, nil
}

func (r *GORMRepository) CreateNote(ctx context.Context, note *models.InterviewNote) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InterviewNote{}).
		Where("room_id = ? AND interviewer_id = ?", note.RoomID, note.InterviewerID).
		Count(&count).Error; err != nil {
		slog.Error("Failed to check existing note", "error", err, "room_id", note.RoomID)
		return err
	}
	if count > 0 {
		return ErrDuplicateNote
	}

	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateNote
		}
		slog.Error("Failed to create note", "error", err, "room_id", note.RoomID)
		return err
	}
	slog.Info("Note created", "note_id", note.ID, "room_id", note.RoomID, "interviewer_id", note.InterviewerID)
	return nil
}

func (r *GORMRepository) UpdateNote(ctx context.Context, note *models.InterviewNote) error {
	if err := r.db.WithContext(ctx).Save(note).Error; err != nil {
		slog.Error("Failed to update note", "error", err, "note_id", note.ID)
		return err
	}
	slog.Info("Note updated", "note_id", note.ID, "room_id", note.RoomID)
	return nil
}

// DeleteNoteByRoom removes the interviewer's note for a room. Returns
// (false, nil) when no owned row matched.
func (r *GORMRepository) DeleteNoteByRoom(ctx context.Context, roomID, interviewerID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("room_id = ? AND interviewer_id = ?", roomID, interviewerID).
		Delete(&models.InterviewNote{})
	if result.Error != nil {
		slog.Error("Failed to delete note", "error", result.Error, "room_id", roomID, "interviewer_id", interviewerID)
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	slog.Info("Note deleted", "room_id", roomID, "interviewer_id", interviewerID)
	return true, nil
}
