package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avask/interview-lobby/backend/models"
	"gorm.io/gorm"
)

// Uniqueness violations surfaced by Create/Update calls. Lookups that find
// nothing return (nil, nil); callers translate that to their own not-found
// response so ownership misses and true misses stay indistinguishable.
var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateRoomName = errors.New("room name already used by this owner")
	ErrDuplicateNote     = errors.New("note already exists for this room and interviewer")
)

type GORMRepository struct {
	db *gorm.DB
}

func NewGORMRepository(db *gorm.DB) *GORMRepository {
	return &GORMRepository{db: db}
}

// DB exposes the underlying handle for health checks.
func (r *GORMRepository) DB() *gorm.DB {
	return r.db
}

// AutoMigrate runs database migrations
func (r *GORMRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.RevokedToken{},
		&models.Room{},
		&models.InterviewNote{},
	)
}

// User operations
func (r *GORMRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		slog.Error("Failed to create user", "error", err)
		return err
	}
	slog.Info("User created", "user_id", user.ID, "email", user.Email)
	return nil
}

func (r *GORMRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get user by email", "error", err, "email", email)
		return nil, err
	}
	return &user, nil
}

func (r *GORMRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.Error("Failed to get user by ID", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// Revocation denylist operations
func (r *GORMRepository) RevokeToken(ctx context.Context, token *models.RevokedToken) error {
	revoked, err := r.IsTokenRevoked(ctx, token.JTI)
	if err != nil {
		return err
	}
	if revoked {
		// Already revoked; revocation is idempotent.
		return nil
	}

	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		slog.Error("Failed to revoke token", "error", err, "user_id", token.UserID)
		return err
	}
	slog.Info("Refresh token revoked", "jti", token.JTI, "user_id", token.UserID)
	return nil
}

func (r *GORMRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		slog.Error("Failed to check token revocation", "error", err)
		return false, err
	}
	return count > 0, nil
}
