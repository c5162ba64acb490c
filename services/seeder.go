package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avask/interview-lobby/backend/models"
	"github.com/avask/interview-lobby/backend/repository"
	"golang.org/x/crypto/bcrypt"
)

// DatabaseSeeder handles database seeding operations
type DatabaseSeeder struct {
	repo *repository.GORMRepository
}

// NewDatabaseSeeder creates a new database seeder
func NewDatabaseSeeder(repo *repository.GORMRepository) *DatabaseSeeder {
	return &DatabaseSeeder{repo: repo}
}

// SeedDatabase seeds the database with demo users and rooms (idempotent)
func (s *DatabaseSeeder) SeedDatabase() error {
	ctx := context.Background()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []models.User{
		{
			Email:    "test@example.com",
			Password: string(hashedPassword),
			FullName: "Test User",
		},
		{
			Email:    "demo@example.com",
			Password: string(hashedPassword),
			FullName: "Demo User",
		},
	}

	seeded := make([]*models.User, 0, len(users))
	for i := range users {
		user, err := s.seedUser(ctx, &users[i])
		if err != nil {
			slog.Error("Failed to seed user", "email", users[i].Email, "error", err)
			return err
		}
		seeded = append(seeded, user)
	}

	if err := s.seedRooms(ctx, seeded[0]); err != nil {
		return err
	}

	slog.Info("Database seeding completed")
	return nil
}

// seedUser creates the user unless one with the same email already exists.
func (s *DatabaseSeeder) seedUser(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		slog.Info("User already seeded, skipping", "email", user.Email)
		return existing, nil
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// seedRooms gives the first demo user a couple of rooms and a note so a
// fresh database has something to show.
func (s *DatabaseSeeder) seedRooms(ctx context.Context, owner *models.User) error {
	existing, err := s.repo.GetRooms(ctx, owner.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		slog.Info("Rooms already seeded, skipping", "owner_id", owner.ID)
		return nil
	}

	rooms := []models.Room{
		{OwnerID: owner.ID, Name: "Backend Screening"},
		{OwnerID: owner.ID, Name: "Frontend Screening"},
	}
	for i := range rooms {
		if err := s.repo.CreateRoom(ctx, &rooms[i]); err != nil {
			slog.Error("Failed to seed room", "name", rooms[i].Name, "error", err)
			return err
		}
	}

	note := models.InterviewNote{
		RoomID:        rooms[0].RoomID,
		InterviewerID: owner.ID,
		CandidateName: "Sample Candidate",
		Content:       "Walked through a REST API design question.",
	}
	if err := s.repo.CreateNote(ctx, &note); err != nil {
		slog.Error("Failed to seed note", "error", err)
		return err
	}

	return nil
}
