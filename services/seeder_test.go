package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedDatabase_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	seeder := NewDatabaseSeeder(repo)
	ctx := context.Background()

	require.NoError(t, seeder.SeedDatabase())
	require.NoError(t, seeder.SeedDatabase())

	user, err := repo.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)

	rooms, err := repo.GetRooms(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	notes, err := repo.GetNotesByInterviewer(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
}
