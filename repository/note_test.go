package repository

import (
	"context"
	"testing"
	"time"

	"github.com/avask/interview-lobby/backend/models"
	"github.com/stretchr/testify/require"
)

func TestCreateNote_DuplicatePerRoomAndInterviewer(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	interviewer := newTestUser(t, repo, "a@x.com")
	other := newTestUser(t, repo, "b@x.com")

	note := models.InterviewNote{RoomID: "room-1", InterviewerID: interviewer.ID, Content: "first pass"}
	require.NoError(t, repo.CreateNote(ctx, &note))

	err := repo.CreateNote(ctx, &models.InterviewNote{RoomID: "room-1", InterviewerID: interviewer.ID, Content: "again"})
	require.ErrorIs(t, err, ErrDuplicateNote)

	// Another interviewer can take notes in the same room.
	require.NoError(t, repo.CreateNote(ctx, &models.InterviewNote{RoomID: "room-1", InterviewerID: other.ID, Content: "theirs"}))
}

func TestGetNoteByRoom_Scoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	interviewer := newTestUser(t, repo, "a@x.com")
	other := newTestUser(t, repo, "b@x.com")

	require.NoError(t, repo.CreateNote(ctx, &models.InterviewNote{RoomID: "room-1", InterviewerID: interviewer.ID, Content: "mine"}))

	note, err := repo.GetNoteByRoom(ctx, "room-1", other.ID)
	require.NoError(t, err)
	require.Nil(t, note)

	note, err = repo.GetNoteByRoom(ctx, "room-1", interviewer.ID)
	require.NoError(t, err)
	require.NotNil(t, note)
	require.Equal(t, "mine", note.Content)
}

func TestGetNotesByInterviewer_MostRecentlyUpdatedFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	interviewer := newTestUser(t, repo, "a@x.com")

	first := models.InterviewNote{RoomID: "room-1", InterviewerID: interviewer.ID, Content: "one"}
	require.NoError(t, repo.CreateNote(ctx, &first))
	time.Sleep(10 * time.Millisecond)
	second := models.InterviewNote{RoomID: "room-2", InterviewerID: interviewer.ID, Content: "two"}
	require.NoError(t, repo.CreateNote(ctx, &second))

	notes, err := repo.GetNotesByInterviewer(ctx, interviewer.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	require.Equal(t, "room-2", notes[0].RoomID)

	// Updating the older note moves it to the front.
	time.Sleep(10 * time.Millisecond)
	first.Content = "one, updated"
	require.NoError(t, repo.UpdateNote(ctx, &first))

	notes, err = repo.GetNotesByInterviewer(ctx, interviewer.ID)
	require.NoError(t, err)
	require.Equal(t, "room-1", notes[0].RoomID)
}

func TestDeleteNoteByRoom_Scoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	interviewer := newTestUser(t, repo, "a@x.com")
	other := newTestUser(t, repo, "b@x.com")

	require.NoError(t, repo.CreateNote(ctx, &models.InterviewNote{RoomID: "room-1", InterviewerID: interviewer.ID, Content: "mine"}))

	deleted, err := repo.DeleteNoteByRoom(ctx, "room-1", other.ID)
	require.NoError(t, err)
	require.False(t, deleted)

	deleted, err = repo.DeleteNoteByRoom(ctx, "room-1", interviewer.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	note, err := repo.GetNoteByRoom(ctx, "room-1", interviewer.ID)
	require.NoError(t, err)
	require.Nil(t, note)
}
