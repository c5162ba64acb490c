package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/avask/interview-lobby/backend/models"
	"github.com/avask/interview-lobby/backend/repository"
	"github.com/go-chi/chi/v5"
)

type NoteEndpoints struct {
	repo *repository.GORMRepository
}

type CreateNoteRequest struct {
	RoomID        string `json:"room_id"`
	CandidateName string `json:"candidate_name"`
	Content       string `json:"content"`
}

// UpdateNoteRequest covers both the room-scoped upsert and the detail
// update. The room and interviewer of an existing note never change.
type UpdateNoteRequest struct {
	CandidateName *string `json:"candidate_name"`
	Content       *string `json:"content"`
}

func NewNoteEndpoints(repo *repository.GORMRepository) *NoteEndpoints {
	return &NoteEndpoints{
		repo: repo,
	}
}

func (e *NoteEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interview-notes", func(r chi.Router) {
		// Static segments take precedence over the {room_id} wildcard.
		r.Get("/user-notes", e.ListNotesHandler)
		r.Post("/create", e.CreateNoteHandler)

		r.Get("/{room_id}", e.GetNoteByRoomHandler)
		r.Post("/{room_id}", e.UpsertNoteByRoomHandler)

		r.Route("/note/{room_id}", func(r chi.Router) {
			r.Get("/", e.GetNoteDetailHandler)
			r.Put("/", e.UpdateNoteDetailHandler)
			r.Patch("/", e.PatchNoteDetailHandler)
			r.Delete("/", e.DeleteNoteDetailHandler)
		})
	})
}

func (e *NoteEndpoints) ListNotesHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	notes, err := e.repo.GetNotesByInterviewer(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to list notes", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to list notes")
		return
	}
	if notes == nil {
		notes = []models.InterviewNote{}
	}

	writeJSON(w, http.StatusOK, notes)
}

func (e *NoteEndpoints) CreateNoteHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fieldErrs := FieldErrors{}
	if req.RoomID == "" {
		fieldErrs["room_id"] = "This field is required"
	}
	if req.Content == "" {
		fieldErrs["content"] = "This field is required"
	}
	if len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}

	note := models.InterviewNote{
		RoomID:        req.RoomID,
		InterviewerID: user.ID,
		CandidateName: req.CandidateName,
		Content:       req.Content,
	}
	if err := e.repo.CreateNote(r.Context(), &note); err != nil {
		if errors.Is(err, repository.ErrDuplicateNote) {
			writeFieldErrors(w, FieldErrors{"room_id": "A note for this room already exists"})
			return
		}
		slog.Error("Failed to create note", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to create note")
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

func (e *NoteEndpoints) GetNoteByRoomHandler(w http.ResponseWriter, r *http.Request) {
	e.getNote(w, r)
}

// UpsertNoteByRoomHandler creates or updates the requester's note for a
// room: one note per (room, interviewer), a second POST updates in place.
func (e *NoteEndpoints) UpsertNoteByRoomHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	roomID := chi.URLParam(r, "room_id")

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	note, err := e.repo.GetNoteByRoom(r.Context(), roomID, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get note")
		return
	}

	if note == nil {
		// Room and interviewer are injected from the request, not the body.
		if req.Content == nil || *req.Content == "" {
			writeFieldErrors(w, FieldErrors{"content": "This field is required"})
			return
		}
		note = &models.InterviewNote{
			RoomID:        roomID,
			InterviewerID: user.ID,
			Content:       *req.Content,
		}
		if req.CandidateName != nil {
			note.CandidateName = *req.CandidateName
		}
		if err := e.repo.CreateNote(r.Context(), note); err != nil {
			slog.Error("Failed to create note", "error", err, "room_id", roomID, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "Failed to create note")
			return
		}
		writeJSON(w, http.StatusOK, note)
		return
	}

	if req.CandidateName != nil {
		note.CandidateName = *req.CandidateName
	}
	if req.Content != nil {
		note.Content = *req.Content
	}
	if err := e.repo.UpdateNote(r.Context(), note); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (e *NoteEndpoints) GetNoteDetailHandler(w http.ResponseWriter, r *http.Request) {
	e.getNote(w, r)
}

func (e *NoteEndpoints) getNote(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	note, err := e.repo.GetNoteByRoom(r.Context(), chi.URLParam(r, "room_id"), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get note")
		return
	}
	if note == nil {
		writeDetail(w, http.StatusNotFound, "No notes found for this room")
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (e *NoteEndpoints) UpdateNoteDetailHandler(w http.ResponseWriter, r *http.Request) {
	e.updateNote(w, r, false)
}

func (e *NoteEndpoints) PatchNoteDetailHandler(w http.ResponseWriter, r *http.Request) {
	e.updateNote(w, r, true)
}

func (e *NoteEndpoints) updateNote(w http.ResponseWriter, r *http.Request, partial bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	note, err := e.repo.GetNoteByRoom(r.Context(), chi.URLParam(r, "room_id"), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get note")
		return
	}
	if note == nil {
		writeDetail(w, http.StatusNotFound, "Note not found")
		return
	}

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !partial {
		if req.Content == nil || *req.Content == "" {
			writeFieldErrors(w, FieldErrors{"content": "This field is required"})
			return
		}
		if req.CandidateName == nil {
			empty := ""
			req.CandidateName = &empty
		}
	}

	if req.CandidateName != nil {
		note.CandidateName = *req.CandidateName
	}
	if req.Content != nil {
		if *req.Content == "" {
			writeFieldErrors(w, FieldErrors{"content": "This field may not be blank"})
			return
		}
		note.Content = *req.Content
	}

	if err := e.repo.UpdateNote(r.Context(), note); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update note")
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (e *NoteEndpoints) DeleteNoteDetailHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	deleted, err := e.repo.DeleteNoteByRoom(r.Context(), chi.URLParam(r, "room_id"), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete note")
		return
	}
	if !deleted {
		writeDetail(w, http.StatusNotFound, "Note not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
