package services

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/avask/interview-lobby/backend/models"
	"github.com/avask/interview-lobby/backend/repository"
	"github.com/go-chi/chi/v5"
)

const maxRoomNameLength = 100

type RoomEndpoints struct {
	repo *repository.GORMRepository
}

type CreateRoomRequest struct {
	Name     string `json:"name"`
	IsClosed bool   `json:"is_closed"`
}

// UpdateRoomRequest uses pointer fields so PATCH can tell an omitted field
// from a zero value.
type UpdateRoomRequest struct {
	Name     *string `json:"name"`
	IsClosed *bool   `json:"is_closed"`
}

// PublicRoomView is the reduced representation served without
// authentication: no numeric id, no closed flag.
type PublicRoomView struct {
	RoomID    string    `json:"room_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Owner     string    `json:"owner"`
}

func NewRoomEndpoints(repo *repository.GORMRepository) *RoomEndpoints {
	return &RoomEndpoints{
		repo: repo,
	}
}

// RegisterRoutes registers the owner-scoped room routes.
func (e *RoomEndpoints) RegisterRoutes(r chi.Router) {
	r.Route("/interview-rooms", func(r chi.Router) {
		r.Get("/", e.ListRoomsHandler)
		r.Post("/", e.CreateRoomHandler)
		r.Get("/{id}", e.GetRoomHandler)
		r.Put("/{id}", e.UpdateRoomHandler)
		r.Patch("/{id}", e.PatchRoomHandler)
		r.Delete("/{id}", e.DeleteRoomHandler)
	})
}

// RegisterPublicRoutes registers the unauthenticated public room view.
func (e *RoomEndpoints) RegisterPublicRoutes(r chi.Router) {
	r.Get("/interview-rooms/public/{room_id}", e.PublicRoomHandler)
}

func validateRoomName(name string) FieldErrors {
	fieldErrs := FieldErrors{}
	if name == "" {
		fieldErrs["name"] = "This field is required"
	} else if len(name) > maxRoomNameLength {
		fieldErrs["name"] = "Ensure this field has no more than 100 characters"
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

func (e *RoomEndpoints) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	rooms, err := e.repo.GetRooms(r.Context(), user.ID)
	if err != nil {
		slog.Error("Failed to list rooms", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to list rooms")
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}

	writeJSON(w, http.StatusOK, rooms)
}

func (e *RoomEndpoints) CreateRoomHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fieldErrs := validateRoomName(req.Name); fieldErrs != nil {
		writeFieldErrors(w, fieldErrs)
		return
	}

	room := models.Room{
		OwnerID:  user.ID,
		Name:     req.Name,
		IsClosed: req.IsClosed,
	}
	if err := e.repo.CreateRoom(r.Context(), &room); err != nil {
		if errors.Is(err, repository.ErrDuplicateRoomName) {
			writeFieldErrors(w, FieldErrors{"name": "You already have a room with this name"})
			return
		}
		slog.Error("Failed to create room", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	writeJSON(w, http.StatusCreated, room)
}

// roomFromRequest resolves the {id} path parameter to a room owned by the
// requester. A malformed id, a missing room and a foreign room all come
// back nil.
func (e *RoomEndpoints) roomFromRequest(r *http.Request, ownerID string) (*models.Room, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return nil, nil
	}
	return e.repo.GetRoomByID(r.Context(), ownerID, uint(id))
}

func (e *RoomEndpoints) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	room, err := e.roomFromRequest(r, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get room")
		return
	}
	if room == nil {
		writeDetail(w, http.StatusNotFound, "Not found")
		return
	}

	writeJSON(w, http.StatusOK, room)
}

func (e *RoomEndpoints) UpdateRoomHandler(w http.ResponseWriter, r *http.Request) {
	e.updateRoom(w, r, false)
}

func (e *RoomEndpoints) PatchRoomHandler(w http.ResponseWriter, r *http.Request) {
	e.updateRoom(w, r, true)
}

func (e *RoomEndpoints) updateRoom(w http.ResponseWriter, r *http.Request, partial bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	room, err := e.roomFromRequest(r, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get room")
		return
	}
	if room == nil {
		writeDetail(w, http.StatusNotFound, "Not found")
		return
	}

	var req UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !partial {
		// PUT replaces the resource: name is required, is_closed defaults.
		if req.Name == nil {
			writeFieldErrors(w, FieldErrors{"name": "This field is required"})
			return
		}
		if req.IsClosed == nil {
			closed := false
			req.IsClosed = &closed
		}
	}

	if req.Name != nil {
		if fieldErrs := validateRoomName(*req.Name); fieldErrs != nil {
			writeFieldErrors(w, fieldErrs)
			return
		}
		room.Name = *req.Name
	}
	if req.IsClosed != nil {
		room.IsClosed = *req.IsClosed
	}

	if err := e.repo.UpdateRoom(r.Context(), room); err != nil {
		if errors.Is(err, repository.ErrDuplicateRoomName) {
			writeFieldErrors(w, FieldErrors{"name": "You already have a room with this name"})
			return
		}
		slog.Error("Failed to update room", "error", err, "id", room.ID, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to update room")
		return
	}

	writeJSON(w, http.StatusOK, room)
}

func (e *RoomEndpoints) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Not found")
		return
	}

	deleted, err := e.repo.DeleteRoom(r.Context(), user.ID, uint(id))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete room")
		return
	}
	if !deleted {
		writeDetail(w, http.StatusNotFound, "Not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (e *RoomEndpoints) PublicRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "room_id")

	room, err := e.repo.GetRoomByPublicID(r.Context(), roomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get room")
		return
	}
	if room == nil {
		writeDetail(w, http.StatusNotFound, "Not found")
		return
	}

	writeJSON(w, http.StatusOK, PublicRoomView{
		RoomID:    room.RoomID,
		Name:      room.Name,
		CreatedAt: room.CreatedAt,
		Owner:     room.Owner.FullName,
	})
}
