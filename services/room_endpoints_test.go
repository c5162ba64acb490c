package services

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func createRoom(t *testing.T, handler http.Handler, cookies []*http.Cookie, name string) map[string]interface{} {
	t.Helper()

	rec := doRequest(t, handler, http.MethodPost, "/interview-rooms/", map[string]string{"name": name}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody(t, rec)
}

func TestRoomCRUD(t *testing.T) {
	handler := newTestServer(t)
	cookies := registerUser(t, handler, "a@x.com", "A")

	room := createRoom(t, handler, cookies, "Room1")
	require.Equal(t, "Room1", room["name"])
	require.NotEmpty(t, room["room_id"])
	require.Equal(t, false, room["is_closed"])
	id := int(room["id"].(float64))

	// List returns the owner's rooms, newest numeric id first.
	createRoom(t, handler, cookies, "Room2")
	rec := doRequest(t, handler, http.MethodGet, "/interview-rooms/", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var rooms []map[string]interface{}
	requireDecodeList(t, rec.Body.Bytes(), &rooms)
	require.Len(t, rooms, 2)
	require.Equal(t, "Room2", rooms[0]["name"])
	require.Equal(t, "Room1", rooms[1]["name"])

	// Get by id.
	rec = doRequest(t, handler, http.MethodGet, fmt.Sprintf("/interview-rooms/%d/", id), nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	// PATCH flips the closed flag without touching the name.
	rec = doRequest(t, handler, http.MethodPatch, fmt.Sprintf("/interview-rooms/%d/", id), map[string]interface{}{"is_closed": true}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	patched := decodeBody(t, rec)
	require.Equal(t, true, patched["is_closed"])
	require.Equal(t, "Room1", patched["name"])

	// PUT replaces: name required, is_closed defaults back to false.
	rec = doRequest(t, handler, http.MethodPut, fmt.Sprintf("/interview-rooms/%d/", id), map[string]interface{}{"name": "Renamed"}, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody(t, rec)
	require.Equal(t, "Renamed", updated["name"])
	require.Equal(t, false, updated["is_closed"])

	// A closed room can still be deleted.
	rec = doRequest(t, handler, http.MethodDelete, fmt.Sprintf("/interview-rooms/%d/", id), nil, cookies)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, fmt.Sprintf("/interview-rooms/%d/", id), nil, cookies)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRoom_Validation(t *testing.T) {
	handler := newTestServer(t)
	cookies := registerUser(t, handler, "a@x.com", "A")

	rec := doRequest(t, handler, http.MethodPost, "/interview-rooms/", map[string]string{"name": ""}, cookies)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	rec = doRequest(t, handler, http.MethodPost, "/interview-rooms/", map[string]string{"name": string(long)}, cookies)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRoom_Conflict(t *testing.T) {
	handler := newTestServer(t)
	cookies := registerUser(t, handler, "a@x.com", "A")
	otherCookies := registerUser(t, handler, "b@x.com", "B")

	createRoom(t, handler, cookies, "Room1")

	rec := doRequest(t, handler, http.MethodPost, "/interview-rooms/", map[string]string{"name": "Room1"}, cookies)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	require.Contains(t, body, "errors")

	// A different owner can reuse the name.
	rec = doRequest(t, handler, http.MethodPost, "/interview-rooms/", map[string]string{"name": "Room1"}, otherCookies)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRoom_OwnershipHiddenAs404(t *testing.T) {
	handler := newTestServer(t)
	cookies := registerUser(t, handler, "a@x.com", "A")
	otherCookies := registerUser(t, handler, "b@x.com", "B")

	room := createRoom(t, handler, cookies, "Room1")
	id := int(room["id"].(float64))

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		rec := doRequest(t, handler, method, fmt.Sprintf("/interview-rooms/%d/", id), map[string]interface{}{"name": "Hijacked"}, otherCookies)
		require.Equal(t, http.StatusNotFound, rec.Code, "method %s must not leak ownership", method)
	}

	// The room is untouched.
	rec := doRequest(t, handler, http.MethodGet, fmt.Sprintf("/interview-rooms/%d/", id), nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Room1", decodeBody(t, rec)["name"])
}

func TestRooms_RequireAuth(t *testing.T) {
	handler := newTestServer(t)

	rec := doRequest(t, handler, http.MethodGet, "/interview-rooms/", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicRoomView(t *testing.T) {
	handler := newTestServer(t)
	cookies := registerUser(t, handler, "a@x.com", "A")

	room := createRoom(t, handler, cookies, "Room1")
	roomID := room["room_id"].(string)

	// No authentication required.
	rec := doRequest(t, handler, http.MethodGet, "/interview-rooms/public/"+roomID+"/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, roomID, body["room_id"])
	require.Equal(t, "Room1", body["name"])
	require.Equal(t, "A", body["owner"])
	require.Contains(t, body, "created_at")

	// The reduced view hides the numeric id and the closed flag.
	require.NotContains(t, body, "id")
	require.NotContains(t, body, "is_closed")

	rec = doRequest(t, handler, http.MethodGet, "/interview-rooms/public/unknown-room/", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
