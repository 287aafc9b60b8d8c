package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"spyroom/internal/logger"
	"spyroom/internal/model"
	"spyroom/internal/service"
)

// RoomHandler handles the room endpoints.
type RoomHandler struct {
	roomSvc *service.RoomService
}

func NewRoomHandler(roomSvc *service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRequest is the request body for creating a room.
type CreateRequest struct {
	Name string `json:"name"`
}

// JoinRequest is the request body for joining a room.
type JoinRequest struct {
	Name     string `json:"name"`
	RoomCode string `json:"roomCode"`
}

// PlayerActionRequest is the body for host-gated actions; the bearer
// playerId convention, passed explicitly rather than as a header.
type PlayerActionRequest struct {
	PlayerID int `json:"playerId"`
}

// JoinedResponse is returned from create and join.
type JoinedResponse struct {
	RoomCode string `json:"roomCode"`
	PlayerID int    `json:"playerId"`
}

// Create handles POST /api/rooms.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	host, err := h.roomSvc.CreateRoom(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JoinedResponse{RoomCode: host.RoomCode, PlayerID: host.ID})
}

// Join handles POST /api/rooms/join.
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	player, err := h.roomSvc.JoinRoom(r.Context(), req.Name, req.RoomCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JoinedResponse{RoomCode: player.RoomCode, PlayerID: player.ID})
}

// Get handles GET /api/rooms/{code}.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	view, err := h.roomSvc.GetRoom(r.Context(), code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Start handles POST /api/rooms/{code}/start.
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req PlayerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.roomSvc.StartGame(r.Context(), code, req.PlayerID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Reset handles POST /api/rooms/{code}/reset.
func (h *RoomHandler) Reset(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	var req PlayerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.roomSvc.ResetGame(r.Context(), code, req.PlayerID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// writeServiceError maps the error taxonomy onto wire responses. Auth and
// state failures share a generic 400 on purpose; only validation failures
// name a field.
func writeServiceError(w http.ResponseWriter, err error) {
	var validation *model.ValidationError
	var authz *model.AuthorizationError
	var state *model.StateError
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": validation.Message,
			"field":   validation.Field,
		})
	case errors.Is(err, model.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "Room not found")
	case errors.As(err, &authz):
		writeError(w, http.StatusBadRequest, authz.Message)
	case errors.As(err, &state):
		writeError(w, http.StatusBadRequest, state.Message)
	default:
		logger.Log.Errorw("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
