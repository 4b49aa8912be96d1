package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/devlinb/EscapeRoom/internal/models"
)

// CreateOrLoadRequest represents the create-or-load request body.
type CreateOrLoadRequest struct {
	AgentName string `json:"agentName"`
	Password  string `json:"password"`
}

// CreateOrLoadResponse represents the create-or-load response.
type CreateOrLoadResponse struct {
	Response
	Created  bool        `json:"created"`
	RoomData models.Room `json:"roomData"`
}

// SaveRoomRequest represents the save request body.
type SaveRoomRequest struct {
	AgentName string          `json:"agentName"`
	Password  string          `json:"password"`
	RoomData  json.RawMessage `json:"roomData"`
}

// CreateOrLoad creates a new agent and empty room, or loads an existing room.
func (h *Handler) CreateOrLoad(w http.ResponseWriter, r *http.Request) {
	var req CreateOrLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.svc.CreateOrLoad(r.Context(), req.AgentName, req.Password)
	if err != nil {
		h.Fail(w, err)
		return
	}

	if res.Created {
		h.JSON(w, http.StatusCreated, CreateOrLoadResponse{
			Response: Response{Success: true, Message: "New agent and escape room created."},
			Created:  true,
			RoomData: res.Room,
		})
		return
	}

	h.JSON(w, http.StatusOK, CreateOrLoadResponse{
		Response: Response{Success: true, Message: "Existing escape room loaded."},
		RoomData: res.Room,
	})
}

// SaveRoom replaces the agent's room.
func (h *Handler) SaveRoom(w http.ResponseWriter, r *http.Request) {
	var req SaveRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var room models.Room
	if len(req.RoomData) > 0 {
		if err := json.Unmarshal(req.RoomData, &room); err != nil {
			h.Error(w, http.StatusBadRequest, "roomData must be an array of puzzle objects")
			return
		}
	}

	if err := h.svc.SaveRoom(r.Context(), req.AgentName, req.Password, room); err != nil {
		h.Fail(w, err)
		return
	}

	h.JSON(w, http.StatusOK, Response{Success: true, Message: "Escape room saved successfully."})
}
