package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/devlinb/EscapeRoom/internal/escaperoom"
	"github.com/devlinb/EscapeRoom/internal/models"
)

// PuzzleID is a puzzle number sent either as a JSON number or a string.
type PuzzleID string

func (p *PuzzleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = PuzzleID(s)
		return nil
	}
	*p = PuzzleID(b)
	return nil
}

// PuzzleResponse represents the get puzzle response.
type PuzzleResponse struct {
	Response
	Puzzle models.PuzzleView `json:"puzzle"`
}

// CheckSolutionRequest represents the check solution request body.
type CheckSolutionRequest struct {
	AgentName string   `json:"agentName"`
	PuzzleID  PuzzleID `json:"puzzleId"`
	Guess     string   `json:"guess"`
}

// CheckSolutionResponse represents the check solution response.
type CheckSolutionResponse struct {
	Response
	Correct bool `json:"correct"`
}

// GetPuzzle returns one puzzle of an agent's room, without its solution.
func (h *Handler) GetPuzzle(w http.ResponseWriter, r *http.Request) {
	agentName := pathParam(r, "agentName")

	number, err := escaperoom.ParsePuzzleNumber(pathParam(r, "puzzleId"))
	if err != nil {
		h.Fail(w, err)
		return
	}

	view, err := h.svc.GetPuzzle(r.Context(), agentName, number)
	if err != nil {
		h.Fail(w, err)
		return
	}

	h.JSON(w, http.StatusOK, PuzzleResponse{
		Response: Response{Success: true, Message: "Puzzle loaded."},
		Puzzle:   view,
	})
}

// CheckSolution evaluates a guess for a puzzle.
func (h *Handler) CheckSolution(w http.ResponseWriter, r *http.Request) {
	var req CheckSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	number, err := escaperoom.ParsePuzzleNumber(string(req.PuzzleID))
	if err != nil {
		h.Fail(w, err)
		return
	}

	res, err := h.svc.CheckSolution(r.Context(), req.AgentName, number, req.Guess)
	if err != nil {
		if res != nil && errors.Is(err, escaperoom.ErrNotFound) {
			h.JSON(w, http.StatusNotFound, CheckSolutionResponse{
				Response: Response{Success: false, Message: res.Message},
			})
			return
		}
		h.Fail(w, err)
		return
	}

	h.JSON(w, http.StatusOK, CheckSolutionResponse{
		Response: Response{Success: true, Message: res.Message},
		Correct:  res.Correct,
	})
}

// pathParam returns the URL parameter decoded exactly once. chi matches on
// RawPath when it is set and on the already decoded Path otherwise.
func pathParam(r *http.Request, key string) string {
	param := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return param
	}
	if decoded, err := url.PathUnescape(param); err == nil {
		return decoded
	}
	return param
}
