package escaperoom

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/devlinb/EscapeRoom/internal/metrics"
	"github.com/devlinb/EscapeRoom/internal/models"
	"github.com/devlinb/EscapeRoom/internal/store"
)

// Puzzles reads single puzzles out of an agent's room.
type Puzzles struct {
	store store.DocumentStore
}

// NewPuzzles creates a puzzle accessor.
func NewPuzzles(ds store.DocumentStore) *Puzzles {
	return &Puzzles{store: ds}
}

// Get returns puzzle number (1-based) of the agent's room without its
// solution.
func (p *Puzzles) Get(ctx context.Context, agentName string, number int) (models.PuzzleView, error) {
	const op = "get_puzzle"

	if err := checkAgentName(op, agentName); err != nil {
		return models.PuzzleView{}, err
	}
	if err := checkPuzzleNumber(op, number); err != nil {
		return models.PuzzleView{}, err
	}

	puzzle, err := p.fetch(ctx, op, agentName, number)
	if err != nil {
		return models.PuzzleView{}, err
	}
	metrics.PuzzlesServed.Inc()
	return puzzle.View(), nil
}

// fetch returns the full puzzle, solution included. Inputs must already be
// validated.
func (p *Puzzles) fetch(ctx context.Context, op, agentName string, number int) (models.Puzzle, error) {
	raw, err := p.store.GetJSON(ctx, store.RoomKey(agentName), store.Index(number-1))
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFoundError(op, "puzzle not found")
	}
	if err != nil {
		return nil, storeError(op, err)
	}

	var puzzle models.Puzzle
	if err := json.Unmarshal(raw, &puzzle); err != nil || puzzle == nil {
		return nil, &Error{Kind: KindStore, Op: op, Message: "puzzle data is malformed", Err: err}
	}
	return puzzle, nil
}
