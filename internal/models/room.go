package models

import (
	"encoding/json"
)

// SolutionField is the puzzle field holding the answer.
const SolutionField = "solution"

// Puzzle is a stored puzzle. Fields other than the solution are opaque
// presentation data and are kept as raw JSON so they round-trip unchanged.
type Puzzle map[string]json.RawMessage

// PuzzleView is a puzzle as shown to a player. It never carries a solution
// and can only be built through Puzzle.View.
type PuzzleView struct {
	fields map[string]json.RawMessage
}

// Room is the ordered list of puzzles owned by one agent.
type Room []Puzzle

// Solution returns the raw solution value, if any.
func (p Puzzle) Solution() (json.RawMessage, bool) {
	raw, ok := p[SolutionField]
	if !ok || isJSONNull(raw) {
		return nil, false
	}
	return raw, true
}

// View returns a shallow copy of the puzzle without its solution.
func (p Puzzle) View() PuzzleView {
	fields := make(map[string]json.RawMessage, len(p))
	for k, v := range p {
		if k == SolutionField {
			continue
		}
		fields[k] = v
	}
	return PuzzleView{fields: fields}
}

// Field returns a presentation field of the view.
func (v PuzzleView) Field(name string) (json.RawMessage, bool) {
	raw, ok := v.fields[name]
	return raw, ok
}

// Len returns the number of fields in the view.
func (v PuzzleView) Len() int {
	return len(v.fields)
}

func (v PuzzleView) MarshalJSON() ([]byte, error) {
	if v.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v.fields)
}

// MarshalJSON encodes a nil room as an empty array.
func (r Room) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Puzzle(r))
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
