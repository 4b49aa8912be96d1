package escaperoom

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devlinb/EscapeRoom/internal/api"
	"github.com/devlinb/EscapeRoom/internal/config"
	"github.com/devlinb/EscapeRoom/internal/escaperoom"
	"github.com/devlinb/EscapeRoom/internal/store"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	ds := store.NewMemoryStore()
	svc, err := escaperoom.NewService(ds, "pepper", zerolog.Nop())
	require.NoError(t, err)

	cfg := &config.Config{FrontendDir: t.TempDir()}
	srv := httptest.NewServer(api.NewRouter(zerolog.Nop(), cfg, svc, ds, nil))
	t.Cleanup(srv.Close)

	t.Setenv("ESCAPEROOM_CONFIG", t.TempDir())
	return NewClient(srv.URL)
}

func TestClientGameFlow(t *testing.T) {
	c := newTestClient(t)

	loaded, err := c.CreateOrLoad("Agent Smith", "hunter2")
	require.NoError(t, err)
	assert.True(t, loaded.Created)
	assert.Empty(t, loaded.RoomData)

	room := []Puzzle{
		{"question": "How many legs does a spider have?", "solution": 8},
		{"question": "Capital of France?", "solution": "Paris"},
	}
	require.NoError(t, c.SaveRoom("hunter2", room))

	p, err := c.GetPuzzle(2)
	require.NoError(t, err)
	assert.Equal(t, "Capital of France?", p.Puzzle["question"])
	assert.NotContains(t, p.Puzzle, "solution")

	res, err := c.CheckSolution(1, "eight")
	require.NoError(t, err)
	assert.True(t, res.Correct)

	res, err = c.CheckSolution(2, "paris!")
	require.NoError(t, err)
	assert.True(t, res.Correct)

	res, err = c.CheckSolution(2, "Lyon")
	require.NoError(t, err)
	assert.False(t, res.Correct)

	loaded, err = c.CreateOrLoad("Agent Smith", "hunter2")
	require.NoError(t, err)
	assert.False(t, loaded.Created)
	assert.Len(t, loaded.RoomData, 2)
}

func TestClientRemembersAgent(t *testing.T) {
	c := newTestClient(t)

	_, err := c.CreateOrLoad("Bond", "secret")
	require.NoError(t, err)

	other := NewClient(c.BaseURL)
	assert.Equal(t, "Bond", other.AgentName)
}

func TestClientErrors(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetPuzzle(1)
	assert.ErrorIs(t, err, ErrNoAgent)

	_, err = c.CreateOrLoad("Bond", "secret")
	require.NoError(t, err)

	_, err = c.CreateOrLoad("Bond", "wrong")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = c.GetPuzzle(3)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	_, err = c.CreateOrLoad("not/valid", "secret")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestClientHealth(t *testing.T) {
	c := newTestClient(t)

	resp, err := c.Health()
	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "pass", resp.Checks["memory"].Status)
}
