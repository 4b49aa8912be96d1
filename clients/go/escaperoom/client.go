// Package escaperoom provides a client for the escape room HTTP API.
package escaperoom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ErrNoAgent is returned when a call needs an agent name and none is known.
var ErrNoAgent = errors.New("no agent name configured")

// Client is an escape room API client.
type Client struct {
	BaseURL    string
	ConfigDir  string
	AgentName  string
	HTTPClient *http.Client
}

// Config holds the locally remembered agent. Passwords are never stored.
type Config struct {
	AgentName string `json:"agentName"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("escape room error %d: %s", e.Status, e.Message)
}

// NewClient creates a new client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	configDir := os.Getenv("ESCAPEROOM_CONFIG")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".escaperoom")
	}

	c := &Client{
		BaseURL:    baseURL,
		ConfigDir:  configDir,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}

	_ = c.LoadConfig()
	return c
}

// LoadConfig loads the remembered agent name from disk.
func (c *Client) LoadConfig() error {
	data, err := os.ReadFile(filepath.Join(c.ConfigDir, "agent.json"))
	if err != nil {
		return err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return err
	}

	c.AgentName = config.AgentName
	return nil
}

// SaveConfig saves the agent name to disk.
func (c *Client) SaveConfig() error {
	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return err
	}

	data, _ := json.MarshalIndent(Config{AgentName: c.AgentName}, "", "  ")
	return os.WriteFile(filepath.Join(c.ConfigDir, "agent.json"), data, 0600)
}

// doRequest performs an HTTP request and decodes a JSON response into out.
// Responses with status 400 and above become *APIError.
func (c *Client) doRequest(method, path string, in, out interface{}) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(respBody, &errResp) != nil || errResp.Message == "" {
			errResp.Message = http.StatusText(resp.StatusCode)
		}
		if out != nil {
			_ = json.Unmarshal(respBody, out)
		}
		return resp.StatusCode, &APIError{Status: resp.StatusCode, Message: errResp.Message}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

// Puzzle is one entry of a room. Its fields are free-form.
type Puzzle map[string]interface{}

type credentials struct {
	AgentName string `json:"agentName"`
	Password  string `json:"password"`
}

type saveRequest struct {
	credentials
	RoomData []Puzzle `json:"roomData"`
}

// LoadResponse is the response from create-or-load.
type LoadResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Created  bool     `json:"created"`
	RoomData []Puzzle `json:"roomData"`
}

// CreateOrLoad creates the agent or loads its room, and remembers the
// agent name on success.
func (c *Client) CreateOrLoad(agentName, password string) (*LoadResponse, error) {
	var resp LoadResponse
	if _, err := c.doRequest(http.MethodPost, "/createOrLoadEscapeRoom", credentials{
		AgentName: agentName,
		Password:  password,
	}, &resp); err != nil {
		return nil, err
	}

	c.AgentName = agentName
	if err := c.SaveConfig(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SaveRoom replaces the agent's room.
func (c *Client) SaveRoom(password string, room []Puzzle) error {
	if c.AgentName == "" {
		return ErrNoAgent
	}
	if room == nil {
		room = []Puzzle{}
	}
	_, err := c.doRequest(http.MethodPost, "/saveEscapeRoom", saveRequest{
		credentials: credentials{AgentName: c.AgentName, Password: password},
		RoomData:    room,
	}, nil)
	return err
}

// PuzzleResponse is the response from fetching a puzzle.
type PuzzleResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Puzzle  Puzzle `json:"puzzle"`
}

// GetPuzzle fetches the 1-based puzzle number of the agent's room, without
// its solution.
func (c *Client) GetPuzzle(number int) (*PuzzleResponse, error) {
	if c.AgentName == "" {
		return nil, ErrNoAgent
	}
	path := "/" + url.PathEscape(c.AgentName) + "/" + strconv.Itoa(number)

	var resp PuzzleResponse
	if _, err := c.doRequest(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckResponse is the response from checking a solution.
type CheckResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Correct bool   `json:"correct"`
}

// CheckSolution submits a guess for puzzle number.
func (c *Client) CheckSolution(number int, guess string) (*CheckResponse, error) {
	if c.AgentName == "" {
		return nil, ErrNoAgent
	}
	req := struct {
		AgentName string `json:"agentName"`
		PuzzleID  int    `json:"puzzleId"`
		Guess     string `json:"guess"`
	}{c.AgentName, number, guess}

	var resp CheckResponse
	if _, err := c.doRequest(http.MethodPost, "/checkSolution", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Checks  map[string]struct {
		Status  string `json:"status"`
		Latency string `json:"latency,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"checks"`
	Timestamp string `json:"timestamp"`
}

// Health checks server health. A degraded server answers 503 with a body,
// which is returned together with the error.
func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	status, err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	if err != nil && status != http.StatusServiceUnavailable {
		return nil, err
	}
	return &resp, err
}
