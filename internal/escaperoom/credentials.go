package escaperoom

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/devlinb/EscapeRoom/internal/crypto"
	"github.com/devlinb/EscapeRoom/internal/metrics"
	"github.com/devlinb/EscapeRoom/internal/models"
	"github.com/devlinb/EscapeRoom/internal/store"
)

// LoadResult is the outcome of CreateOrLoad.
type LoadResult struct {
	Created bool
	Room    models.Room
}

// Credentials owns agent secrets. It is the only component that compares
// them.
type Credentials struct {
	store   store.DocumentStore
	deriver *crypto.Deriver
	logger  zerolog.Logger
}

// NewCredentials creates a credential manager.
func NewCredentials(ds store.DocumentStore, deriver *crypto.Deriver, logger zerolog.Logger) *Credentials {
	return &Credentials{store: ds, deriver: deriver, logger: logger}
}

// CreateOrLoad creates the agent and an empty room if the name is unused,
// otherwise verifies the password and returns the stored room.
func (c *Credentials) CreateOrLoad(ctx context.Context, agentName, password string) (*LoadResult, error) {
	const op = "create_or_load"

	if err := checkAgentName(op, agentName); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, validationError(op, "password is required")
	}

	secret := c.deriver.Derive(password)

	created, err := c.store.SetStringIfAbsent(ctx, store.SecretKey(agentName), secret)
	if err != nil {
		return nil, storeError(op, err)
	}

	if created {
		if err := c.store.SetJSON(ctx, store.RoomKey(agentName), store.Root, json.RawMessage(`[]`)); err != nil {
			// The agent exists now; its missing room loads as empty.
			return nil, storeError(op, err)
		}
		metrics.AgentsCreated.Inc()
		c.logger.Info().
			Str("event", "agent_created").
			Str("agent", agentName).
			Msg("new agent and escape room created")
		return &LoadResult{Created: true, Room: models.Room{}}, nil
	}

	agent, err := c.lookup(ctx, op, agentName)
	if err != nil {
		return nil, err
	}
	if agent.State == models.AgentAbsent {
		return nil, storeError(op, errors.New("secret disappeared after conflicting write"))
	}
	if !crypto.SecretsEqual(agent.Secret, secret) {
		c.rejected(op, agentName)
		return nil, authenticationError(op)
	}

	room, err := c.loadRoom(ctx, op, agentName)
	if err != nil {
		return nil, err
	}
	metrics.RoomsLoaded.Inc()
	return &LoadResult{Created: false, Room: room}, nil
}

// VerifyAndSave replaces the agent's room after checking the password.
// Puzzles left out of room are lost.
func (c *Credentials) VerifyAndSave(ctx context.Context, agentName, password string, room models.Room) error {
	const op = "save_room"

	if err := checkAgentName(op, agentName); err != nil {
		return err
	}
	if password == "" {
		return validationError(op, "password is required")
	}
	if room == nil {
		return validationError(op, "room data is required")
	}

	agent, err := c.lookup(ctx, op, agentName)
	if err != nil {
		return err
	}
	if agent.State == models.AgentAbsent {
		return notFoundError(op, "agent not found, create the escape room first")
	}
	if !crypto.SecretsEqual(agent.Secret, c.deriver.Derive(password)) {
		c.rejected(op, agentName)
		return authenticationError(op)
	}

	data, err := json.Marshal(room)
	if err != nil {
		return validationError(op, "room data is not valid JSON")
	}
	if err := c.store.SetJSON(ctx, store.RoomKey(agentName), store.Root, data); err != nil {
		return storeError(op, err)
	}
	metrics.RoomsSaved.Inc()
	return nil
}

// lookup resolves the identity state of agentName.
func (c *Credentials) lookup(ctx context.Context, op, agentName string) (models.Agent, error) {
	secret, err := c.store.GetString(ctx, store.SecretKey(agentName))
	if errors.Is(err, store.ErrNotFound) {
		return models.Agent{Name: agentName, State: models.AgentAbsent}, nil
	}
	if err != nil {
		return models.Agent{}, storeError(op, err)
	}
	return models.Agent{Name: agentName, Secret: secret, State: models.AgentActive}, nil
}

func (c *Credentials) loadRoom(ctx context.Context, op, agentName string) (models.Room, error) {
	doc, err := c.store.GetJSON(ctx, store.RoomKey(agentName), store.Root)
	if errors.Is(err, store.ErrNotFound) {
		return models.Room{}, nil
	}
	if err != nil {
		return nil, storeError(op, err)
	}

	var room models.Room
	if err := json.Unmarshal(doc, &room); err != nil {
		return nil, storeError(op, err)
	}
	if room == nil {
		room = models.Room{}
	}
	return room, nil
}

func (c *Credentials) rejected(op, agentName string) {
	metrics.AuthFailures.WithLabelValues(op).Inc()
	c.logger.Warn().
		Str("type", "security").
		Str("event", "secret_mismatch").
		Str("agent", agentName).
		Str("op", op).
		Msg("secret key does not match")
}
