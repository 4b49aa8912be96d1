package escaperoom

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/devlinb/EscapeRoom/internal/crypto"
	"github.com/devlinb/EscapeRoom/internal/metrics"
	"github.com/devlinb/EscapeRoom/internal/models"
	"github.com/devlinb/EscapeRoom/internal/store"
)

// CheckResult is the outcome of a solution check.
type CheckResult struct {
	Correct bool
	Message string
}

// Service exposes the operations available to players.
type Service struct {
	credentials *Credentials
	puzzles     *Puzzles
	logger      zerolog.Logger
}

// NewService wires the components around ds. An empty salt is a
// configuration error.
func NewService(ds store.DocumentStore, salt string, logger zerolog.Logger) (*Service, error) {
	deriver, err := crypto.NewDeriver(salt)
	if err != nil {
		return nil, &Error{Kind: KindConfiguration, Op: "new_service", Message: "SALT must be set", Err: err}
	}
	return &Service{
		credentials: NewCredentials(ds, deriver, logger),
		puzzles:     NewPuzzles(ds),
		logger:      logger,
	}, nil
}

// CreateOrLoad creates a new agent with an empty room or loads the room of
// an existing one.
func (s *Service) CreateOrLoad(ctx context.Context, agentName, password string) (*LoadResult, error) {
	return s.credentials.CreateOrLoad(ctx, agentName, password)
}

// SaveRoom replaces the agent's room.
func (s *Service) SaveRoom(ctx context.Context, agentName, password string, room models.Room) error {
	return s.credentials.VerifyAndSave(ctx, agentName, password, room)
}

// GetPuzzle returns a puzzle without its solution.
func (s *Service) GetPuzzle(ctx context.Context, agentName string, number int) (models.PuzzleView, error) {
	return s.puzzles.Get(ctx, agentName, number)
}

// CheckSolution evaluates guess against the puzzle's solution. Invalid
// input and missing puzzles are returned as errors; anything else that goes
// wrong while evaluating yields an incorrect result with a message.
func (s *Service) CheckSolution(ctx context.Context, agentName string, number int, guess string) (*CheckResult, error) {
	const op = "check_solution"

	if err := checkAgentName(op, agentName); err != nil {
		return nil, err
	}
	if err := checkPuzzleNumber(op, number); err != nil {
		return nil, err
	}
	if guess == "" {
		return nil, validationError(op, "guess is required")
	}

	puzzle, err := s.puzzles.fetch(ctx, op, agentName, number)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &CheckResult{Message: MessageOf(err)}, err
		}
		return s.failed(op, agentName, number, err), nil
	}

	solution, ok := puzzle.Solution()
	if !ok {
		err := notFoundError(op, "puzzle has no solution")
		return &CheckResult{Message: MessageOf(err)}, err
	}

	correct, err := Evaluate(solution, guess)
	if err != nil {
		return s.failed(op, agentName, number, err), nil
	}

	if correct {
		metrics.SolutionChecks.WithLabelValues("correct").Inc()
		return &CheckResult{Correct: true, Message: "Correct! Well done, agent."}, nil
	}
	metrics.SolutionChecks.WithLabelValues("incorrect").Inc()
	return &CheckResult{Message: "Incorrect, try again."}, nil
}

func (s *Service) failed(op, agentName string, number int, err error) *CheckResult {
	metrics.SolutionChecks.WithLabelValues("error").Inc()
	s.logger.Error().
		Err(err).
		Str("op", op).
		Str("agent", agentName).
		Int("puzzle", number).
		Msg("solution could not be evaluated")
	return &CheckResult{Message: "The solution could not be checked, try again."}
}
