package escaperoom

import (
	"regexp"
	"strconv"
	"strings"
)

// Agent names: ASCII letters, digits and spaces, 1-20 chars
var agentNameRegex = regexp.MustCompile(`^[A-Za-z0-9 ]{1,20}$`)

// ValidAgentName reports whether name may identify an agent.
func ValidAgentName(name string) bool {
	return agentNameRegex.MatchString(name)
}

// ParsePuzzleNumber parses a 1-based puzzle number as sent by a client.
func ParsePuzzleNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, validationError("parse puzzle number", "puzzle number must be a positive integer")
	}
	return n, nil
}

func checkAgentName(op, name string) error {
	if name == "" {
		return validationError(op, "agent name is required")
	}
	if !ValidAgentName(name) {
		return validationError(op, "agent name must be 1-20 letters, digits or spaces")
	}
	return nil
}

func checkPuzzleNumber(op string, n int) error {
	if n < 1 {
		return validationError(op, "puzzle number must be a positive integer")
	}
	return nil
}
