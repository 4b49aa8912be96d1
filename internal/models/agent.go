package models

// AgentState is the identity lifecycle of an agent name.
type AgentState int

const (
	// AgentAbsent means no secret has been recorded for the name.
	AgentAbsent AgentState = iota
	// AgentActive means a secret is recorded and the room is owned.
	AgentActive
)

func (s AgentState) String() string {
	switch s {
	case AgentActive:
		return "active"
	default:
		return "absent"
	}
}

// Agent is a player identity. It exists exactly when a secret is stored
// for its name.
type Agent struct {
	Name   string     `json:"agentName"`
	Secret string     `json:"-"`
	State  AgentState `json:"-"`
}
