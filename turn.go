package counsel

import "time"

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message within a session. Turns are immutable value
// types: once created they are appended to a session and never modified.
type Turn struct {
	Role      Role
	Content   string
	Timestamp time.Time
	// Tokens is the total token count the provider reported for the API
	// call that produced this turn. Zero for user turns.
	Tokens int
}

// NewUserTurn creates a user turn stamped with the current time.
func NewUserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content, Timestamp: time.Now()}
}

// NewAssistantTurn creates an assistant turn stamped with the current time.
func NewAssistantTurn(content string, tokens int) Turn {
	return Turn{Role: RoleAssistant, Content: content, Timestamp: time.Now(), Tokens: tokens}
}
