package conversation

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the dialogue. Turns are values and never change
// after they are appended.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation is the ordered, append-only history of a single session. It
// is replayed verbatim to the completion endpoint, so order matters. It has
// one owner and is not safe for concurrent writers.
type Conversation struct {
	turns []Turn
}

func New() *Conversation {
	return &Conversation{}
}

// Append adds a turn to the end of the history and returns it.
func (c *Conversation) Append(role Role, content string) Turn {
	t := Turn{Role: role, Content: content, CreatedAt: time.Now().UTC()}
	c.turns = append(c.turns, t)
	return t
}

// Turns returns a copy of the history in insertion order.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

func (c *Conversation) Len() int {
	return len(c.turns)
}
