package conversation

import (
	"fmt"
	"testing"
)

func TestAppend_Alternating(t *testing.T) {
	c := New()
	const n = 4
	for i := 0; i < n; i++ {
		c.Append(RoleUser, fmt.Sprintf("question %d", i))
		c.Append(RoleAssistant, fmt.Sprintf("answer %d", i))
	}

	if c.Len() != 2*n {
		t.Fatalf("expected %d turns, got %d", 2*n, c.Len())
	}

	for i, turn := range c.Turns() {
		wantRole := RoleUser
		wantContent := fmt.Sprintf("question %d", i/2)
		if i%2 == 1 {
			wantRole = RoleAssistant
			wantContent = fmt.Sprintf("answer %d", i/2)
		}
		if turn.Role != wantRole {
			t.Errorf("turn %d: expected role %s, got %s", i, wantRole, turn.Role)
		}
		if turn.Content != wantContent {
			t.Errorf("turn %d: expected %q, got %q", i, wantContent, turn.Content)
		}
	}
}

func TestTurns_ReturnsCopy(t *testing.T) {
	c := New()
	c.Append(RoleUser, "Hi")

	turns := c.Turns()
	turns[0].Content = "changed"

	if c.Turns()[0].Content != "Hi" {
		t.Errorf("history was mutated through Turns(): %q", c.Turns()[0].Content)
	}
}

func TestAppend_SetsTimestamp(t *testing.T) {
	c := New()
	turn := c.Append(RoleUser, "Hi")
	if turn.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}
