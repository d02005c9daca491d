package meeting

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChatRole identifies the author of an in-meeting chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleSystem    ChatRole = "system"
)

func (r ChatRole) IsValid() bool {
	switch r {
	case ChatRoleUser, ChatRoleAssistant, ChatRoleSystem:
		return true
	}
	return false
}

// ChatMessage is one assistant-chat exchange attached to a meeting.
type ChatMessage struct {
	id        string
	meetingID string
	role      ChatRole
	content   string
	createdAt time.Time
}

// ReconstructChatMessage rebuilds a chat message from persistence.
func ReconstructChatMessage(id, meetingID string, role ChatRole, content string, createdAt time.Time) (*ChatMessage, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid chat message id %q: %w", id, err)
	}
	return &ChatMessage{
		id:        id,
		meetingID: meetingID,
		role:      role,
		content:   content,
		createdAt: createdAt,
	}, nil
}

func (c *ChatMessage) ID() string           { return c.id }
func (c *ChatMessage) MeetingID() string    { return c.meetingID }
func (c *ChatMessage) Role() ChatRole       { return c.role }
func (c *ChatMessage) Content() string      { return c.content }
func (c *ChatMessage) CreatedAt() time.Time { return c.createdAt }

// ChatMessageUpsertParams is the typed partial-attribute set for a chat
// message upsert.
type ChatMessageUpsertParams struct {
	ID        string
	MeetingID string
	Role      string
	Content   string
	CreatedAt *time.Time
}

func (p ChatMessageUpsertParams) Validate() error {
	if _, err := uuid.Parse(p.ID); err != nil {
		return fmt.Errorf("invalid chat message id %q: %w", p.ID, err)
	}
	if _, err := uuid.Parse(p.MeetingID); err != nil {
		return fmt.Errorf("chat message %s: invalid meeting id %q: %w", p.ID, p.MeetingID, err)
	}
	if p.Role != "" && !ChatRole(p.Role).IsValid() {
		return fmt.Errorf("chat message %s: invalid role %q", p.ID, p.Role)
	}
	return nil
}
