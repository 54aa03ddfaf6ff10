// internal/models/ports.go
package models

import (
	"context"
	"fmt"
)

// MessageRef is an opaque handle to a previously sent message.
type MessageRef struct {
	ChatID    int64 `json:"chatId"`
	MessageID int   `json:"messageId"`
}

// IsZero reports whether the handle refers to no message.
func (r MessageRef) IsZero() bool {
	return r.ChatID == 0 && r.MessageID == 0
}

// Choice is an inline button offered with a message.
type Choice struct {
	Label  string
	Action PendingAction
}

// Messenger is the outbound side of the messaging collaborator.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, choices ...Choice) (MessageRef, error)
	EditMessage(ctx context.Context, ref MessageRef, text string, choices ...Choice) error
}

// GrantChannel issues a single text command to the remote access-grant system
// and returns its response.
type GrantChannel interface {
	Execute(ctx context.Context, command string) (string, error)
}

// ProfileLink renders an inline mention of a messaging user for HTML-mode
// messages.
func ProfileLink(userID int64, name string) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, userID, name)
}
