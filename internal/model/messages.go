package model

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID              uuid.UUID  `json:"id"`
	EventID         uuid.UUID  `json:"event_id"`
	FromUserID      uuid.UUID  `json:"from_user_id"`
	ToUserID        uuid.UUID  `json:"to_user_id"`
	Content         string     `json:"content"`
	FromDisplayName *string    `json:"from_display_name,omitempty"`
	FromAvatarURL   *string    `json:"from_avatar_url,omitempty"`
	ReadAt          *time.Time `json:"read_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type SendMessageRequest struct {
	EventID  uuid.UUID  `json:"event_id" validate:"required"`
	Content  string     `json:"content"`
	ToUserID *uuid.UUID `json:"to_user_id"`
}

// Conversation groups messages by (event, other user). It is derived
// from the messages table, not stored.
type Conversation struct {
	EventID     uuid.UUID `json:"event_id"`
	EventTitle  string    `json:"event_title,omitempty"`
	WithUserID  uuid.UUID `json:"with_user_id"`
	WithName    *string   `json:"with_name,omitempty"`
	WithAvatar  *string   `json:"with_avatar,omitempty"`
	LastMessage Message   `json:"last_message"`
	UnreadCount int       `json:"unread_count"`
}

type MessagesPage struct {
	Messages   []Message  `json:"messages"`
	NextCursor *time.Time `json:"next_cursor"`
}

type MarkReadRequest struct {
	EventID    uuid.UUID `json:"event_id" validate:"required"`
	FromUserID uuid.UUID `json:"from_user_id" validate:"required"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
