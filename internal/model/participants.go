package model

import (
	"time"

	"github.com/google/uuid"
)

type Participant struct {
	EventID     uuid.UUID `json:"event_id"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName *string   `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Pacer       bool      `json:"pacer"`
	CreatedAt   time.Time `json:"created_at"`
}
