package model

import (
	"time"

	"github.com/google/uuid"
)

type Boost struct {
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type EventBoostCount struct {
	EventID uuid.UUID `json:"event_id"`
	Title   string    `json:"title"`
	Count   int       `json:"count"`
}

// HostBoosts tallies the boosts received across all events a user hosts.
type HostBoosts struct {
	UserID  uuid.UUID         `json:"user_id"`
	Total   int               `json:"total"`
	ByEvent []EventBoostCount `json:"by_event"`
}
