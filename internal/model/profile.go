package model

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID            uuid.UUID `json:"id"`
	FullName      *string   `json:"full_name,omitempty"`
	City          *string   `json:"city,omitempty"`
	Sports        []string  `json:"sports"`
	AvatarURL     *string   `json:"avatar_url,omitempty"`
	ExpoPushToken *string   `json:"-"`
	PushEnabled   bool      `json:"push_enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UpsertProfileRequest struct {
	FullName *string  `json:"full_name"`
	City     *string  `json:"city"`
	Sports   []string `json:"sports"`
}

type SavePushTokenRequest struct {
	Token       *string `json:"token"`
	PushEnabled bool    `json:"push_enabled"`
}

type AvatarUploadResponse struct {
	AvatarURL string `json:"avatar_url"`
}
