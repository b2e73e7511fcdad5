package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Event struct {
	ID           uuid.UUID    `json:"id"`
	HostID       uuid.UUID    `json:"host_id"`
	Title        string       `json:"title"`
	Sport        string       `json:"sport"`
	Date         time.Time    `json:"date"`
	City         string       `json:"city"`
	LocationText *string      `json:"location_text,omitempty"`
	MeetingPoint pgtype.Point `json:"-"`
	Latitude     *float64     `json:"latitude,omitempty"`
	Longitude    *float64     `json:"longitude,omitempty"`
	DistanceKm   *float64     `json:"distance_km,omitempty"`
	Pace         *string      `json:"pace,omitempty"`
	Level        *string      `json:"level,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Visibility   string       `json:"visibility"`
	PacerWanted  bool         `json:"pacer_wanted"`
	CreatedAt    time.Time    `json:"created_at"`
}

type CreateEventRequest struct {
	Title        string   `json:"title" validate:"required"`
	Sport        string   `json:"sport" validate:"required"`
	Date         string   `json:"date" validate:"required"`
	Time         string   `json:"time" validate:"required"`
	City         string   `json:"city" validate:"required"`
	LocationText *string  `json:"location_text"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,longitude"`
	DistanceKm   *float64 `json:"distance_km" validate:"omitempty,gt=0"`
	Pace         *string  `json:"pace"`
	Level        *string  `json:"level"`
	Description  *string  `json:"description"`
	Visibility   string   `json:"visibility" validate:"omitempty,oneof=public private"`
	PacerWanted  bool     `json:"pacer_wanted"`
}

// EventFilter carries the list-endpoint query parameters. The url tags
// mirror the json tags so clients can build the query string directly
// from the struct.
type EventFilter struct {
	City         string     `json:"city" url:"city,omitempty"`
	Sports       []string   `json:"sports" url:"sports,omitempty,comma"`
	DateFrom     *time.Time `json:"date_from" url:"date_from,omitempty"`
	DateTo       *time.Time `json:"date_to" url:"date_to,omitempty"`
	MinDistance  *float64   `json:"min_distance" url:"min_distance,omitempty"`
	MaxDistance  *float64   `json:"max_distance" url:"max_distance,omitempty"`
	Levels       []string   `json:"levels" url:"levels,omitempty,comma"`
	PacerWanted  bool       `json:"pacer_wanted" url:"pacer_wanted,omitempty"`
	PacerOffered bool       `json:"pacer_offered" url:"pacer_offered,omitempty"`
}

type EventWithCounts struct {
	Event
	ParticipantsCount int `json:"participants_count"`
	BoostsCount       int `json:"boosts_count"`
	PacerCount        int `json:"pacer_count"`
}

type EventDetail struct {
	Event
	Participants []Participant `json:"participants"`
	Boosts       []Boost       `json:"boosts"`
	BoostsCount  int           `json:"boosts_count"`
	Joined       bool          `json:"joined"`
	BoostedByMe  bool          `json:"boosted_by_me"`
	MyPacer      bool          `json:"my_pacer"`
}

// EventSummary is the slim projection used for recipient resolution
// and the boost time gate.
type EventSummary struct {
	ID     uuid.UUID `json:"id"`
	HostID uuid.UUID `json:"host_id"`
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
}

type SetPacerRequest struct {
	Pacer bool `json:"pacer"`
}
